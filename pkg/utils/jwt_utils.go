package utils

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	DefaultAccessTokenTTL = 12 * time.Hour // one service shift
	tokenIssuer           = "resto-pos-terminal"
)

var (
	jwtMu        sync.RWMutex
	jwtSecretKey = []byte("change-me-resto-pos-terminal")
	accessTTL    = DefaultAccessTokenTTL
)

// ConfigureJWT sets the signing secret and access token lifetime.
func ConfigureJWT(secret string, ttl time.Duration) {
	jwtMu.Lock()
	defer jwtMu.Unlock()
	if secret != "" {
		jwtSecretKey = []byte(secret)
	}
	if ttl > 0 {
		accessTTL = ttl
	}
}

// Claims defines the JWT claims structure of terminal access tokens
type Claims struct {
	Principal   string `json:"principal"` // customer or employee id
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a new JWT access token for the logged-in principal.
// sessionID goes into the jti claim and ties the token to one sign-in.
func GenerateAccessToken(principal, displayName, role, sessionID string) (string, time.Time, error) {
	jwtMu.RLock()
	key, ttl := jwtSecretKey, accessTTL
	jwtMu.RUnlock()

	now := time.Now()
	expirationTime := now.Add(ttl)
	claims := &Claims{
		Principal:   principal,
		DisplayName: displayName,
		Role:        role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, jwt.WithIssuer(tokenIssuer))
}

// ValidateTokenSignature checks signature and issuer but accepts an expired token.
// It proves the caller once held a token this terminal signed.
func ValidateTokenSignature(tokenString string) (*Claims, error) {
	claims, err := parseToken(tokenString, jwt.WithoutClaimsValidation())
	if err != nil {
		return nil, err
	}
	if claims.Issuer != tokenIssuer {
		return nil, fmt.Errorf("token validation failed: unexpected issuer %q", claims.Issuer)
	}
	return claims, nil
}

func parseToken(tokenString string, opts ...jwt.ParserOption) (*Claims, error) {
	jwtMu.RLock()
	key := jwtSecretKey
	jwtMu.RUnlock()

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ErrNotJWT is returned by TokenExpiry for opaque session tokens.
var ErrNotJWT = errors.New("token is not a JWT")

// TokenExpiry reads the exp claim of a backend-issued token without verifying it;
// the terminal does not hold the backend's key. A nil time means no exp claim.
func TokenExpiry(tokenString string) (*time.Time, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, ErrNotJWT
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, nil
	}
	t := exp.Time
	return &t, nil
}
