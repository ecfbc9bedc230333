package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto_pos_terminal/pkg/utils"
)

// activeSession accepts exactly one session id.
type activeSession string

func (a activeSession) SessionActive(id string) bool { return id == string(a) }

func newProtectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/p", AuthMiddleware(activeSession("sess-live")), RoleAuthMiddleware(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"principal": c.GetString(ContextPrincipal),
			"name":      c.GetString(ContextDisplayName),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	utils.ConfigureJWT("middleware-test-secret", time.Hour)
	staffToken, _, err := utils.GenerateAccessToken("emp-1", "Aigerim", "staff", "sess-live")
	require.NoError(t, err)
	retiredToken, _, err := utils.GenerateAccessToken("emp-1", "Aigerim", "staff", "sess-old")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		roles  []string
		want   int
	}{
		{"missing header", "", []string{"staff"}, http.StatusUnauthorized},
		{"malformed header", "Token abc", []string{"staff"}, http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", []string{"staff"}, http.StatusUnauthorized},
		{"allowed role", "Bearer " + staffToken, []string{"staff", "admin"}, http.StatusOK},
		{"role case-insensitive", "Bearer " + staffToken, []string{"STAFF"}, http.StatusOK},
		{"forbidden role", "Bearer " + staffToken, []string{"admin"}, http.StatusForbidden},
		{"retired session", "Bearer " + retiredToken, []string{"staff"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newProtectedRouter(tt.roles...).ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, w.Body.String(), `"principal":"emp-1"`)
				assert.Contains(t, w.Body.String(), `"name":"Aigerim"`)
			}
		})
	}
}
