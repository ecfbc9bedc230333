package utils

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// StrToIntDefault converts s, returning def for empty or malformed input.
func StrToIntDefault(s string, def int) int {
	num, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return num
}

// DecimalPtr returns nil for a nil string, otherwise the parsed decimal.
func DecimalPtr(s *string) (*decimal.Decimal, error) {
	if s == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
