package views

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DisplayName extracts a user label from a bearer token for the nav bar.
// The signature is NOT verified: the value is cosmetic and never used for access decisions.
// Returns "" when the token is not a readable JWT.
func DisplayName(token string) string {
	if token == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"username", "sub"} {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
