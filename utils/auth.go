package utils

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// JwtKey signs session tokens. Loaded from JWT_SECRET at startup.
var JwtKey = []byte("secret_key_change_me")

// Claims is the authenticated-caller identity carried in the session token
// and exposed to handlers through the request context.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.StandardClaims
}

// IsAdmin reports whether the caller holds the administrator role.
func (c *Claims) IsAdmin() bool { return c.Role == "admin" }

// GenerateJWT issues a session token valid for one hour.
func GenerateJWT(userID, email, role string) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JwtKey)
}
