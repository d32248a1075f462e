package user

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type JwtCustomClaims struct {
	Id uint `json:"id"`
	jwt.RegisteredClaims
}

var signingKey []byte

// ConfigureJWT sets the HMAC key used by GenerateJWT.
func ConfigureJWT(secret string) {
	signingKey = []byte(secret)
}

var GenerateJWT = func(id uint, tokenID string, expiresAt time.Time) (string, error) {
	claims := JwtCustomClaims{
		Id: id,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}
