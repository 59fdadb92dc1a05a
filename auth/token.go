package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"simpleTwitter/errs"
)

// Claims is the payload of the access tokens handed out on signin.
// It only carries the user's ID, everything else gets looked up fresh
// from the database on every request.
type Claims struct {
	UserID int `json:"id"`
	jwt.RegisteredClaims
}

// MakeToken signs a new access token for the given user ID.
func MakeToken(secret string, userID int) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies a token string and returns the user ID it was signed
// for. Tokens signed with an unexpected method are rejected.
func ParseToken(secret, tokenString string) (int, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Unexpected token signing method.")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return 0, errs.Errorf(errs.EUNAUTHORIZED, "The provided token is invalid.")
	}
	return claims.UserID, nil
}
