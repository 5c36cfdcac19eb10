package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeJWTUnverified extracts the claims of a token without checking its
// signature. Tokens are signed by the identity provider with keys the service
// does not hold; real validation happens through introspection. This decode
// only serves cheap pre-checks such as expiry.
func DecodeJWTUnverified(token string) (jwt.MapClaims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}

	return claims, nil
}

// JWTExpired reports whether the token's exp claim is in the past. Malformed
// tokens count as expired.
func JWTExpired(token string) bool {
	claims, err := DecodeJWTUnverified(token)
	if err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return exp.Time.Before(time.Now())
}
