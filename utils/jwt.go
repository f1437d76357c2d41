package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// Decision links embedded in admin chat cards carry a short-lived token that
// binds the booking id and target status, so a forwarded or edited link
// cannot be replayed against another booking or the opposite decision.

// SignDecisionToken creates a signed token for a decide link.
func SignDecisionToken(secret, bookingID, status string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": bookingID,
		"act": status,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyDecisionToken validates the token signature and expiry and checks
// that it was issued for exactly this booking and target status.
func VerifyDecisionToken(secret, tokenString, bookingID, status string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return errors.New("invalid token claims")
	}
	if claims["sub"] != bookingID || claims["act"] != status {
		return errors.New("token does not match booking or action")
	}
	return nil
}
