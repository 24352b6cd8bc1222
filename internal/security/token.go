package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token rejection reasons surfaced by ParseUserToken.
var (
	// ErrTokenMalformed indicates the token could not be parsed or its
	// signature did not verify.
	ErrTokenMalformed = errors.New("malformed token")

	// ErrTokenExpired indicates the token was valid but past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// UserClaims carries the identity payload of a signed user token.
type UserClaims struct {
	jwt.RegisteredClaims
}

// UserID returns the token subject as a numeric user ID.
func (c *UserClaims) UserID() (uint64, error) {
	id, errParse := strconv.ParseUint(c.Subject, 10, 64)
	if errParse != nil {
		return 0, fmt.Errorf("parse token subject: %w", ErrTokenMalformed)
	}
	return id, nil
}

// SignUserToken issues an HS256 token for a user with the given lifetime.
func SignUserToken(secret string, userID uint64, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, errSign := token.SignedString([]byte(secret))
	if errSign != nil {
		return "", fmt.Errorf("sign token: %w", errSign)
	}
	return signed, nil
}

// ParseUserToken verifies a token's signature and expiry and returns its
// claims. Verification reads no state beyond the secret and the clock.
func ParseUserToken(secret, tokenString string) (*UserClaims, error) {
	claims := &UserClaims{}
	token, errParse := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if errParse != nil {
		if errors.Is(errParse, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
