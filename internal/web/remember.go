package web

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

const rememberIssuer = "timeclock-web"

// rememberMe signs and verifies the long-lived login cookie. The token only
// names the user; the account is re-checked as active on every request.
type rememberMe struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

func newRememberMe(secret string, ttl time.Duration, clock clockwork.Clock) *rememberMe {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &rememberMe{secret: []byte(secret), ttl: ttl, clock: clock}
}

func (r *rememberMe) issue(userID int64) (string, error) {
	now := r.clock.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    rememberIssuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}

func (r *rememberMe) parse(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(rememberIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.clock.Now),
	)
	if err != nil {
		return 0, fmt.Errorf("remember token: %w", err)
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("remember token: invalid subject")
	}
	return id, nil
}

func (r *rememberMe) maxAge() int {
	return int(r.ttl / time.Second)
}
