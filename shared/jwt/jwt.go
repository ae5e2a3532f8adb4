package jwt

import (
	"fmt"
	"net/http"
	"time"

	"github.com/folio-desk/folio/shared/errors"
	"github.com/golang-jwt/jwt/v5"
)

// Jwt issues and checks HS256 bearer tokens whose subject is the user's email.
type Jwt struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

func (j *Jwt) NewToken(email string) (string, error) {
	now := j.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("can't create token: %w", err)
	}
	return token, nil
}

// Subject returns the email a valid token was issued for.
func (j *Jwt) Subject(tokenStr string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil || !token.Valid {
		return "", &errors.ErrorWithStatusCode{Message: "Could not validate credentials", StatusCode: http.StatusUnauthorized, Kind: errors.KindUnauthorized, Err: err}
	}
	if claims.Subject == "" {
		return "", errors.Unauthorized("Could not validate credentials")
	}
	return claims.Subject, nil
}
