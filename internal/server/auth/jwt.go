// Package auth signs and verifies the stateless bearer tokens handed to
// clients. Tokens are HS256 JWTs carrying the user id as "sub", the
// username and an expiry.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the closed set of facts a token carries.
type Claims struct {
	Subject   int64
	UserName  string
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserName string `json:"username"`
}

// Codec signs and verifies tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// Sign issues a token for claims that expires ttl from now. The ExpiresAt
// field of claims is ignored.
func (c *Codec) Sign(claims Claims, ttl time.Duration) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(claims.Subject, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserName: claims.UserName,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
// An optional secret replaces the codec's own for this call. Every failure
// matches common.ErrInvalidToken; expired tokens also match
// common.ErrTokenExpired.
func (c *Codec) Verify(token string, secret ...[]byte) (*Claims, error) {
	key := c.secret
	if len(secret) > 0 && secret[0] != nil {
		key = secret[0]
	}

	parsed := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, parsed,
		func(*jwt.Token) (any, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, errors.Join(common.ErrInvalidToken, err)
	}

	subject, err := strconv.ParseInt(parsed.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: subject %q is not a user id", common.ErrInvalidToken, parsed.Subject)
	}

	return &Claims{
		Subject:   subject,
		UserName:  parsed.UserName,
		ExpiresAt: parsed.ExpiresAt.Time,
	}, nil
}

// Valid reports whether token verifies with the codec's secret.
func (c *Codec) Valid(token string) bool {
	_, err := c.Verify(token)
	return err == nil
}
