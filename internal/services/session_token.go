package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTokenCodec signs and verifies the cookie value carrying the opaque
// session id. The cookie never carries session contents, only the id of the
// persisted row, as an HS256 token signed with the session secret.
type SessionTokenCodec struct {
	secret []byte
}

func NewSessionTokenCodec(secret string) *SessionTokenCodec {
	return &SessionTokenCodec{secret: []byte(secret)}
}

// Sign produces the cookie value for a session. A zero ttl produces a token
// without an expiry, matching a session-only cookie.
func (c *SessionTokenCodec) Sign(sessionID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:  sessionID.String(),
		IssuedAt: jwt.NewNumericDate(now),
	}
	if ttl != 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Parse extracts the session id from a cookie value. Any failure (bad
// signature, wrong algorithm, expiry, malformed subject) reports ok=false and
// the caller treats the request as anonymous.
func (c *SessionTokenCodec) Parse(value string) (uuid.UUID, bool) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
