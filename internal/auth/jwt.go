// Package auth extracts the caller identity for each connection attempt.
// The coordination subsystem trusts whatever identity this layer hands it.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"studyhall/internal/domain"
)

var ErrNoSubject = errors.New("token has no sub claim")

// JWT wraps a signing secret for issuing/verifying identity tokens.
type JWT struct{ secret []byte }

func New(secret string) *JWT { return &JWT{secret: []byte(secret)} }

// Verify checks a token and returns the identity carried in its sub and name
// claims.
func (j *JWT) Verify(tok string) (*domain.User, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tok, claims, func(token *jwt.Token) (any, error) {
		return j.secret, nil
	})
	if err != nil {
		return nil, err
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrNoSubject
	}
	name, _ := claims["name"].(string)
	if name == "" {
		name = sub
	}
	if len(name) > domain.MaxDisplayNameLen {
		name = name[:domain.MaxDisplayNameLen]
	}
	return &domain.User{ID: domain.UserID(sub), DisplayName: name}, nil
}

// Sign creates a token for the given identity with the given TTL.
func (j *JWT) Sign(uid domain.UserID, name string, ttl time.Duration) (string, error) {
	if uid == "" {
		return "", errors.New("empty uid")
	}
	claims := jwt.MapClaims{
		"sub":  string(uid),
		"name": name,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(j.secret)
}

// BearerToken pulls a bearer token out of an Authorization header value,
// empty when there is none.
func BearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
