// Package session defines the authenticated caller's identity as seen by
// handlers.
package session

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Session is the validated identity built at the boundary, immediately
// after the access token is verified. Handlers never touch raw claims.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
}

var (
	ErrNoSession     = errors.New("no session in context")
	ErrInvalidClaims = errors.New("access token claims have an invalid shape")
)

// FromJWT builds a Session from a validated access token.
func FromJWT(token *jwt.Token) (Session, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Session{}, ErrInvalidClaims
	}
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return Session{}, ErrInvalidClaims
	}
	name, _ := claims["name"].(string)

	return Session{
		UserID:      sub,
		Email:       email,
		DisplayName: name,
	}, nil
}

type sessionKeyType struct{}

var sessionKey sessionKeyType

func WithCtx(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromCtx(ctx context.Context) (Session, error) {
	if s, ok := ctx.Value(sessionKey).(Session); ok {
		return s, nil
	}
	return Session{}, ErrNoSession
}
