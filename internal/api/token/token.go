// Package token contains utilities for http tokens and cookies.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/colebaker/mise/internal/config"
	"github.com/colebaker/mise/internal/jwt"
)

const (
	sessionTokenBytes = 32

	accessTokenLifetime  = 60 * 30           // 30 minutes
	sessionTokenLifetime = 60 * 60 * 24 * 14 // 14 days

	// SessionLifetimeDays mirrors sessionTokenLifetime for expiry rows.
	SessionLifetimeDays = 14
)

var ErrMalformedSessionToken = errors.New("malformed session token")

func AccessTokenName(conf *config.Config) string {
	if conf.IsProd() {
		return "__Host-Http-access"
	}
	return "access"
}

func SessionTokenName(conf *config.Config) string {
	if conf.IsProd() {
		return "__Host-Http-session"
	}
	return "session"
}

// CreateToken returns numbytes of cryptographically secure randomness,
// base64-encoded.
func CreateToken(numbytes uint) (string, error) {
	token := make([]byte, numbytes)
	if _, err := rand.Reader.Read(token); err != nil {
		return "", fmt.Errorf("creating token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(token), nil
}

// NewSessionToken builds the cookie value "<sessionID>.<random>". The id
// segment locates the row; only a hash of the whole value is stored.
func NewSessionToken(sessionID string) (string, error) {
	randSegment, err := CreateToken(sessionTokenBytes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%s", sessionID, randSegment), nil
}

// SplitSessionToken extracts the session row id from a cookie value.
func SplitSessionToken(token string) (sessionID string, err error) {
	sessionID, rest, found := strings.Cut(token, ".")
	if !found || sessionID == "" || rest == "" {
		return "", ErrMalformedSessionToken
	}
	return sessionID, nil
}

// NewAccessToken mints the short-lived JWT carried alongside the session.
func NewAccessToken(params jwt.JWTParams, conf *config.Config) (string, error) {
	secret := conf.Secret()
	if secret == "" {
		return "", errors.New("app secret is not configured")
	}
	token, err := jwt.GenerateJWT(params, []byte(secret), conf.AppSecret.Version)
	if err != nil {
		return "", fmt.Errorf("generating access token: %w", err)
	}
	return token, nil
}

func NewAccessTokenCookie(token string, conf *config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(conf),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   accessTokenLifetime,
		SameSite: http.SameSiteLaxMode,
		Secure:   conf.IsProd(),
	}
}

func NewSessionTokenCookie(token string, conf *config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     SessionTokenName(conf),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   sessionTokenLifetime,
		SameSite: http.SameSiteLaxMode,
		Secure:   conf.IsProd(),
	}
}

// ExpiredCookie clears the named cookie on the client.
func ExpiredCookie(name string, conf *config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   conf.IsProd(),
	}
}
