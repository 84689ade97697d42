// Package oauth implements the Google OAuth 2.0 sign-in flow.
package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

var ErrStateMismatch = errors.New("oauth state mismatch")

// VerifyState compares the state stored in the caller's cookie with the
// one echoed back by the provider.
func VerifyState(expected, got string) error {
	if expected == "" || got != expected {
		return ErrStateMismatch
	}
	return nil
}

// Profile is the subset of the Google userinfo response we care about.
type Profile struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

type Google struct {
	config *oauth2.Config
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

// NewState returns a random URL-safe state value for CSRF protection.
func NewState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// AuthCodeURL returns the Google consent page URL for the given state.
func (g *Google) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for a token and fetches the
// user's profile. The token is returned so it can be stored on the
// linked account row.
func (g *Google) Exchange(ctx context.Context, code string) (*Profile, *oauth2.Token, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("exchanging code: %w", err)
	}

	client := g.config.Client(ctx, token)
	res, err := client.Get(userinfoEndpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return nil, nil, fmt.Errorf("userinfo returned %d: %s", res.StatusCode, body)
	}

	var profile Profile
	if err := json.NewDecoder(res.Body).Decode(&profile); err != nil {
		return nil, nil, fmt.Errorf("decoding userinfo: %w", err)
	}
	if profile.Email == "" {
		return nil, nil, errors.New("userinfo missing email")
	}
	return &profile, token, nil
}
