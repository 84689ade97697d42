package auth

import (
	"net/url"
	"strings"
	"testing"
)

func TestSignInLink(t *testing.T) {
	link := signInLink("https://mise.example.com", "cole+test@example.com", "tok-123")

	parsed, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parsing link: %v", err)
	}
	if parsed.Path != "/api/auth/email/verify" {
		t.Errorf("path = %q, want %q", parsed.Path, "/api/auth/email/verify")
	}
	if got := parsed.Query().Get("email"); got != "cole+test@example.com" {
		t.Errorf("email = %q, want the plus sign to survive encoding", got)
	}
	if got := parsed.Query().Get("token"); got != "tok-123" {
		t.Errorf("token = %q, want %q", got, "tok-123")
	}
}

func TestSignInEmailBody(t *testing.T) {
	body := signInEmailBody("https://mise.example.com/api/auth/email/verify?email=a%40b.com&token=t")

	if !strings.Contains(body, `href="https://mise.example.com/api/auth/email/verify?email=a%40b.com&token=t"`) {
		t.Errorf("body missing link: %s", body)
	}
	if !strings.Contains(body, "15 minutes") {
		t.Error("body should mention the link lifetime")
	}
}
