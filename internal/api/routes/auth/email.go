package auth

import (
	"fmt"
	"net/url"
	"time"
)

const (
	signInSubject       = "Sign in to Mise"
	verificationExpiry  = 15 * time.Minute
	verifyPath          = "/api/auth/email/verify"
	signInEmailTemplate = `<html><body>
<p>Click the link below to sign in. The link is valid for 15 minutes and can
only be used once.</p>
<p><a href="%s">Sign in</a></p>
<p>If you did not request this email, you can safely ignore it.</p>
</body></html>`
)

// signInLink builds the one-time verification URL sent by email.
func signInLink(origin, email, token string) string {
	query := url.Values{}
	query.Set("email", email)
	query.Set("token", token)
	return origin + verifyPath + "?" + query.Encode()
}

func signInEmailBody(link string) string {
	return fmt.Sprintf(signInEmailTemplate, link)
}
