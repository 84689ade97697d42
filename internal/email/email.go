// Package email provides functionality for sending emails via SMTP.
package email

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
)

// Sender defines the interface for sending emails.
type Sender interface {
	Send(to []string, subject, body string) error
}

// Config holds the SMTP configuration. TLS is inferred from the port:
// 587 and 465 use TLS, anything else is plain.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender implements Sender over net/smtp.
type SMTPSender struct {
	config Config
}

func NewSMTPSender(config Config) *SMTPSender {
	return &SMTPSender{config: config}
}

// Send sends an HTML email to the specified recipients.
func (s *SMTPSender) Send(to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	message := s.buildMessage(to, subject, body)
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if s.config.Port == 587 || s.config.Port == 465 {
		return s.sendWithTLS(addr, auth, to, message)
	}
	return smtp.SendMail(addr, auth, s.config.From, to, message)
}

// buildMessage constructs the wire message with headers in a fixed order.
func (s *SMTPSender) buildMessage(to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.config.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// sendWithTLS dials with STARTTLS-capable negotiation and submits the
// message over an encrypted connection.
func (s *SMTPSender) sendWithTLS(addr string, auth smtp.Auth, to []string, message []byte) error {
	tlsConfig := &tls.Config{
		ServerName: s.config.Host,
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("dialing smtp server: %w", err)
	}
	defer func() { _ = client.Close() }()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starting tls: %w", err)
		}
	}

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}
	if err := client.Mail(s.config.From); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("setting recipient %q: %w", rcpt, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("opening data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("writing message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing data writer: %w", err)
	}

	return client.Quit()
}
