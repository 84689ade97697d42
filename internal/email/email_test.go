package email

import (
	"strings"
	"testing"
)

func TestNewSMTPSender(t *testing.T) {
	config := Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "user@example.com",
		Password: "password",
		From:     "sender@example.com",
	}

	sender := NewSMTPSender(config)
	if sender == nil {
		t.Fatal("expected sender to be created, got nil")
	}
	if sender.config.Host != config.Host {
		t.Errorf("expected host %s, got %s", config.Host, sender.config.Host)
	}
	if sender.config.Port != config.Port {
		t.Errorf("expected port %d, got %d", config.Port, sender.config.Port)
	}
}

func TestSend_NoRecipients(t *testing.T) {
	sender := NewSMTPSender(Config{Host: "smtp.example.com", Port: 25})
	if err := sender.Send(nil, "subject", "body"); err == nil {
		t.Error("expected error for empty recipient list")
	}
}

func TestBuildMessage(t *testing.T) {
	sender := &SMTPSender{
		config: Config{
			From: "sender@example.com",
		},
	}

	tests := []struct {
		name     string
		to       []string
		subject  string
		body     string
		wantTo   string
		wantBody string
	}{
		{
			name:     "single recipient",
			to:       []string{"recipient@example.com"},
			subject:  "Sign in",
			body:     "<p>hello</p>",
			wantTo:   "To: recipient@example.com\r\n",
			wantBody: "\r\n\r\n<p>hello</p>",
		},
		{
			name:     "multiple recipients",
			to:       []string{"a@example.com", "b@example.com"},
			subject:  "Sign in",
			body:     "body",
			wantTo:   "To: a@example.com, b@example.com\r\n",
			wantBody: "\r\n\r\nbody",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := string(sender.buildMessage(tt.to, tt.subject, tt.body))

			if !strings.HasPrefix(message, "From: sender@example.com\r\n") {
				t.Errorf("message missing From header: %q", message)
			}
			if !strings.Contains(message, tt.wantTo) {
				t.Errorf("message missing To header %q: %q", tt.wantTo, message)
			}
			if !strings.Contains(message, "Subject: "+tt.subject+"\r\n") {
				t.Errorf("message missing Subject header: %q", message)
			}
			if !strings.Contains(message, "Content-Type: text/html; charset=UTF-8\r\n") {
				t.Errorf("message missing Content-Type header: %q", message)
			}
			if !strings.HasSuffix(message, tt.wantBody) {
				t.Errorf("message body misplaced: %q", message)
			}
		})
	}
}
