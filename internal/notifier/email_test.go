package notifier

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewEmailNotifierDefaults(t *testing.T) {
	n, err := NewEmailNotifier(EmailSettings{
		Sender:   "me@example.com",
		Receiver: "you@example.com",
		Password: "app-password",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEmailNotifier: %v", err)
	}
	if n.settings.Host != defaultSMTPHost || n.settings.Port != defaultSMTPPort {
		t.Errorf("expected gmail defaults, got %s:%d", n.settings.Host, n.settings.Port)
	}
}

func TestNewEmailNotifierValidation(t *testing.T) {
	tests := []struct {
		name     string
		settings EmailSettings
	}{
		{"missing sender", EmailSettings{Receiver: "you@example.com", Password: "pw"}},
		{"missing receiver", EmailSettings{Sender: "me@example.com", Password: "pw"}},
		{"missing password", EmailSettings{Sender: "me@example.com", Receiver: "you@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewEmailNotifier(tt.settings, zap.NewNop()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestBuildMessageMultipart(t *testing.T) {
	n, err := NewEmailNotifier(EmailSettings{
		Sender:    "me@example.com",
		Receiver:  "you@example.com",
		Password:  "pw",
		Organizer: "mairie@city.example",
		Contact:   Contact{Name: "Thomas Laurent"},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEmailNotifier: %v", err)
	}

	raw, err := n.buildMessage(sampleEvent())
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	msg := string(raw)

	for _, want := range []string{
		"From: me@example.com",
		"To: you@example.com",
		"Content-Type: multipart/alternative",
		`Content-Type: text/plain; charset="utf-8"`,
		`Content-Type: text/html; charset="utf-8"`,
		"New event: concert - Vendredi 7 mars",
		"mailto:mairie@city.example",
		"S'inscrire (Ordinateur)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
	if !strings.Contains(msg, "Subject: ") {
		t.Error("message missing subject header")
	}
}

func TestBuildMessageWithoutOrganizer(t *testing.T) {
	n, err := NewEmailNotifier(EmailSettings{
		Sender:   "me@example.com",
		Receiver: "you@example.com",
		Password: "pw",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEmailNotifier: %v", err)
	}

	raw, err := n.buildMessage(sampleEvent())
	if err != nil {
		t.Fatalf("buildMessage: %v", err)
	}
	if strings.Contains(string(raw), "mailto:") {
		t.Error("message should not carry registration links without an organizer address")
	}
}
