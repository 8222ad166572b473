package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/tlaurent/agendawatch/internal/event"
)

const (
	defaultSMTPHost = "smtp.gmail.com"
	defaultSMTPPort = 587

	// emailMaxRetries bounds the delivery retries on transient SMTP failures.
	emailMaxRetries = 3
)

// EmailSettings configures the SMTP notifier.
type EmailSettings struct {
	Sender   string
	Receiver string
	Host     string
	Port     int
	Password string
	// Organizer is the event organizer address placed in the registration
	// mailto links. Empty disables the registration buttons.
	Organizer string
	Contact   Contact
}

// EmailNotifier sends event alerts over SMTP with STARTTLS.
type EmailNotifier struct {
	settings EmailSettings
	log      *zap.Logger
}

// NewEmailNotifier creates an email notifier. Host and port default to
// Gmail's submission endpoint when unset.
func NewEmailNotifier(settings EmailSettings, log *zap.Logger) (*EmailNotifier, error) {
	if settings.Sender == "" || settings.Receiver == "" {
		return nil, fmt.Errorf("sender and receiver addresses are required")
	}
	if settings.Password == "" {
		return nil, fmt.Errorf("missing SMTP password: set EMAIL_PASSWORD")
	}
	if settings.Host == "" {
		settings.Host = defaultSMTPHost
	}
	if settings.Port == 0 {
		settings.Port = defaultSMTPPort
	}
	return &EmailNotifier{settings: settings, log: log}, nil
}

// Notify sends the alert email, retrying transient SMTP failures with
// exponential backoff. Permanent server rejections (5xx) are not retried.
func (n *EmailNotifier) Notify(ctx context.Context, ev *event.Matched) error {
	msg, err := n.buildMessage(ev)
	if err != nil {
		return fmt.Errorf("building alert message: %w", err)
	}

	addr := net.JoinHostPort(n.settings.Host, strconv.Itoa(n.settings.Port))
	auth := smtp.PlainAuth("", n.settings.Sender, n.settings.Password, n.settings.Host)

	op := func() error {
		err := smtp.SendMail(addr, auth, n.settings.Sender, []string{n.settings.Receiver}, msg)
		var proto *textproto.Error
		if errors.As(err, &proto) && proto.Code >= 500 {
			return backoff.Permanent(err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), emailMaxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return fmt.Errorf("sending alert for event %s: %w", ev.ID, err)
	}

	n.log.Info("email sent",
		zap.String("to", n.settings.Receiver),
		zap.String("event_id", ev.ID))
	return nil
}

// buildMessage assembles a multipart/alternative message with plain and HTML
// bodies.
func (n *EmailNotifier) buildMessage(ev *event.Matched) ([]byte, error) {
	var buf bytes.Buffer
	alt := multipart.NewWriter(&buf)

	headers := []string{
		"From: " + n.settings.Sender,
		"To: " + n.settings.Receiver,
		"Subject: " + mime.QEncoding.Encode("utf-8", emailSubject(ev)),
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="` + alt.Boundary() + `"`,
	}
	buf.WriteString(strings.Join(headers, "\r\n") + "\r\n\r\n")

	plain, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/plain; charset="utf-8"`},
	})
	if err != nil {
		return nil, err
	}
	if _, err := plain.Write([]byte(formatAlert(ev))); err != nil {
		return nil, err
	}

	htmlPart, err := alt.CreatePart(textproto.MIMEHeader{
		"Content-Type": {`text/html; charset="utf-8"`},
	})
	if err != nil {
		return nil, err
	}
	body := emailHTML(ev, n.settings.Organizer, n.settings.Contact)
	if _, err := htmlPart.Write([]byte(body)); err != nil {
		return nil, err
	}

	if err := alt.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
