package notifier

import (
	"context"

	"github.com/tlaurent/agendawatch/internal/event"
)

// Notifier defines the interface for delivering event alerts
type Notifier interface {
	// Notify delivers an alert for one matched event. A nil return means the
	// alert reached the channel; callers use it to mark the event notified.
	Notify(ctx context.Context, ev *event.Matched) error
}

// Contact holds the requester details placed in registration emails.
type Contact struct {
	Name  string
	Phone string
}
