package notifier

import (
	"context"
	"fmt"

	"github.com/tlaurent/agendawatch/internal/event"
)

// DryRunNotifier prints the alert that would be sent without delivering it
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the alert to stdout
func (n *DryRunNotifier) Notify(_ context.Context, ev *event.Matched) error {
	fmt.Printf("--- Alert for %s ---\n", ev.ID)
	fmt.Println(formatAlert(ev))
	return nil
}
