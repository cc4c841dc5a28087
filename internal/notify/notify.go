// Package notify is the delivery boundary for one-shot budget alerts. The
// threshold state machine only decides whether and at what level to alert;
// delivering it, and coping with delivery failure, happens here.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JamesHardey/NairaStudent/internal/amqp"
	"github.com/JamesHardey/NairaStudent/internal/budget"
)

// Notifier delivers a single alert. Callers treat delivery as
// fire-and-forget: a failed delivery is logged, never fatal to a save.
type Notifier interface {
	Deliver(ctx context.Context, alert budget.Alert) error
}

// AMQPNotifier hands alerts to a broker queue for whatever desktop or
// mobile agent is listening.
type AMQPNotifier struct {
	client *amqp.Client
}

func NewAMQPNotifier(client *amqp.Client) *AMQPNotifier {
	return &AMQPNotifier{client: client}
}

func (n *AMQPNotifier) Deliver(ctx context.Context, alert budget.Alert) error {
	msg := &amqp.AlertMessage{
		Type:      alert.Type,
		Level:     int(alert.Level),
		Title:     alert.Title,
		Body:      alert.Body,
		Timestamp: time.Now(),
	}
	if err := n.client.PublishAlert(ctx, msg); err != nil {
		return fmt.Errorf("deliver alert: %w", err)
	}
	return nil
}

// LogNotifier writes alerts to the log. It is the fallback when no broker
// is configured, so a threshold crossing is still visible somewhere.
type LogNotifier struct{}

func (LogNotifier) Deliver(ctx context.Context, alert budget.Alert) error {
	slog.InfoContext(ctx, "Budget alert",
		"type", alert.Type,
		"level", int(alert.Level),
		"title", alert.Title,
		"body", alert.Body)
	return nil
}
