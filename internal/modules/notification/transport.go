package notification

import (
	"context"

	"rentora/internal/pkg/logger"
)

// Button is one inline action offered with an outbound message.
type Button struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// Transport delivers a message to a recipient. The chat platform adapter
// implements this; the core never formats platform markup itself.
type Transport interface {
	Send(ctx context.Context, recipientID int64, text string, buttons []Button) error
}

// LogTransport is the default delivery used in development and tests: it
// writes the would-be message to the log and always succeeds.
type LogTransport struct {
	log logger.Logger
}

func NewLogTransport(log logger.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Send(ctx context.Context, recipientID int64, text string, buttons []Button) error {
	t.log.Info("outbound message",
		"recipient_id", recipientID,
		"text", text,
		"buttons", len(buttons),
	)
	return nil
}
