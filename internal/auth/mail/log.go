package mail

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/inkwell/pkg/slogx"
)

// LogSender writes messages to the request logger instead of sending them.
// Only meant for local development, where reading the code from the log is
// the whole point.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg Message) error {
	slogx.FromContext(ctx).Info("mail not sent, no smtp configured",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
	return nil
}
