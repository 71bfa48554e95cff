// Package notifylog records provider notifications that need manual review.
package notifylog

import "log/slog"

// SlogNotificationLog writes notification review entries to a dedicated
// structured logger so operations can follow up on them.
type SlogNotificationLog struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *SlogNotificationLog {
	return &SlogNotificationLog{logger: logger.With("channel", "payment-notifications")}
}

func (l *SlogNotificationLog) Log(message string, context map[string]string) {
	attrs := make([]any, 0, len(context)*2)
	for key, value := range context {
		attrs = append(attrs, key, value)
	}
	l.logger.Info(message, attrs...)
}
