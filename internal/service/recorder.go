package service

import (
	"context"
	"log/slog"

	"tush00nka/archive_relay/internal/pkg/logging"
)

type logKeyRecorder struct {
	logger *slog.Logger
}

// NewLogKeyRecorder records user keys as structured log entries.
func NewLogKeyRecorder(logger *slog.Logger) KeyRecorder {
	return &logKeyRecorder{logger: logger}
}

func (r *logKeyRecorder) RecordUserKey(ctx context.Context, userKey string) {
	logging.FromContext(ctx, r.logger).Info("received user key for results", "user_key", userKey)
}
