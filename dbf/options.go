package dbf

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Table.
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
}

// WithLogger sets the logger used for debug output. Without it nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the date source used to stamp the header on commit and zap.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
