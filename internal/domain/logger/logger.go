package logger

import (
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// QueryLogger times one stock backend operation and logs its outcome.
type QueryLogger struct {
	Backend   string
	Operation string
	Scope     snowflake.ID
	Module    string
	StartTime time.Time
}

func NewQueryLogger(backend, operation string, scope snowflake.ID, module string) *QueryLogger {
	return &QueryLogger{
		Backend:   backend,
		Operation: operation,
		Scope:     scope,
		Module:    module,
		StartTime: time.Now(),
	}
}

// Log records the result; items is the number of items read or written.
func (l *QueryLogger) Log(err error, items int) {
	duration := time.Since(l.StartTime)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("backend", l.Backend),
			slog.String("operation", l.Operation),
			slog.String("guild_id", l.Scope.String()),
			slog.String("module", l.Module),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("backend", l.Backend),
		slog.String("operation", l.Operation),
		slog.String("guild_id", l.Scope.String()),
		slog.String("module", l.Module),
		slog.Duration("took", duration),
		slog.Int("items", items),
	)
}
