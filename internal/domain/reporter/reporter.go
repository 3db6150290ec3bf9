package reporter

import (
	"context"
	"runtime/debug"
	"time"

	"go.uber.org/zap"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

// Reporter is the best-effort failure sink. It appends structured
// failure records to the error log collection and never fails itself:
// when the store write goes wrong it degrades to local logging.
type Reporter interface {
	Report(ctx context.Context, user string, err error)
}

type storeReporter struct {
	tab store.Tabular
	log *logger.Logger
}

// New creates a Reporter writing to the error log collection.
func New(tab store.Tabular, log *logger.Logger) Reporter {
	return &storeReporter{tab: tab, log: log}
}

func (r *storeReporter) Report(ctx context.Context, user string, err error) {
	if err == nil {
		return
	}

	row := store.Row{
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"user":        user,
		"message":     err.Error(),
		"stack_trace": string(debug.Stack()),
	}

	if writeErr := r.tab.BatchWrite(ctx, store.CollectionErrorLog, []store.Row{row}); writeErr != nil {
		r.log.Error("error reporter store write failed",
			zap.String("user", user),
			zap.NamedError("original", err),
			zap.NamedError("write_error", writeErr),
		)
	}
}

// Nop returns a Reporter that drops everything, for tests.
func Nop() Reporter {
	return nopReporter{}
}

type nopReporter struct{}

func (nopReporter) Report(context.Context, string, error) {}
