// internal/app/system/errorreport/errorreport.go
package errorreport

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context carries arbitrary structured detail attached to a report, such as
// the payload of a failed write.
type Context map[string]any

// Reporter receives operational errors that should be visible to on-call but
// must not alter the caller's own error propagation. Implementations are
// fire-and-forget: Report never returns an error, never panics, and must not
// block the caller meaningfully.
type Reporter interface {
	Report(err error, ctx Context)
}

type zapReporter struct {
	log *zap.Logger
}

// New returns a Reporter that writes structured error reports through the
// given logger. Each report is tagged with a generated incident id so a
// caller-facing generic failure can be correlated back to the full detail.
func New(log *zap.Logger) Reporter {
	return &zapReporter{log: log}
}

func (r *zapReporter) Report(err error, ctx Context) {
	defer func() {
		// A reporter that takes down the request it is reporting on is
		// worse than no reporter.
		_ = recover()
	}()

	fields := make([]zap.Field, 0, len(ctx)+2)
	fields = append(fields,
		zap.String("incident_id", uuid.NewString()),
		zap.Error(err))
	for k, v := range ctx {
		fields = append(fields, zap.Any(k, v))
	}
	r.log.Error("operational error reported", fields...)
}

type nopReporter struct{}

// Nop returns a Reporter that discards everything. Useful in tests.
func Nop() Reporter { return nopReporter{} }

func (nopReporter) Report(error, Context) {}
