package receipt

import (
	"context"
	"time"

	"github.com/draupnir/draupnir/internal/observability"
)

// MaxErrorLength is the maximum length for error strings in receipts.
const MaxErrorLength = 2048

// Session tracks one tool invocation.
type Session struct {
	ctx   context.Context
	start time.Time
	tool  string
	args  map[string]any
}

// Start session
func Start(ctx context.Context, tool string, args map[string]any) *Session {
	return &Session{
		ctx:   ctx,
		start: time.Now(),
		tool:  tool,
		args:  args,
	}
}

// Option configures receipt
type Option func(*Receipt)

// WithValidation option
func WithValidation(path, kind string, errors, warnings int) Option {
	return func(r *Receipt) {
		r.Validation = &ValidationSummary{
			Path:     path,
			Kind:     kind,
			Errors:   errors,
			Warnings: warnings,
		}
	}
}

// WithPosture option
func WithPosture(total, withL7, dnsOK int) Option {
	return func(r *Receipt) {
		r.Posture = &PostureSummary{
			Total:  total,
			WithL7: withL7,
			DNSOK:  dnsOK,
		}
	}
}

// WithRules option
func WithRules(config, status string, hits []RuleHit) Option {
	return func(r *Receipt) {
		r.Rules = &RulesSummary{
			Config:   config,
			Status:   status,
			RulesHit: hits,
		}
	}
}

// Finish and write receipt
func (s *Session) Finish(err error, opts ...Option) error {
	w := From(s.ctx)
	if w == nil {
		// No writer configured, receipts disabled
		return nil
	}

	// Redact sensitive tool arguments before storing
	redactedArgs, wasRedacted := RedactArgs(s.args)

	r := Receipt{
		SchemaVersion: ReceiptSchemaVersion,
		OpID:          observability.OpID(s.ctx),
		TsStart:       s.start.Format(time.RFC3339Nano),
		TsEnd:         time.Now().Format(time.RFC3339Nano),
		Tool:          s.tool,
		Args:          redactedArgs,
		ArgsRedacted:  wasRedacted,
	}

	if err != nil {
		r.Result = Result{
			Status: "fail",
			Error:  truncateError(err.Error()),
		}
	} else {
		r.Result = Result{
			Status: "success",
		}
	}

	for _, opt := range opts {
		opt(&r)
	}

	return w.Write(r)
}

// truncateError helper
func truncateError(s string) string {
	if len(s) <= MaxErrorLength {
		return s
	}
	return s[:MaxErrorLength-3] + "..."
}
