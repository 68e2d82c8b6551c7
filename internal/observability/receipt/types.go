// Package receipt provides stable evidence artifacts for audit: one record
// per served tool invocation.
package receipt

// ReceiptSchemaVersion current
const ReceiptSchemaVersion = "1.0"

// Receipt structure
type Receipt struct {
	SchemaVersion string             `json:"schema_version"`
	OpID          string             `json:"op_id"`
	TsStart       string             `json:"ts_start"`
	TsEnd         string             `json:"ts_end"`
	Tool          string             `json:"tool"`
	Args          map[string]any     `json:"args,omitempty"`
	ArgsRedacted  bool               `json:"args_redacted,omitempty"` // true if any args were sanitized
	Result        Result             `json:"result"`
	Validation    *ValidationSummary `json:"validation,omitempty"`
	Posture       *PostureSummary    `json:"posture,omitempty"`
	Rules         *RulesSummary      `json:"rules,omitempty"`
}

// Result status
type Result struct {
	Status string `json:"status"` // "success" or "fail"
	Error  string `json:"error,omitempty"`
}

// ValidationSummary detail
type ValidationSummary struct {
	Path     string `json:"path"`
	Kind     string `json:"kind,omitempty"`
	Errors   int    `json:"errors"`
	Warnings int    `json:"warnings"`
}

// PostureSummary detail
type PostureSummary struct {
	Total  int `json:"total"`
	WithL7 int `json:"with_l7"`
	DNSOK  int `json:"dns_ok"`
}

// RulesSummary detail
type RulesSummary struct {
	Config   string    `json:"config,omitempty"` // preset name or file path
	Status   string    `json:"status"`           // pass|warn|fail
	RulesHit []RuleHit `json:"rules_hit,omitempty"`
}

// RuleHit detail
type RuleHit struct {
	Name     string `json:"name"`
	Severity string `json:"severity"` // warn|error
}
