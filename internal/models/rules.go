package models

// RuleSeverity weight of a failed rule
type RuleSeverity string

const (
	RuleSeverityWarn  RuleSeverity = "warn"
	RuleSeverityError RuleSeverity = "error"
)

// RulesConfig from yaml
type RulesConfig struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// Rule cel rule over validation input
type Rule struct {
	Name       string       `yaml:"name"`
	Expr       string       `yaml:"expr"`
	Severity   RuleSeverity `yaml:"severity"`
	FailureMsg string       `yaml:"failure_msg"`
}

// RuleResult eval result
type RuleResult struct {
	RuleName   string       `json:"rule"`
	Passed     bool         `json:"passed"`
	Severity   RuleSeverity `json:"severity,omitempty"`
	FailureMsg string       `json:"failure_msg,omitempty"`
}
