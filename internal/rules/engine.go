// Package rules provides the org-rules engine: CEL expressions evaluated
// against validation and posture findings, with built-in presets.
package rules

import (
	"fmt"
	"strings"

	"github.com/draupnir/draupnir/internal/models"
	"github.com/google/cel-go/cel"
)

// Engine evaluates org rules using CEL
type Engine struct {
	env *cel.Env
}

func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("input", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{env: env}, nil
}

// Evaluate checks every rule against input. Compile and eval problems are
// soft: they come back as failed results, not errors.
func (e *Engine) Evaluate(config *models.RulesConfig, input map[string]any) ([]models.RuleResult, error) {
	results := make([]models.RuleResult, 0, len(config.Rules))

	for _, rule := range config.Rules {
		result, err := e.evaluateRule(rule, input)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate rule %q: %w", rule.Name, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// evaluateRule
func (e *Engine) evaluateRule(rule models.Rule, input map[string]any) (models.RuleResult, error) {
	// compile
	ast, issues := e.env.Compile(rule.Expr)
	if issues != nil && issues.Err() != nil {
		return models.RuleResult{
			RuleName:   rule.Name,
			Passed:     false,
			Severity:   rule.Severity,
			FailureMsg: fmt.Sprintf("CEL compile error: %v", issues.Err()),
		}, nil
	}

	// program
	prg, err := e.env.Program(ast)
	if err != nil {
		return models.RuleResult{
			RuleName:   rule.Name,
			Passed:     false,
			Severity:   rule.Severity,
			FailureMsg: fmt.Sprintf("CEL program error: %v", err),
		}, nil
	}

	// eval
	out, _, err := prg.Eval(map[string]any{
		"input": input,
	})
	if err != nil {
		return models.RuleResult{
			RuleName:   rule.Name,
			Passed:     false,
			Severity:   rule.Severity,
			FailureMsg: fmt.Sprintf("CEL evaluation error: %v", err),
		}, nil
	}

	// check bool
	passed, ok := out.Value().(bool)
	if !ok {
		return models.RuleResult{
			RuleName:   rule.Name,
			Passed:     false,
			Severity:   rule.Severity,
			FailureMsg: fmt.Sprintf("Rule expression must return boolean, got %T", out.Value()),
		}, nil
	}

	result := models.RuleResult{
		RuleName: rule.Name,
		Passed:   passed,
		Severity: rule.Severity,
	}
	if !passed {
		result.FailureMsg = rule.FailureMsg
	}

	return result, nil
}

// CompileAndValidate checks every rule expression without evaluating.
func (e *Engine) CompileAndValidate(config *models.RulesConfig) error {
	var errors []string

	for _, rule := range config.Rules {
		_, issues := e.env.Compile(rule.Expr)
		if issues != nil && issues.Err() != nil {
			errors = append(errors, fmt.Sprintf("rule %q: %v", rule.Name, issues.Err()))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("rules validation failed:\n  %s", strings.Join(errors, "\n  "))
	}

	return nil
}
