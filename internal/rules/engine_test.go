package rules

import (
	"strings"
	"sync"
	"testing"

	"github.com/draupnir/draupnir/internal/models"
	"github.com/draupnir/draupnir/internal/validator"
)

func testInput(t *testing.T, text, path string) map[string]any {
	t.Helper()
	doc, err := models.ParseDocument(text)
	if err != nil {
		t.Fatal(err)
	}
	report := validator.Validate(path, doc)
	posture := validator.ScanPosture([]validator.Entry{{Path: path, Doc: doc}}, "")
	var detail models.PostureDetail
	if len(posture.Details) > 0 {
		detail = posture.Details[0]
	}
	return BuildInput(doc, report, detail)
}

const strictPolicy = `
kind: CiliumNetworkPolicy
metadata:
  name: web
spec:
  ingress:
  - toPorts:
    - ports:
      - port: "443"
  egress:
  - toFQDNs:
    - matchName: api.example.com
`

const loosePolicy = `
kind: CiliumNetworkPolicy
metadata:
  name: loose
spec:
  egress:
  - toEndpoints:
    - matchLabels: {app: db}
`

func TestEvaluate_BaselinePreset(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}

	results, err := engine.Evaluate(MustGetPreset("baseline"), testInput(t, strictPolicy, "web.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("rule %s failed: %s", r.RuleName, r.FailureMsg)
		}
	}
}

func TestEvaluate_StrictPresetFlagsLoosePolicy(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}

	results, err := engine.Evaluate(MustGetPreset("strict"), testInput(t, loosePolicy, "loose.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	byName := map[string]models.RuleResult{}
	for _, r := range results {
		byName[r.RuleName] = r
	}

	if byName["structurally_valid"].Passed != true {
		t.Error("structurally_valid should pass")
	}
	if byName["require_l7_ports"].Passed {
		t.Error("require_l7_ports should fail for a policy without toPorts")
	}
	if byName["require_dns_egress"].Passed {
		t.Error("require_dns_egress should fail for egress without DNS handling")
	}
	if !byName["forbid_wildcard_fqdns"].Passed {
		t.Error("forbid_wildcard_fqdns should pass when no FQDNs are declared")
	}
}

func TestEvaluate_WildcardFQDN(t *testing.T) {
	text := `
kind: CiliumNetworkPolicy
metadata:
  name: w
spec:
  egress:
  - toFQDNs:
    - matchPattern: "*.amazonaws.com"
`
	engine, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}
	results, err := engine.Evaluate(MustGetPreset("strict"), testInput(t, text, "w.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.RuleName == "forbid_wildcard_fqdns" {
			if r.Passed {
				t.Error("leading wildcard FQDN should fail forbid_wildcard_fqdns")
			}
			if r.FailureMsg == "" {
				t.Error("failed rule should carry its failure message")
			}
			return
		}
	}
	t.Fatal("forbid_wildcard_fqdns not evaluated")
}

func TestEvaluate_SoftFailures(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}
	cfg := &models.RulesConfig{
		Name: "broken",
		Rules: []models.Rule{
			{Name: "bad_syntax", Expr: "input.(", Severity: models.RuleSeverityError},
			{Name: "not_bool", Expr: `"a string"`, Severity: models.RuleSeverityWarn},
		},
	}

	results, err := engine.Evaluate(cfg, map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Passed || !strings.Contains(results[0].FailureMsg, "compile error") {
		t.Errorf("bad syntax result = %+v", results[0])
	}
	if results[1].Passed || !strings.Contains(results[1].FailureMsg, "must return boolean") {
		t.Errorf("non-bool result = %+v", results[1])
	}
}

func TestCompileAndValidate(t *testing.T) {
	engine, err := NewEngine()
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range ListPresetNames() {
		if err := engine.CompileAndValidate(MustGetPreset(name)); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}

	bad := &models.RulesConfig{Rules: []models.Rule{{Name: "x", Expr: "(("}}}
	if err := engine.CompileAndValidate(bad); err == nil {
		t.Error("invalid expression should fail validation")
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("name: custom\nrules:\n  - name: r1\n    expr: 'true'\n    severity: warn\n    failure_msg: nope\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Name != "custom" || len(cfg.Rules) != 1 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Rules[0].Severity != models.RuleSeverityWarn {
		t.Errorf("severity = %q", cfg.Rules[0].Severity)
	}

	if _, err := ParseConfig([]byte("rules: [unclosed")); err == nil {
		t.Error("invalid yaml should fail")
	}
}

func TestGetPreset_Unknown(t *testing.T) {
	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}
}

func TestGetPreset_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		name := "baseline"
		if i%2 == 1 {
			name = "strict"
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if GetPreset(name) == nil {
				t.Errorf("GetPreset(%q) = nil", name)
			}
		}()
	}
	wg.Wait()
}

func TestBuildInput_FQDNs(t *testing.T) {
	doc, err := models.ParseDocument(`
spec:
  egress:
  - toFQDNs:
    - matchName: a.example.com
    - matchPattern: "*.example.org"
`)
	if err != nil {
		t.Fatal(err)
	}
	input := BuildInput(doc, models.ValidationReport{}, models.PostureDetail{})
	fqdns, ok := input["fqdns"].([]any)
	if !ok || len(fqdns) != 2 {
		t.Fatalf("fqdns = %v", input["fqdns"])
	}
	if fqdns[0] != "a.example.com" || fqdns[1] != "*.example.org" {
		t.Errorf("fqdns = %v", fqdns)
	}
}
