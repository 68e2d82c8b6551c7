package server

import (
	"context"
	"strings"
	"testing"

	"github.com/draupnir/draupnir/internal/models"
)

func callTool(t *testing.T, s *Server, name string, args map[string]any) models.ToolCallResult {
	t.Helper()
	req := request("tools/call", 1, map[string]any{
		"name":      name,
		"arguments": args,
	})
	resp := s.Dispatch(context.Background(), req)
	if resp == nil {
		t.Fatal("no response")
	}
	if resp.Error != nil {
		t.Fatalf("protocol error: %+v", resp.Error)
	}
	result, ok := resp.Result.(models.ToolCallResult)
	if !ok {
		t.Fatalf("result type = %T", resp.Result)
	}
	return result
}

func TestToolsList_AdvertisesAllTools(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	resp := s.Dispatch(context.Background(), request("tools/list", 1, nil))
	result := resp.Result.(models.ToolsListResult)

	want := []string{
		"list_files", "read_text", "search_text", "healthcheck",
		"list_cilium_policies", "validate_cilium_policy",
		"generate_policy_template", "zero_trust_checklist",
		"hubble_filters", "diff_policies", "evaluate_rules",
		"k8s_context", "k8s_cluster_info", "k8s_service_accounts",
	}
	got := map[string]models.ToolDescriptor{}
	for _, d := range result.Tools {
		got[d.Name] = d
	}
	for _, name := range want {
		d, ok := got[name]
		if !ok {
			t.Errorf("tool %s not advertised", name)
			continue
		}
		if d.InputSchema["type"] != "object" {
			t.Errorf("tool %s schema type = %v", name, d.InputSchema["type"])
		}
	}
	if len(result.Tools) != len(want) {
		t.Errorf("advertised %d tools, want %d", len(result.Tools), len(want))
	}
}

func TestToolCall_ListFiles(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	result := callTool(t, s, "list_files", map[string]any{"pattern": "**/*.yaml"})
	if result.IsError {
		t.Fatalf("IsError: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, "policies/web.yaml") {
		t.Errorf("text = %s", result.Content[0].Text)
	}
}

func TestToolCall_ReadText(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	result := callTool(t, s, "read_text", map[string]any{"path": "docs/guide.md"})
	if result.IsError {
		t.Fatalf("IsError: %s", result.Content[0].Text)
	}
	// String results pass through unencoded.
	if !strings.HasPrefix(result.Content[0].Text, "# Guide") {
		t.Errorf("text = %q", result.Content[0].Text)
	}
}

func TestToolCall_SoftErrors(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{
			name: "path escape",
			tool: "read_text",
			args: map[string]any{"path": "../../etc/passwd"},
			want: "access outside data dir is not allowed",
		},
		{
			name: "missing file",
			tool: "read_text",
			args: map[string]any{"path": "nope.txt"},
			want: "not found",
		},
		{
			name: "missing policy",
			tool: "validate_cilium_policy",
			args: map[string]any{"path": "nope.yaml"},
			want: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, s, tt.tool, tt.args)
			if !result.IsError {
				t.Fatal("want IsError")
			}
			if !strings.Contains(result.Content[0].Text, tt.want) {
				t.Errorf("text = %q, want substring %q", result.Content[0].Text, tt.want)
			}
		})
	}
}

func TestToolCall_UnknownTool(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	req := request("tools/call", 1, map[string]any{"name": "nope"})
	resp := s.Dispatch(context.Background(), req)
	if resp.Error == nil || resp.Error.Code != models.JSONRPCInvalidParams {
		t.Errorf("resp = %+v", resp)
	}
}

func TestToolCall_ValidatePolicy(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	result := callTool(t, s, "validate_cilium_policy", map[string]any{"path": "policies/web.yaml"})
	if result.IsError {
		t.Fatalf("IsError: %s", result.Content[0].Text)
	}
	text := result.Content[0].Text
	if !strings.Contains(text, `"kind": "CiliumNetworkPolicy"`) {
		t.Errorf("report text = %s", text)
	}
}

func TestToolCall_GenerateTemplate(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	result := callTool(t, s, "generate_policy_template", map[string]any{
		"app":          "shop",
		"namespace":    "prod",
		"egress_fqdns": []any{"api.stripe.com"},
	})
	if result.IsError {
		t.Fatalf("IsError: %s", result.Content[0].Text)
	}
	text := result.Content[0].Text
	if !strings.Contains(text, "name: shop-ztp") || !strings.Contains(text, "api.stripe.com") {
		t.Errorf("template = %s", text)
	}
}

func TestToolCall_ZeroTrustChecklist(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	result := callTool(t, s, "zero_trust_checklist", nil)
	if result.IsError {
		t.Fatalf("IsError: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, `"total": 1`) {
		t.Errorf("checklist = %s", result.Content[0].Text)
	}
}

func TestToolCall_HubbleFilters(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	result := callTool(t, s, "hubble_filters", map[string]any{"verdict": "DROPPED"})
	if result.IsError {
		t.Fatalf("IsError: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, "hubble observe --verdict DROPPED") {
		t.Errorf("filters = %s", result.Content[0].Text)
	}
}

func TestToolCall_EvaluateRulesPreset(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	result := callTool(t, s, "evaluate_rules", map[string]any{"config": "baseline"})
	if result.IsError {
		t.Fatalf("IsError: %s", result.Content[0].Text)
	}
	if !strings.Contains(result.Content[0].Text, "structurally_valid") {
		t.Errorf("results = %s", result.Content[0].Text)
	}
}

func TestToolCall_EvaluateRulesUnknownConfig(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	result := callTool(t, s, "evaluate_rules", map[string]any{"config": "no-such-preset"})
	if !result.IsError {
		t.Fatal("unresolvable config should be a soft error")
	}
	if !strings.Contains(result.Content[0].Text, "neither a preset nor a readable file") {
		t.Errorf("text = %q", result.Content[0].Text)
	}
}
