package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/draupnir/draupnir/internal/kubectl"
	"github.com/draupnir/draupnir/internal/models"
	"github.com/draupnir/draupnir/internal/observability/logging"
	"github.com/draupnir/draupnir/internal/observability/receipt"
	"github.com/draupnir/draupnir/internal/rules"
)

// Tool pairs an MCP descriptor with its handler.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     func(ctx context.Context, args map[string]any) (any, error)
}

func (s *Server) registerTools() {
	runner := kubectl.NewRunner(0)

	s.tools = []Tool{
		{
			Name:        "list_files",
			Description: "List files under the data dir, optionally filtered by a glob pattern.",
			InputSchema: objectSchema(map[string]any{
				"pattern": stringProp("Glob pattern, e.g. **/*.yaml"),
			}),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.engine.List(strArg(args, "pattern"))
			},
		},
		{
			Name:        "read_text",
			Description: "Read a text file from the data dir.",
			InputSchema: objectSchema(map[string]any{
				"path": stringProp("Path relative to the data dir"),
			}, "path"),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.engine.ReadText(strArg(args, "path"))
			},
		},
		{
			Name:        "search_text",
			Description: "Search files for a case-insensitive substring, line by line.",
			InputSchema: objectSchema(map[string]any{
				"query":     stringProp("Substring to search for"),
				"path_glob": stringProp("Glob restricting which files are searched"),
			}, "query"),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				glob := strArg(args, "path_glob")
				if glob == "" {
					glob = "**/*"
				}
				return s.engine.Search(strArg(args, "query"), glob)
			},
		},
		{
			Name:        "healthcheck",
			Description: "Liveness check; reports the bound data dir.",
			InputSchema: objectSchema(nil),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.engine.Healthcheck(), nil
			},
		},
		{
			Name:        "list_cilium_policies",
			Description: "List YAML files that look like Cilium policies (CNP/CCNP).",
			InputSchema: objectSchema(map[string]any{
				"path_glob": stringProp("Glob restricting which files are considered"),
			}),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.engine.ListPolicies(strArg(args, "path_glob"))
			},
		},
		{
			Name:        "validate_cilium_policy",
			Description: "Basic validation and hardening hints for a single Cilium policy file.",
			InputSchema: objectSchema(map[string]any{
				"path": stringProp("Policy file path relative to the data dir"),
			}, "path"),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				sess := receipt.Start(ctx, "validate_cilium_policy", args)
				report, err := s.engine.Validate(strArg(args, "path"))
				if err != nil {
					_ = sess.Finish(err)
					return nil, err
				}
				kind, _ := report.Kind.(string)
				_ = sess.Finish(nil, receipt.WithValidation(report.Path, kind, len(report.Errors), len(report.Warnings)))
				return report, nil
			},
		},
		{
			Name:        "generate_policy_template",
			Description: "Generate a CiliumNetworkPolicy skeleton for an app.",
			InputSchema: objectSchema(map[string]any{
				"app":           stringProp("Application name"),
				"namespace":     stringProp("Target namespace"),
				"ingress_ports": stringListProp("Ingress ports as port/protocol, default 80/TCP and 443/TCP"),
				"egress_fqdns":  stringListProp("Egress FQDNs, default *.amazonaws.com"),
			}, "app", "namespace"),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.engine.GenerateTemplate(
					strArg(args, "app"),
					strArg(args, "namespace"),
					strListArg(args, "ingress_ports"),
					strListArg(args, "egress_fqdns"),
				)
			},
		},
		{
			Name:        "zero_trust_checklist",
			Description: "Scan policies and produce a summarized zero-trust posture checklist.",
			InputSchema: objectSchema(map[string]any{
				"path_glob": stringProp("Glob restricting which files are scanned"),
			}),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				sess := receipt.Start(ctx, "zero_trust_checklist", args)
				report, err := s.engine.ScanPosture(strArg(args, "path_glob"))
				if err != nil {
					_ = sess.Finish(err)
					return nil, err
				}
				_ = sess.Finish(nil, receipt.WithPosture(report.Stats.Total, report.Stats.WithL7, report.Stats.DNSOK))
				return report, nil
			},
		},
		{
			Name:        "hubble_filters",
			Description: "Build hubble observe CLI snippets and filter objects.",
			InputSchema: objectSchema(map[string]any{
				"src":     stringProp("Source selector"),
				"dst":     stringProp("Destination selector"),
				"verdict": stringProp("Flow verdict filter"),
			}),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return kubectl.HubbleFilters(strArg(args, "src"), strArg(args, "dst"), strArg(args, "verdict")), nil
			},
		},
		{
			Name:        "diff_policies",
			Description: "Structurally compare two policy files and summarize the changes.",
			InputSchema: objectSchema(map[string]any{
				"path_a": stringProp("First policy file"),
				"path_b": stringProp("Second policy file"),
			}, "path_a", "path_b"),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.engine.Diff(strArg(args, "path_a"), strArg(args, "path_b"))
			},
		},
		{
			Name:        "evaluate_rules",
			Description: "Evaluate an org-rules preset or rules file from the data dir against matching policies.",
			InputSchema: objectSchema(map[string]any{
				"config":    stringProp("Preset name (baseline, strict) or rules file path"),
				"path_glob": stringProp("Glob restricting which policies are evaluated"),
			}, "config"),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return s.evaluateRules(ctx, strArg(args, "config"), strArg(args, "path_glob"))
			},
		},
		{
			Name:        "k8s_context",
			Description: "Return the current kubectl context.",
			InputSchema: objectSchema(nil),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return runner.CurrentContext(ctx), nil
			},
		},
		{
			Name:        "k8s_cluster_info",
			Description: "Return cluster info plus a nodes summary.",
			InputSchema: objectSchema(nil),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return runner.Cluster(ctx), nil
			},
		},
		{
			Name:        "k8s_service_accounts",
			Description: "List service accounts summarized to namespace/name/uid/age.",
			InputSchema: objectSchema(map[string]any{
				"all_namespaces": boolProp("List across all namespaces (default true)"),
			}),
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return runner.ServiceAccounts(ctx, boolArg(args, "all_namespaces", true)), nil
			},
		},
	}

	s.toolIdx = make(map[string]*Tool, len(s.tools))
	for i := range s.tools {
		s.toolIdx[s.tools[i].Name] = &s.tools[i]
	}
}

// evaluateRules resolves config as a preset name first, then as a rules
// file inside the corpus.
func (s *Server) evaluateRules(ctx context.Context, config, pathGlob string) (any, error) {
	cfg := rules.GetPreset(config)
	if cfg == nil {
		text, err := s.engine.ReadText(config)
		if err != nil {
			return nil, fmt.Errorf("rules config %q is neither a preset nor a readable file: %w", config, err)
		}
		cfg, err = rules.ParseConfig([]byte(text))
		if err != nil {
			return nil, err
		}
	}
	return s.engine.EvaluateRules(cfg, pathGlob)
}

func (s *Server) handleToolsList(ctx context.Context, req map[string]any) (any, *models.RPCError) {
	descriptors := make([]models.ToolDescriptor, len(s.tools))
	for i, t := range s.tools {
		descriptors[i] = models.ToolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		}
	}
	return models.ToolsListResult{Tools: descriptors}, nil
}

func (s *Server) handleToolsCall(ctx context.Context, req map[string]any) (any, *models.RPCError) {
	p := params(req)
	name, _ := p["name"].(string)
	args, _ := p["arguments"].(map[string]any)

	tool, ok := s.toolIdx[name]
	if !ok {
		return nil, &models.RPCError{Code: models.JSONRPCInvalidParams, Message: fmt.Sprintf("unknown tool %q", name)}
	}

	log := logging.From(ctx)
	log.Event(ctx, "server", "tool.call", map[string]any{"tool": name})

	result, err := tool.Handler(ctx, args)
	if err != nil {
		// Tool failures are soft per MCP semantics: the host sees an
		// isError result, not a protocol error.
		return models.ToolCallResult{
			Content: []models.ContentItem{{Type: "text", Text: err.Error()}},
			IsError: true,
		}, nil
	}

	text, rpcErr := renderResult(result)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return models.ToolCallResult{
		Content: []models.ContentItem{{Type: "text", Text: text}},
	}, nil
}

// renderResult flattens a tool result: strings pass through, everything
// else becomes pretty JSON.
func renderResult(result any) (string, *models.RPCError) {
	if s, ok := result.(string); ok {
		return s, nil
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", &models.RPCError{Code: models.JSONRPCInternalError, Message: err.Error()}
	}
	return string(data), nil
}

// Schema helpers.

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{"type": "object"}
	if len(properties) > 0 {
		schema["properties"] = properties
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func boolProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func stringListProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

// Argument helpers.

func strArg(args map[string]any, name string) string {
	s, _ := args[name].(string)
	return s
}

func strListArg(args map[string]any, name string) []string {
	items, _ := args[name].([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func boolArg(args map[string]any, name string, fallback bool) bool {
	v, ok := args[name].(bool)
	if !ok {
		return fallback
	}
	return v
}
