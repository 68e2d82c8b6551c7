package server

import (
	"context"
	"fmt"

	"github.com/draupnir/draupnir/internal/models"
)

type prompt struct {
	Name        string
	Description string
	Text        string
}

// Canned review prompts served over prompts/get.
var prompts = []prompt{
	{
		Name:        "hardening-review",
		Description: "Review Cilium policies against a zero-trust checklist.",
		Text: "You are a senior platform engineer reviewing Cilium policies for zero-trust.\n" +
			"Checklist: default-deny posture, least-privilege, L7 toPorts, DNS egress, health & kube-dns, FQDN pinning, auditability.\n" +
			"Provide findings and prioritized fixes (P0/P1/P2).",
	},
	{
		Name:        "write-cilium-policy",
		Description: "Draft a CiliumNetworkPolicy for a new app.",
		Text: "Draft a CiliumNetworkPolicy for a new app. Collect: app, namespace, ingress ports, egress FQDNs.\n" +
			"Emit YAML only, with comments explaining key choices.",
	},
}

func (s *Server) handlePromptsList(ctx context.Context, req map[string]any) (any, *models.RPCError) {
	descriptors := make([]models.PromptDescriptor, len(prompts))
	for i, p := range prompts {
		descriptors[i] = models.PromptDescriptor{Name: p.Name, Description: p.Description}
	}
	return models.PromptsListResult{Prompts: descriptors}, nil
}

func (s *Server) handlePromptsGet(ctx context.Context, req map[string]any) (any, *models.RPCError) {
	name, _ := params(req)["name"].(string)
	for _, p := range prompts {
		if p.Name == name {
			return models.PromptGetResult{
				Description: p.Description,
				Messages: []models.PromptMessage{{
					Role:    "user",
					Content: models.ContentItem{Type: "text", Text: p.Text},
				}},
			}, nil
		}
	}
	return nil, &models.RPCError{Code: models.JSONRPCInvalidParams, Message: fmt.Sprintf("unknown prompt %q", name)}
}
