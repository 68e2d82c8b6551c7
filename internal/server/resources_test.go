package server

import (
	"context"
	"strings"
	"testing"

	"github.com/draupnir/draupnir/internal/models"
)

func TestResourcesList(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	resp := s.Dispatch(context.Background(), request("resources/list", 1, nil))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}
	result := resp.Result.(models.ResourcesListResult)

	byURI := map[string]models.ResourceDescriptor{}
	for _, r := range result.Resources {
		byURI[r.URI] = r
	}

	md, ok := byURI["file://docs/guide.md"]
	if !ok {
		t.Fatalf("guide.md not listed: %v", result.Resources)
	}
	if md.MimeType != "text/markdown" {
		t.Errorf("md mime = %q", md.MimeType)
	}
	if yaml := byURI["file://policies/web.yaml"]; yaml.MimeType != "application/yaml" {
		t.Errorf("yaml mime = %q", yaml.MimeType)
	}
}

func TestResourcesRead(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	resp := s.Dispatch(context.Background(), request("resources/read", 1, map[string]any{
		"uri": "file://docs/guide.md",
	}))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}
	result := resp.Result.(models.ResourceReadResult)
	if len(result.Contents) != 1 {
		t.Fatalf("contents = %d", len(result.Contents))
	}
	c := result.Contents[0]
	if c.URI != "file://docs/guide.md" || !strings.HasPrefix(c.Text, "# Guide") {
		t.Errorf("contents = %+v", c)
	}
}

func TestResourcesRead_Errors(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	tests := []struct {
		name string
		uri  string
		code int
	}{
		{"non file scheme", "https://example.com/x", models.JSONRPCInvalidParams},
		{"missing file", "file://nope.txt", models.JSONRPCInternalError},
		{"path escape", "file://../../etc/passwd", models.JSONRPCInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Dispatch(context.Background(), request("resources/read", 1, map[string]any{"uri": tt.uri}))
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("resp = %+v, want code %d", resp, tt.code)
			}
		})
	}
}

func TestPrompts(t *testing.T) {
	s := newTestServer(t, DefaultCapabilities())

	resp := s.Dispatch(context.Background(), request("prompts/list", 1, nil))
	list := resp.Result.(models.PromptsListResult)
	if len(list.Prompts) != 2 {
		t.Fatalf("prompts = %d, want 2", len(list.Prompts))
	}

	resp = s.Dispatch(context.Background(), request("prompts/get", 2, map[string]any{
		"name": "hardening-review",
	}))
	if resp.Error != nil {
		t.Fatalf("error: %+v", resp.Error)
	}
	result := resp.Result.(models.PromptGetResult)
	if len(result.Messages) != 1 || result.Messages[0].Role != "user" {
		t.Fatalf("messages = %+v", result.Messages)
	}
	if !strings.Contains(result.Messages[0].Content.Text, "zero-trust") {
		t.Errorf("prompt text = %q", result.Messages[0].Content.Text)
	}

	resp = s.Dispatch(context.Background(), request("prompts/get", 3, map[string]any{"name": "nope"}))
	if resp.Error == nil || resp.Error.Code != models.JSONRPCInvalidParams {
		t.Errorf("unknown prompt resp = %+v", resp)
	}
}
