// Package differ compares two policy documents structurally and renders the
// changes as JSON patch operations plus plain-english summaries.
package differ

import (
	"fmt"
	"strings"

	"github.com/draupnir/draupnir/internal/models"
	"github.com/wI2L/jsondiff"
)

// Result of comparing two policy documents.
type Result struct {
	PathA   string         `json:"path_a"`
	PathB   string         `json:"path_b"`
	Equal   bool           `json:"equal"`
	Patch   jsondiff.Patch `json:"patch"`
	Changes []string       `json:"changes,omitempty"`
}

// Compare diffs document a against document b.
func Compare(pathA, pathB string, a, b *models.Node) (*Result, error) {
	patch, err := jsondiff.Compare(a.Interface(), b.Interface())
	if err != nil {
		return nil, fmt.Errorf("failed to diff %s against %s: %w", pathA, pathB, err)
	}

	return &Result{
		PathA:   pathA,
		PathB:   pathB,
		Equal:   len(patch) == 0,
		Patch:   patch,
		Changes: Translate(patch),
	}, nil
}

// Translate patches to english
func Translate(patch jsondiff.Patch) []string {
	if len(patch) == 0 {
		return nil
	}

	var translations []string
	seen := make(map[string]bool)

	for _, op := range patch {
		translation := translateOperation(op)
		if translation != "" && !seen[translation] {
			seen[translation] = true
			translations = append(translations, translation)
		}
	}

	return translations
}

func translateOperation(op jsondiff.Operation) string {
	verb := ""
	switch op.Type {
	case jsondiff.OperationAdd:
		verb = "added"
	case jsondiff.OperationRemove:
		verb = "removed"
	case jsondiff.OperationReplace:
		verb = "changed"
	default:
		return ""
	}
	return fmt.Sprintf("%s %s", section(op.Path), verb)
}

// section names the policy area a patch path touches.
func section(path string) string {
	p := strings.ToLower(path)
	switch {
	case strings.HasPrefix(p, "/spec/ingress"):
		return "ingress rules"
	case strings.HasPrefix(p, "/spec/egress/") && strings.Contains(p, "tofqdns"):
		return "egress FQDN selectors"
	case strings.HasPrefix(p, "/spec/egress"):
		return "egress rules"
	case strings.HasPrefix(p, "/spec/endpointselector"):
		return "endpoint selector"
	case strings.HasPrefix(p, "/metadata/labels"):
		return "labels"
	case strings.HasPrefix(p, "/metadata"):
		return "metadata"
	case strings.HasPrefix(p, "/kind") || strings.HasPrefix(p, "/apiversion"):
		return "document kind"
	case strings.HasPrefix(p, "/spec"):
		return "spec"
	default:
		return "document"
	}
}
