package rules

import (
	"github.com/draupnir/draupnir/internal/models"
)

// BuildInput converts one document's validation report and posture row into
// the CEL evaluation context. Deterministic.
func BuildInput(doc *models.Node, report models.ValidationReport, detail models.PostureDetail) map[string]any {
	return map[string]any{
		"path": report.Path,
		"kind": report.Kind,
		"metadata": map[string]any{
			"name":      report.Metadata.Name,
			"namespace": report.Metadata.Namespace,
		},
		"summary": map[string]any{
			"has_ingress": report.Summary.HasIngress,
			"has_egress":  report.Summary.HasEgress,
		},
		"errors":      stringSliceToAny(report.Errors),
		"warnings":    stringSliceToAny(report.Warnings),
		"has_l7":      detail.HasL7,
		"dns_handled": detail.DNSHandled,
		"fqdns":       egressFQDNs(doc),
	}
}

// egressFQDNs collects every matchName/matchPattern from egress toFQDNs
// entries, in document order.
func egressFQDNs(doc *models.Node) []any {
	fqdns := []any{}
	for _, section := range doc.Get("spec").Get("egress").Seq() {
		for _, sel := range section.Get("toFQDNs").Seq() {
			if name, ok := sel.Get("matchName").Str(); ok {
				fqdns = append(fqdns, name)
			}
			if pattern, ok := sel.Get("matchPattern").Str(); ok {
				fqdns = append(fqdns, pattern)
			}
		}
	}
	return fqdns
}

// stringSliceToAny
func stringSliceToAny(s []string) []any {
	result := make([]any, len(s))
	for i, v := range s {
		result[i] = v
	}
	return result
}
