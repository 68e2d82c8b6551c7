// Package validator inspects Cilium network-policy documents: structural
// validation with hardening hints for a single document, zero-trust posture
// aggregation over a corpus, and skeleton generation.
package validator

import (
	"strings"

	"github.com/draupnir/draupnir/internal/models"
)

// Validate runs the ordered structural and heuristic checks over one parsed
// document. Structural failures (non-mapping root, unrecognized kind, empty
// spec) short-circuit the remaining checks; warnings never do. All findings
// come back inside the report, never as an error.
func Validate(path string, doc *models.Node) models.ValidationReport {
	report := models.ValidationReport{
		Path:     path,
		Errors:   []string{},
		Warnings: []string{},
	}

	if !doc.IsMapping() {
		report.Errors = append(report.Errors, "YAML root must be a mapping")
		return report
	}

	kindNode := doc.Get("kind")
	kind, _ := kindNode.Str()
	// Carry the raw value so a rejected kind (non-string, null) stays
	// visible in the report.
	report.Kind = kindNode.Interface()
	if !models.RecognizedKind(kind) {
		report.Errors = append(report.Errors, "Not a Cilium {CNP|CCNP} kind")
		return report
	}

	meta := doc.Get("metadata")
	if !meta.Has("name") {
		// Non-fatal: validation continues so spec problems surface too.
		report.Errors = append(report.Errors, "metadata.name is required")
	}
	report.Metadata.Name, _ = meta.Get("name").Str()
	report.Metadata.Namespace, _ = meta.Get("namespace").Str()
	report.Metadata.Labels = meta.Get("labels").Interface()

	spec := doc.Get("spec")
	if !spec.Truthy() {
		report.Errors = append(report.Errors, "spec is required")
		return report
	}

	hasIngress := spec.Get("ingress").Truthy()
	hasEgress := spec.Get("egress").Truthy()
	report.Summary.HasIngress = hasIngress
	report.Summary.HasEgress = hasEgress

	if !hasIngress && !hasEgress {
		report.Warnings = append(report.Warnings, "No ingress/egress rules present (might not enforce anything)")
	}

	if hasIngress && !hasL7Ports(spec.Get("ingress")) {
		report.Warnings = append(report.Warnings, "Ingress has no L4/L7 ports (coarse allow?)")
	}
	if hasEgress && !hasL7Ports(spec.Get("egress")) {
		report.Warnings = append(report.Warnings, "Egress has no L4/L7 ports (coarse allow?)")
	}

	if hasEgress && !mentionsDNSEgress(spec.Get("egress")) {
		report.Warnings = append(report.Warnings, "No explicit DNS egress (add kube-dns:53 or toFQDNs)")
	}

	return report
}

// hasL7Ports reports whether any rule in the direction carries a toPorts
// entry with a populated ports or rules subfield.
func hasL7Ports(rules *models.Node) bool {
	for _, rule := range rules.Seq() {
		for _, tp := range rule.Get("toPorts").Seq() {
			if tp.Get("ports").Truthy() || tp.Get("rules").Truthy() {
				return true
			}
		}
	}
	return false
}

// mentionsDNSEgress scans the rendered egress section for a "53" token or a
// toFQDNs key. Known to be a coarse heuristic: "53" matches inside an IP or
// an unrelated port as well. Kept as-is for compatibility with existing
// review tooling.
func mentionsDNSEgress(egress *models.Node) bool {
	text := egress.Render()
	return strings.Contains(text, "53") || strings.Contains(text, "toFQDNs")
}
