package validator

import (
	"path"
	"strings"

	"github.com/draupnir/draupnir/internal/corpus"
	"github.com/draupnir/draupnir/internal/models"
)

// Entry is one candidate file handed to the posture scan. Err records an
// upstream read or parse failure; such entries are skipped, not reported.
type Entry struct {
	Path string
	Doc  *models.Node
	Err  error
}

// dnsPortTokens are the rendered-text forms of a DNS port rule. Single and
// double quoted variants cover both YAML emitters in the wild.
var dnsPortTokens = []string{"port: '53'", `port: "53"`, "port: 53"}

// ScanPosture reduces a corpus of policy documents into zero-trust posture
// counters plus a detail row per recognized document. Entries that do not
// match pattern, lack a YAML extension, failed to parse, or carry an
// unrecognized kind are silently skipped: the scan is best-effort over
// whatever parses. Stats are allocated fresh per call.
func ScanPosture(entries []Entry, pattern string) models.PostureReport {
	report := models.PostureReport{Details: []models.PostureDetail{}}

	for _, entry := range entries {
		if pattern != "" && !corpus.Matches(entry.Path, pattern) {
			continue
		}
		ext := strings.ToLower(path.Ext(entry.Path))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if entry.Err != nil || !entry.Doc.IsMapping() {
			continue
		}
		kind, _ := entry.Doc.Get("kind").Str()
		if !models.RecognizedKind(kind) {
			continue
		}

		report.Stats.Total++
		if kind == models.KindCNP {
			report.Stats.CNPCount++
		} else {
			report.Stats.CCNPCount++
		}

		spec := entry.Doc.Get("spec")
		sections := append(spec.Get("ingress").Seq(), spec.Get("egress").Seq()...)

		var l7, dns bool
		for _, section := range sections {
			for _, tp := range section.Get("toPorts").Seq() {
				if tp.Get("ports").Truthy() || tp.Get("rules").Truthy() {
					l7 = true
				}
			}
			if section.Get("toFQDNs").Truthy() {
				dns = true
			}
			if !dns {
				text := section.Render()
				for _, token := range dnsPortTokens {
					if strings.Contains(text, token) {
						dns = true
						break
					}
				}
			}
		}

		if l7 {
			report.Stats.WithL7++
		}
		if dns {
			report.Stats.DNSOK++
		}
		report.Details = append(report.Details, models.PostureDetail{
			Path:       entry.Path,
			Kind:       kind,
			HasL7:      l7,
			DNSHandled: dns,
		})
	}

	return report
}
