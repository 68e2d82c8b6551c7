package models

// PolicyKind values recognized by the validator.
const (
	KindCNP  = "CiliumNetworkPolicy"
	KindCCNP = "CiliumClusterwideNetworkPolicy"
)

// RecognizedKind reports whether kind is a policy kind the validator
// understands. Anything else short-circuits validation.
func RecognizedKind(kind string) bool {
	return kind == KindCNP || kind == KindCCNP
}

// ReportMetadata carries the identity fields copied out of metadata.
type ReportMetadata struct {
	Name      string `json:"name,omitempty"`
	Namespace string `json:"namespace,omitempty"`
	Labels    any    `json:"labels,omitempty"`
}

// ReportSummary records which rule directions the document declares.
type ReportSummary struct {
	HasIngress bool `json:"has_ingress"`
	HasEgress  bool `json:"has_egress"`
}

// ValidationReport is the outcome of validating one policy document.
// Errors and warnings preserve check order. Findings are data, never
// thrown: a caller receives either a complete report or a categorized
// access/read/parse error, not both.
type ValidationReport struct {
	Path     string         `json:"path"`
	Kind     any            `json:"kind"`
	Errors   []string       `json:"errors"`
	Warnings []string       `json:"warnings"`
	Metadata ReportMetadata `json:"metadata"`
	Summary  ReportSummary  `json:"summary"`
}

// PostureStats are corpus-level counters accumulated during a posture scan.
// Monotonic within one scan, allocated fresh per call.
type PostureStats struct {
	Total     int `json:"total"`
	CNPCount  int `json:"cnp"`
	CCNPCount int `json:"ccnp"`
	WithL7    int `json:"with_l7"`
	DNSOK     int `json:"dns_ok"`
}

// PostureDetail is one row per scanned document, in corpus iteration order.
type PostureDetail struct {
	Path       string `json:"path"`
	Kind       string `json:"kind"`
	HasL7      bool   `json:"has_l7"`
	DNSHandled bool   `json:"dns_handled"`
}

// PostureReport pairs the aggregate counters with per-document rows.
type PostureReport struct {
	Stats   PostureStats    `json:"stats"`
	Details []PostureDetail `json:"details"`
}

// HubbleFilters holds a ready-to-run hubble observe invocation plus the
// equivalent structured filters.
type HubbleFilters struct {
	CLI     string         `json:"cli"`
	Filters map[string]any `json:"filters"`
}
