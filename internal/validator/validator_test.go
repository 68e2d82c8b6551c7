package validator

import (
	"reflect"
	"testing"

	"github.com/draupnir/draupnir/internal/models"
)

func parse(t *testing.T, text string) *models.Node {
	t.Helper()
	n, err := models.ParseDocument(text)
	if err != nil {
		t.Fatal(err)
	}
	return n
}

const goodPolicy = `
apiVersion: cilium.io/v2
kind: CiliumNetworkPolicy
metadata:
  name: web-ztp
  namespace: default
spec:
  endpointSelector:
    matchLabels:
      app: web
  ingress:
  - fromEndpoints:
    - matchLabels:
        app: web
    toPorts:
    - ports:
      - port: "443"
        protocol: TCP
  egress:
  - toFQDNs:
    - matchPattern: "*.amazonaws.com"
    toPorts:
    - ports:
      - port: "443"
        protocol: TCP
  - toEndpoints:
    - matchLabels:
        k8s:io.kubernetes.pod.namespace: kube-system
        k8s-app: kube-dns
    toPorts:
    - ports:
      - port: "53"
        protocol: UDP
`

func TestValidate_CleanPolicy(t *testing.T) {
	r := Validate("web.yaml", parse(t, goodPolicy))

	if len(r.Errors) != 0 {
		t.Errorf("Errors = %v, want none", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", r.Warnings)
	}
	if r.Kind != models.KindCNP {
		t.Errorf("Kind = %q", r.Kind)
	}
	if r.Metadata.Name != "web-ztp" || r.Metadata.Namespace != "default" {
		t.Errorf("Metadata = %+v", r.Metadata)
	}
	if !r.Summary.HasIngress || !r.Summary.HasEgress {
		t.Errorf("Summary = %+v", r.Summary)
	}
}

func TestValidate_StructuralErrors(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantErrors []string
	}{
		{
			name:       "sequence root",
			text:       "- a\n- b\n",
			wantErrors: []string{"YAML root must be a mapping"},
		},
		{
			name:       "scalar root",
			text:       "oops",
			wantErrors: []string{"YAML root must be a mapping"},
		},
		{
			name:       "wrong kind",
			text:       "kind: NetworkPolicy\nmetadata:\n  name: x\n",
			wantErrors: []string{"Not a Cilium {CNP|CCNP} kind"},
		},
		{
			name:       "missing kind",
			text:       "metadata:\n  name: x\n",
			wantErrors: []string{"Not a Cilium {CNP|CCNP} kind"},
		},
		{
			name:       "missing name and spec together",
			text:       "kind: CiliumNetworkPolicy\nmetadata: {}\n",
			wantErrors: []string{"metadata.name is required", "spec is required"},
		},
		{
			name:       "empty spec",
			text:       "kind: CiliumClusterwideNetworkPolicy\nmetadata:\n  name: x\nspec: {}\n",
			wantErrors: []string{"spec is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate("p.yaml", parse(t, tt.text))
			if !reflect.DeepEqual(r.Errors, tt.wantErrors) {
				t.Errorf("Errors = %v, want %v", r.Errors, tt.wantErrors)
			}
		})
	}
}

func TestValidate_KindCarriesRawValue(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantKind any
	}{
		{"numeric kind", "kind: 123\nmetadata:\n  name: x\n", 123},
		{"null kind", "kind:\nmetadata:\n  name: x\n", nil},
		{"missing kind", "metadata:\n  name: x\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate("p.yaml", parse(t, tt.text))
			if len(r.Errors) == 0 || r.Errors[0] != "Not a Cilium {CNP|CCNP} kind" {
				t.Errorf("Errors = %v", r.Errors)
			}
			if r.Kind != tt.wantKind {
				t.Errorf("Kind = %v (%T), want %v", r.Kind, r.Kind, tt.wantKind)
			}
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantWarnings []string
	}{
		{
			name: "no directions at all",
			text: "kind: CiliumNetworkPolicy\nmetadata:\n  name: x\nspec:\n  endpointSelector: {matchLabels: {app: x}}\n",
			wantWarnings: []string{
				"No ingress/egress rules present (might not enforce anything)",
			},
		},
		{
			name: "coarse ingress allow",
			text: "kind: CiliumNetworkPolicy\nmetadata:\n  name: x\nspec:\n  ingress:\n  - fromEndpoints:\n    - matchLabels: {app: x}\n",
			wantWarnings: []string{
				"Ingress has no L4/L7 ports (coarse allow?)",
			},
		},
		{
			name: "egress without ports or dns",
			text: "kind: CiliumNetworkPolicy\nmetadata:\n  name: x\nspec:\n  egress:\n  - toEndpoints:\n    - matchLabels: {app: db}\n",
			wantWarnings: []string{
				"Egress has no L4/L7 ports (coarse allow?)",
				"No explicit DNS egress (add kube-dns:53 or toFQDNs)",
			},
		},
		{
			name: "toFQDNs satisfies the dns check",
			text: "kind: CiliumNetworkPolicy\nmetadata:\n  name: x\nspec:\n  egress:\n  - toFQDNs:\n    - matchName: api.example.com\n",
			wantWarnings: []string{
				"Egress has no L4/L7 ports (coarse allow?)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Validate("p.yaml", parse(t, tt.text))
			if len(r.Errors) != 0 {
				t.Fatalf("unexpected errors: %v", r.Errors)
			}
			if !reflect.DeepEqual(r.Warnings, tt.wantWarnings) {
				t.Errorf("Warnings = %v, want %v", r.Warnings, tt.wantWarnings)
			}
		})
	}
}

func TestValidate_DNSHeuristicMatchesBarePortNumber(t *testing.T) {
	// The dns check is a substring scan over rendered egress text, so any
	// "53" satisfies it even without a kube-dns rule.
	text := "kind: CiliumNetworkPolicy\nmetadata:\n  name: x\nspec:\n  egress:\n  - toPorts:\n    - ports:\n      - port: \"5353\"\n        protocol: UDP\n"
	r := Validate("p.yaml", parse(t, text))
	for _, w := range r.Warnings {
		if w == "No explicit DNS egress (add kube-dns:53 or toFQDNs)" {
			t.Errorf("substring heuristic should accept %q, got warning anyway", "5353")
		}
	}
}

func TestHasL7Ports(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "ports present",
			text: "- toPorts:\n  - ports:\n    - port: \"80\"\n",
			want: true,
		},
		{
			name: "l7 rules present without ports",
			text: "- toPorts:\n  - rules:\n      http:\n      - method: GET\n",
			want: true,
		},
		{
			name: "toPorts with empty entries",
			text: "- toPorts:\n  - {}\n",
			want: false,
		},
		{
			name: "no toPorts",
			text: "- fromEndpoints:\n  - matchLabels: {app: x}\n",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasL7Ports(parse(t, tt.text)); got != tt.want {
				t.Errorf("hasL7Ports = %v, want %v", got, tt.want)
			}
		})
	}
}
