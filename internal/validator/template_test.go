package validator

import (
	"strings"
	"testing"

	"github.com/draupnir/draupnir/internal/models"
)

func TestGenerateTemplate_Defaults(t *testing.T) {
	tpl := GenerateTemplate("web", "default", nil, nil)

	if tpl.Kind != models.KindCNP || tpl.APIVersion != "cilium.io/v2" {
		t.Errorf("header = %s/%s", tpl.APIVersion, tpl.Kind)
	}
	if tpl.Metadata.Name != "web-ztp" {
		t.Errorf("name = %q, want web-ztp", tpl.Metadata.Name)
	}
	if tpl.Metadata.Namespace != "default" {
		t.Errorf("namespace = %q", tpl.Metadata.Namespace)
	}

	sel := tpl.Spec.EndpointSelector.MatchLabels
	if sel["app"] != "web" || sel["k8s:io.kubernetes.pod.namespace"] != "default" {
		t.Errorf("endpointSelector = %v", sel)
	}

	if len(tpl.Spec.Ingress) != 1 {
		t.Fatalf("ingress rules = %d, want 1", len(tpl.Spec.Ingress))
	}
	ports := tpl.Spec.Ingress[0].ToPorts
	if len(ports) != 2 || ports[0].Ports[0].Port != "80" || ports[1].Ports[0].Port != "443" {
		t.Errorf("default ingress ports = %+v", ports)
	}
	if ports[0].Ports[0].Protocol != "TCP" {
		t.Errorf("default protocol = %q", ports[0].Ports[0].Protocol)
	}

	if len(tpl.Spec.Egress) != 2 {
		t.Fatalf("egress rules = %d, want 2", len(tpl.Spec.Egress))
	}
	if got := tpl.Spec.Egress[0].ToFQDNs[0].MatchName; got != "*.amazonaws.com" {
		t.Errorf("default fqdn = %q", got)
	}
	dns := tpl.Spec.Egress[1]
	if dns.ToEndpoints[0].MatchLabels["k8s-app"] != "kube-dns" {
		t.Errorf("dns rule selector = %v", dns.ToEndpoints[0].MatchLabels)
	}
	if pp := dns.ToPorts[0].Ports[0]; pp.Port != "53" || pp.Protocol != "UDP" {
		t.Errorf("dns port = %+v", pp)
	}
}

func TestGenerateTemplate_ExplicitPortsAndFQDNs(t *testing.T) {
	tpl := GenerateTemplate("api", "prod",
		[]string{"8080", "9090/UDP"},
		[]string{"api.stripe.com"})

	ports := tpl.Spec.Ingress[0].ToPorts
	if len(ports) != 2 {
		t.Fatalf("ports = %d, want 2", len(ports))
	}
	if pp := ports[0].Ports[0]; pp.Port != "8080" || pp.Protocol != "TCP" {
		t.Errorf("bare port should default to TCP, got %+v", pp)
	}
	if pp := ports[1].Ports[0]; pp.Port != "9090" || pp.Protocol != "UDP" {
		t.Errorf("explicit protocol lost: %+v", pp)
	}
	if got := tpl.Spec.Egress[0].ToFQDNs[0].MatchName; got != "api.stripe.com" {
		t.Errorf("fqdn = %q", got)
	}
}

func TestGeneratedTemplateValidatesClean(t *testing.T) {
	tpl := GenerateTemplate("web", "default", nil, nil)
	text, err := RenderTemplate(tpl)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := models.ParseDocument(text)
	if err != nil {
		t.Fatalf("generated template does not parse: %v", err)
	}
	r := Validate("generated.yaml", doc)
	if len(r.Errors) != 0 {
		t.Errorf("generated template has errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("generated template has warnings: %v", r.Warnings)
	}
}

func TestRenderTemplate_FieldOrder(t *testing.T) {
	text, err := RenderTemplate(GenerateTemplate("web", "default", nil, nil))
	if err != nil {
		t.Fatal(err)
	}
	iAPI := strings.Index(text, "apiVersion:")
	iKind := strings.Index(text, "kind:")
	iMeta := strings.Index(text, "metadata:")
	iSpec := strings.Index(text, "spec:")
	if !(iAPI < iKind && iKind < iMeta && iMeta < iSpec) {
		t.Errorf("unexpected top-level field order:\n%s", text)
	}
}
