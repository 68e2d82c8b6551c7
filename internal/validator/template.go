package validator

import (
	"fmt"
	"strings"

	"github.com/draupnir/draupnir/internal/models"
	"gopkg.in/yaml.v3"
)

// Defaults applied when the caller passes no ports or FQDNs.
var (
	defaultIngressPorts = []string{"80/TCP", "443/TCP"}
	defaultEgressFQDNs  = []string{"*.amazonaws.com"}
)

// GenerateTemplate builds a CiliumNetworkPolicy skeleton for an app: a
// same-app ingress allowance on the given ports, an FQDN egress rule, and a
// fixed kube-dns UDP/53 egress allowance. Pure function; the output is not
// validated.
func GenerateTemplate(app, namespace string, ingressPorts, egressFQDNs []string) models.PolicyTemplate {
	if len(ingressPorts) == 0 {
		ingressPorts = defaultIngressPorts
	}
	if len(egressFQDNs) == 0 {
		egressFQDNs = defaultEgressFQDNs
	}

	toPorts := make([]models.PortRule, 0, len(ingressPorts))
	for _, p := range ingressPorts {
		toPorts = append(toPorts, portRule(p))
	}

	fqdns := make([]models.FQDNSelector, 0, len(egressFQDNs))
	for _, fqdn := range egressFQDNs {
		fqdns = append(fqdns, models.FQDNSelector{MatchName: fqdn})
	}

	return models.PolicyTemplate{
		APIVersion: "cilium.io/v2",
		Kind:       models.KindCNP,
		Metadata: models.TemplateMetadata{
			Name:      fmt.Sprintf("%s-ztp", app),
			Namespace: namespace,
		},
		Spec: models.TemplateSpec{
			EndpointSelector: models.Selector{MatchLabels: map[string]string{
				"k8s:io.kubernetes.pod.namespace": namespace,
				"app":                             app,
			}},
			Ingress: []models.TemplateRule{
				{
					FromEndpoints: []models.Selector{{MatchLabels: map[string]string{"app": app}}},
					ToPorts:       toPorts,
				},
			},
			Egress: []models.TemplateRule{
				{ToFQDNs: fqdns},
				{
					ToEndpoints: []models.Selector{{MatchLabels: map[string]string{
						"k8s:io.kubernetes.pod.namespace": "kube-system",
						"k8s-app":                         "kube-dns",
					}}},
					ToPorts: []models.PortRule{{Ports: []models.PortProtocol{{Port: "53", Protocol: "UDP"}}}},
				},
			},
		},
	}
}

// portRule parses "port/protocol", defaulting the protocol to TCP.
func portRule(p string) models.PortRule {
	port, proto, ok := strings.Cut(p, "/")
	if !ok {
		proto = "TCP"
	}
	return models.PortRule{Ports: []models.PortProtocol{{Port: port, Protocol: proto}}}
}

// RenderTemplate marshals a template to YAML.
func RenderTemplate(t models.PolicyTemplate) (string, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return string(data), nil
}
