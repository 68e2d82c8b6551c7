package models

// Typed shape of a generated CiliumNetworkPolicy skeleton. Kept as structs
// so the rendered YAML has a stable field order.

type PolicyTemplate struct {
	APIVersion string           `yaml:"apiVersion" json:"apiVersion"`
	Kind       string           `yaml:"kind" json:"kind"`
	Metadata   TemplateMetadata `yaml:"metadata" json:"metadata"`
	Spec       TemplateSpec     `yaml:"spec" json:"spec"`
}

type TemplateMetadata struct {
	Name      string `yaml:"name" json:"name"`
	Namespace string `yaml:"namespace" json:"namespace"`
}

type TemplateSpec struct {
	EndpointSelector Selector       `yaml:"endpointSelector" json:"endpointSelector"`
	Ingress          []TemplateRule `yaml:"ingress" json:"ingress"`
	Egress           []TemplateRule `yaml:"egress" json:"egress"`
}

type Selector struct {
	MatchLabels map[string]string `yaml:"matchLabels" json:"matchLabels"`
}

type TemplateRule struct {
	FromEndpoints []Selector     `yaml:"fromEndpoints,omitempty" json:"fromEndpoints,omitempty"`
	ToEndpoints   []Selector     `yaml:"toEndpoints,omitempty" json:"toEndpoints,omitempty"`
	ToFQDNs       []FQDNSelector `yaml:"toFQDNs,omitempty" json:"toFQDNs,omitempty"`
	ToPorts       []PortRule     `yaml:"toPorts,omitempty" json:"toPorts,omitempty"`
}

type FQDNSelector struct {
	MatchName string `yaml:"matchName" json:"matchName"`
}

type PortRule struct {
	Ports []PortProtocol `yaml:"ports" json:"ports"`
}

type PortProtocol struct {
	Port     string `yaml:"port" json:"port"`
	Protocol string `yaml:"protocol" json:"protocol"`
}
