package models

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// NodeKind tags the variant of a document node.
type NodeKind int

const (
	NullNode NodeKind = iota
	ScalarNode
	SequenceNode
	MappingNode
)

// Node is one node of a parsed YAML/JSON document. Accessors are checked
// and nil-safe: any lookup on a missing or mismatched node yields a node of
// kind NullNode, so callers stay lenient about absent or extra fields
// without ever panicking.
type Node struct {
	value any
}

// ParseDocument decodes text as YAML (JSON is a YAML subset).
func ParseDocument(text string) (*Node, error) {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return &Node{value: v}, nil
}

// NewNode wraps an already-decoded value.
func NewNode(v any) *Node {
	return &Node{value: v}
}

func (n *Node) Kind() NodeKind {
	if n == nil || n.value == nil {
		return NullNode
	}
	switch n.value.(type) {
	case map[string]any, map[any]any:
		return MappingNode
	case []any:
		return SequenceNode
	default:
		return ScalarNode
	}
}

func (n *Node) IsMapping() bool {
	return n.Kind() == MappingNode
}

// Get returns the value under key, or a NullNode node when the key is
// absent or the receiver is not a mapping.
func (n *Node) Get(key string) *Node {
	if n == nil {
		return nil
	}
	switch m := n.value.(type) {
	case map[string]any:
		if v, ok := m[key]; ok {
			return &Node{value: v}
		}
	case map[any]any:
		if v, ok := m[key]; ok {
			return &Node{value: v}
		}
	}
	return nil
}

// Has reports whether the mapping carries key, regardless of its value.
func (n *Node) Has(key string) bool {
	if n == nil {
		return false
	}
	switch m := n.value.(type) {
	case map[string]any:
		_, ok := m[key]
		return ok
	case map[any]any:
		_, ok := m[key]
		return ok
	}
	return false
}

// Keys returns the mapping's string keys in sorted order.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	var keys []string
	switch m := n.value.(type) {
	case map[string]any:
		for k := range m {
			keys = append(keys, k)
		}
	case map[any]any:
		for k := range m {
			if s, ok := k.(string); ok {
				keys = append(keys, s)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Str returns the node as a string scalar.
func (n *Node) Str() (string, bool) {
	if n == nil {
		return "", false
	}
	s, ok := n.value.(string)
	return s, ok
}

// Seq returns the node's elements when it is a sequence, nil otherwise.
func (n *Node) Seq() []*Node {
	if n == nil {
		return nil
	}
	items, ok := n.value.([]any)
	if !ok {
		return nil
	}
	out := make([]*Node, len(items))
	for i, v := range items {
		out[i] = &Node{value: v}
	}
	return out
}

// Truthy mirrors loose truthiness: null, empty string, zero, empty sequence
// and empty mapping are all false.
func (n *Node) Truthy() bool {
	if n == nil || n.value == nil {
		return false
	}
	switch v := n.value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case map[any]any:
		return len(v) > 0
	default:
		return true
	}
}

// Interface exposes the raw decoded value.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	return n.value
}

// Render marshals the subtree back to canonical YAML text. Used by the DNS
// heuristics, which scan rendered text for literal tokens.
func (n *Node) Render() string {
	if n == nil || n.value == nil {
		return ""
	}
	data, err := yaml.Marshal(n.value)
	if err != nil {
		return ""
	}
	return string(data)
}
