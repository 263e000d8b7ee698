package manifest

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is a parsed deployment configuration. It wraps the yaml
// document node rather than a decoded map so that edits preserve key
// order, comments, and scalar styles when the document is serialized
// again.
type Document struct {
	root *yaml.Node
}

// Parse parses configuration text into a Document. The only error it
// returns is a YAML syntax error; structural problems (non-mapping
// top level, missing workloads section) are left for the checkers to
// classify.
func Parse(text string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		// Empty input parses to a zero node.
		return &Document{}, nil
	}
	return &Document{root: &root}, nil
}

// top returns the document's top-level node, or nil for empty input.
func (d *Document) top() *yaml.Node {
	if d.root == nil || len(d.root.Content) == 0 {
		return nil
	}
	return d.root.Content[0]
}

// IsMapping reports whether the top level of the document is a
// mapping. Empty documents and scalar or sequence documents are not.
func (d *Document) IsMapping() bool {
	t := d.top()
	return t != nil && t.Kind == yaml.MappingNode
}

// IsSequence reports whether the top level is a sequence.
func (d *Document) IsSequence() bool {
	t := d.top()
	return t != nil && t.Kind == yaml.SequenceNode
}

// IsEmpty reports whether the document held no content at all, or
// only a null scalar.
func (d *Document) IsEmpty() bool {
	t := d.top()
	return t == nil || IsNullNode(t)
}

// HasWorkloads reports whether a workloads key exists at the top
// level, regardless of its value's shape.
func (d *Document) HasWorkloads() bool {
	_, ok := mappingValue(d.top(), "workloads")
	return ok
}

// WorkloadsNode returns the raw value node of the workloads section.
func (d *Document) WorkloadsNode() (*yaml.Node, bool) {
	return mappingValue(d.top(), "workloads")
}

// WorkloadsIsMapping reports whether the workloads section exists and
// its value is a mapping. A null value reports false; callers treat
// null as an empty-but-wellformed section via IsNullNode.
func (d *Document) WorkloadsIsMapping() bool {
	node, ok := d.WorkloadsNode()
	return ok && node.Kind == yaml.MappingNode
}

// Workloads returns the declared workloads in source order. A missing
// workloads section, a null one, or one that is not a mapping all
// yield an empty slice; callers that care about the difference check
// HasWorkloads and WorkloadsNode first.
func (d *Document) Workloads() []*Workload {
	node, ok := d.WorkloadsNode()
	if !ok || node.Kind != yaml.MappingNode {
		return nil
	}
	var out []*Workload
	for i := 0; i+1 < len(node.Content); i += 2 {
		out = append(out, &Workload{
			name: node.Content[i].Value,
			key:  node.Content[i],
			spec: node.Content[i+1],
		})
	}
	return out
}

// Workload returns the named workload, if declared.
func (d *Document) Workload(name string) (*Workload, bool) {
	for _, w := range d.Workloads() {
		if w.Name() == name {
			return w, true
		}
	}
	return nil, false
}

// WorkloadNames returns workload names in source order.
func (d *Document) WorkloadNames() []string {
	workloads := d.Workloads()
	names := make([]string, 0, len(workloads))
	for _, w := range workloads {
		names = append(names, w.Name())
	}
	return names
}

// Serialize encodes the document back to YAML text. Unmodified nodes
// keep their comments, ordering, and style; the output is stable
// across repeated parse/serialize round trips.
func (d *Document) Serialize() (string, error) {
	if d.root == nil {
		return "", nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.root); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

// IsNullNode reports whether n is an explicit or implicit YAML null.
func IsNullNode(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func mappingValue(node *yaml.Node, key string) (*yaml.Node, bool) {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1], true
		}
	}
	return nil, false
}

func removeMappingKey(node *yaml.Node, key string) bool {
	if node == nil || node.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			node.Content = append(node.Content[:i], node.Content[i+2:]...)
			return true
		}
	}
	return false
}

func encodeNode(n *yaml.Node) (string, error) {
	data, err := yaml.Marshal(n)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
