package manifest

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Workload is one entry of the workloads mapping. It holds pointers
// into the parent Document's node tree, so mutations show up in the
// Document's next Serialize call.
type Workload struct {
	name string
	key  *yaml.Node
	spec *yaml.Node
}

// Name returns the workload's name as written in the document.
func (w *Workload) Name() string {
	return w.name
}

// SpecIsMapping reports whether the workload's value is a mapping.
// Null and scalar specs are legal YAML but carry no fields.
func (w *Workload) SpecIsMapping() bool {
	return w.spec != nil && w.spec.Kind == yaml.MappingNode
}

// Has reports whether the named field exists in the workload spec.
func (w *Workload) Has(name string) bool {
	_, ok := mappingValue(w.spec, name)
	return ok
}

// Field returns the raw value node of the named field.
func (w *Workload) Field(name string) (*yaml.Node, bool) {
	return mappingValue(w.spec, name)
}

// StringField returns the named field as a scalar string. Non-scalar
// values report ok=false; null values report ok=true with an empty
// string, matching how they read in the document.
func (w *Workload) StringField(name string) (string, bool) {
	n, ok := mappingValue(w.spec, name)
	if !ok || n.Kind != yaml.ScalarNode {
		return "", false
	}
	if IsNullNode(n) {
		return "", true
	}
	return n.Value, true
}

// RuntimeConfigText returns the runtimeConfig field as text. Scalar
// values (the usual embedded-YAML block string) are returned as
// written; mapping or sequence values are re-encoded to YAML so
// substring checks still apply. ok reports field presence, so an
// empty string with ok=true means "present but empty".
func (w *Workload) RuntimeConfigText() (string, bool) {
	n, ok := mappingValue(w.spec, "runtimeConfig")
	if !ok {
		return "", false
	}
	if n.Kind == yaml.ScalarNode {
		if IsNullNode(n) {
			return "", true
		}
		return n.Value, true
	}
	text, err := encodeNode(n)
	if err != nil {
		return "", true
	}
	return text, true
}

// DependencyNames returns the names this workload depends on, in
// source order. A dependencies mapping wins; a depends_on list is
// read when no mapping is present. Malformed shapes yield nil.
func (w *Workload) DependencyNames() []string {
	if n, ok := mappingValue(w.spec, "dependencies"); ok {
		if n.Kind != yaml.MappingNode {
			return nil
		}
		var names []string
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Kind == yaml.ScalarNode {
				names = append(names, n.Content[i].Value)
			}
		}
		return names
	}
	if n, ok := mappingValue(w.spec, "depends_on"); ok && n.Kind == yaml.SequenceNode {
		var names []string
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode {
				names = append(names, item.Value)
			}
		}
		return names
	}
	return nil
}

// OrderingDependencies returns the edges used for startup ordering.
// Unlike DependencyNames, a non-empty depends_on list takes precedence
// here and the dependencies mapping is the fallback, mirroring how
// deployment plans are declared.
func (w *Workload) OrderingDependencies() []string {
	if n, ok := mappingValue(w.spec, "depends_on"); ok && n.Kind == yaml.SequenceNode {
		var names []string
		for _, item := range n.Content {
			if item.Kind == yaml.ScalarNode {
				names = append(names, item.Value)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	if n, ok := mappingValue(w.spec, "dependencies"); ok && n.Kind == yaml.MappingNode {
		var names []string
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Kind == yaml.ScalarNode {
				names = append(names, n.Content[i].Value)
			}
		}
		return names
	}
	return nil
}

// Resources returns the declared cpu and memory requests. Missing,
// malformed, or unparseable values count as zero.
func (w *Workload) Resources() (cpu, memory float64) {
	n, ok := mappingValue(w.spec, "resources")
	if !ok || n.Kind != yaml.MappingNode {
		return 0, 0
	}
	return floatValue(n, "cpu"), floatValue(n, "memory")
}

// Rename changes the workload's name in place. The entry keeps its
// position and comments in the workloads mapping.
func (w *Workload) Rename(newName string) {
	if w.key == nil {
		return
	}
	w.key.Value = newName
	w.key.Style = 0
	w.name = newName
}

// SetField sets the named field to a plain string scalar, appending
// the field if absent. Comments attached to an existing field node
// survive the rewrite. A null or scalar spec is promoted to a
// mapping first.
func (w *Workload) SetField(name, value string) {
	w.setScalar(name, value, 0)
}

// SetRuntimeConfig sets the runtimeConfig field, using a literal
// block scalar when the text spans multiple lines.
func (w *Workload) SetRuntimeConfig(text string) {
	var style yaml.Style
	if strings.Contains(text, "\n") {
		style = yaml.LiteralStyle
	}
	w.setScalar("runtimeConfig", text, style)
}

func (w *Workload) setScalar(name, value string, style yaml.Style) {
	spec := w.ensureSpecMapping()
	if spec == nil {
		return
	}
	if n, ok := mappingValue(spec, name); ok {
		n.Kind = yaml.ScalarNode
		n.Tag = "!!str"
		n.Value = value
		n.Style = style
		n.Content = nil
		n.Anchor = ""
		return
	}
	spec.Content = append(spec.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: style},
	)
}

// RemoveField deletes the named field from the workload spec.
func (w *Workload) RemoveField(name string) bool {
	if w.spec == nil || w.spec.Kind != yaml.MappingNode {
		return false
	}
	return removeMappingKey(w.spec, name)
}

// RemoveDependency deletes dep from the dependencies mapping or the
// depends_on list, whichever the workload uses. nowEmpty reports
// whether the container ended up with no entries.
func (w *Workload) RemoveDependency(dep string) (removed, nowEmpty bool) {
	if n, ok := mappingValue(w.spec, "dependencies"); ok && n.Kind == yaml.MappingNode {
		removed = removeMappingKey(n, dep)
		return removed, len(n.Content) == 0
	}
	if n, ok := mappingValue(w.spec, "depends_on"); ok && n.Kind == yaml.SequenceNode {
		for i, item := range n.Content {
			if item.Kind == yaml.ScalarNode && item.Value == dep {
				n.Content = append(n.Content[:i], n.Content[i+1:]...)
				return true, len(n.Content) == 0
			}
		}
		return false, len(n.Content) == 0
	}
	return false, false
}

// SanitizeDependencies enforces the mapping shape of the dependencies
// field. A non-mapping field is removed outright. Inside a mapping,
// pairs with non-string keys are dropped and non-mapping values are
// coerced to empty mappings; a mapping left with no entries is removed
// as well. The two removal flavors are reported separately so callers
// can log them; changed also covers the silent in-place coercions.
func (w *Workload) SanitizeDependencies() (removedInvalid, removedEmpty, changed bool) {
	n, ok := mappingValue(w.spec, "dependencies")
	if !ok {
		return false, false, false
	}
	if n.Kind != yaml.MappingNode {
		removeMappingKey(w.spec, "dependencies")
		return true, false, true
	}

	kept := make([]*yaml.Node, 0, len(n.Content))
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Tag != "!!str" {
			changed = true
			continue
		}
		if value.Kind != yaml.MappingNode {
			*value = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			changed = true
		}
		kept = append(kept, key, value)
	}
	if len(kept) == 0 {
		removeMappingKey(w.spec, "dependencies")
		return false, true, true
	}
	if changed {
		n.Content = kept
	}
	return false, false, changed
}

// DependenciesEmpty reports whether a dependencies or depends_on
// field exists but holds no entries.
func (w *Workload) DependenciesEmpty() bool {
	if n, ok := mappingValue(w.spec, "dependencies"); ok {
		return n.Kind == yaml.MappingNode && len(n.Content) == 0
	}
	if n, ok := mappingValue(w.spec, "depends_on"); ok {
		return n.Kind == yaml.SequenceNode && len(n.Content) == 0
	}
	return false
}

// ensureSpecMapping promotes a null or scalar spec node to an empty
// mapping so fields can be added. Returns nil only for detached
// workloads that have no value node at all.
func (w *Workload) ensureSpecMapping() *yaml.Node {
	if w.spec == nil {
		return nil
	}
	if w.spec.Kind != yaml.MappingNode {
		*w.spec = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	return w.spec
}

func floatValue(node *yaml.Node, key string) float64 {
	n, ok := mappingValue(node, key)
	if !ok || n.Kind != yaml.ScalarNode {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64)
	if err != nil {
		return 0
	}
	return f
}
