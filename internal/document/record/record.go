// Package record converts between document trees and their serializable
// description, and encodes that description as JSON, YAML or TOML.
//
// A Record mirrors a node without positions or identities:
//
//	{"name": "paragraph", "type": "child", "style": {}, "data": {},
//	 "children": [{"name": "text", "type": "leaf", "data": {"text": "Hi"}}]}
//
// Loading builds every node through a node.Registry bottom-up and then runs
// one position pass from the root. Structure is trusted: nesting rules are
// not enforced on load.
package record

import (
	"fmt"

	"github.com/dshills/aditor/internal/document/node"
)

// Record is the serializable description of a node and its subtree.
type Record struct {
	Name     string            `json:"name" yaml:"name" toml:"name" mapstructure:"name"`
	Type     string            `json:"type" yaml:"type" toml:"type" mapstructure:"type"`
	Style    map[string]string `json:"style" yaml:"style" toml:"style" mapstructure:"style"`
	Data     map[string]any    `json:"data" yaml:"data" toml:"data" mapstructure:"data"`
	Children []Record          `json:"children,omitempty" yaml:"children,omitempty" toml:"children,omitempty" mapstructure:"children"`
}

// Load builds a tree from rec and computes positions with the root seed.
func Load(rec Record, reg *node.Registry) (*node.Node, error) {
	root, err := Build(rec, reg)
	if err != nil {
		return nil, err
	}
	root.CalPosition(-1)
	return root, nil
}

// Build constructs the subtree described by rec without computing positions.
func Build(rec Record, reg *node.Registry) (*node.Node, error) {
	return build(rec, reg, rec.Name)
}

func build(rec Record, reg *node.Registry, path string) (*node.Node, error) {
	kind, err := node.ParseKind(rec.Type)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", path, err)
	}
	if kind == node.KindLeaf && len(rec.Children) > 0 {
		return nil, fmt.Errorf("record %s: leaf %q has children", path, rec.Name)
	}

	children := make([]*node.Node, 0, len(rec.Children))
	for i, c := range rec.Children {
		child, err := build(c, reg, fmt.Sprintf("%s/%d:%s", path, i, c.Name))
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	data := rec.Data
	if kind == node.KindLeaf {
		data = node.CopyData(rec.Data)
		if _, ok := data[node.TextKey].(string); !ok {
			if v, present := data[node.TextKey]; present {
				return nil, fmt.Errorf("record %s: leaf text is %T, want string", path, v)
			}
			data[node.TextKey] = ""
		}
	}

	n, err := reg.Create(rec.Name, rec.Style, data)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", path, err)
	}
	if n.Kind != kind {
		return nil, fmt.Errorf("record %s: %w: registered as %s, described as %s",
			path, node.ErrKindMismatch, n.Kind, kind)
	}
	if kind == node.KindContainer {
		n.Children = children
	}
	return n, nil
}

// FromNode describes n and its subtree.
func FromNode(n *node.Node) Record {
	rec := Record{
		Name:  n.Name,
		Type:  n.Kind.String(),
		Style: node.CopyStyle(n.Style),
		Data:  node.CopyData(n.Data),
	}
	if len(n.Children) > 0 {
		rec.Children = make([]Record, len(n.Children))
		for i, c := range n.Children {
			rec.Children[i] = FromNode(c)
		}
	}
	return rec
}

// Nodes builds each record through reg, as paste does with external content.
// Positions are not computed.
func Nodes(recs []Record, reg *node.Registry) ([]*node.Node, error) {
	out := make([]*node.Node, 0, len(recs))
	for _, r := range recs {
		n, err := Build(r, reg)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
