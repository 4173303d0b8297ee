// Package schema holds the nesting rule: for each container type, the child
// types it accepts when nodes are inserted one at a time.
//
// The rule is consulted by paste insertion only. Documents loaded from
// records are trusted as-is; Check can report violations after the fact.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/aditor/internal/document/node"
)

// ErrRejected indicates no candidate parent accepts a node.
var ErrRejected = errors.New("schema: insertion rejected")

// Schema maps parent type names to the child type names they accept.
// It is safe for concurrent use.
type Schema struct {
	mu    sync.RWMutex
	rules map[string]map[string]struct{}
}

// New creates a schema from parent -> children rules.
func New(rules map[string][]string) *Schema {
	s := &Schema{rules: make(map[string]map[string]struct{})}
	for parent, children := range rules {
		s.Allow(parent, children...)
	}
	return s
}

// Default returns the rules for the built-in document types.
func Default() *Schema {
	return New(DefaultRules())
}

// DefaultRules returns a fresh copy of the built-in rules.
func DefaultRules() map[string][]string {
	return map[string][]string{
		"root":      {"paragraph", "heading", "quote"},
		"quote":     {"paragraph"},
		"paragraph": {"text"},
		"heading":   {"text"},
	}
}

// Allow adds children to the accepted set of parent.
func (s *Schema) Allow(parent string, children ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.rules[parent]
	if !ok {
		set = make(map[string]struct{})
		s.rules[parent] = set
	}
	for _, c := range children {
		set[c] = struct{}{}
	}
}

// Accepts reports whether parent may directly hold child.
func (s *Schema) Accepts(parent, child string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rules[parent][child]
	return ok
}

// Rules returns the rules as sorted lists.
func (s *Schema) Rules() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.rules))
	for parent, set := range s.rules {
		list := make([]string, 0, len(set))
		for c := range set {
			list = append(list, c)
		}
		sort.Strings(list)
		out[parent] = list
	}
	return out
}

// Violation is a parent/child pair the rules do not allow.
type Violation struct {
	Parent *node.Node
	Child  *node.Node
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s may not contain %s at %d", v.Parent.Name, v.Child.Name, v.Child.Start)
}

// Check walks root and reports every parent/child pair the rules reject.
func (s *Schema) Check(root *node.Node) []Violation {
	var out []Violation
	var visit func(n *node.Node)
	visit = func(n *node.Node) {
		for _, c := range n.Children {
			if !s.Accepts(n.Name, c.Name) {
				out = append(out, Violation{Parent: n, Child: c})
			}
			visit(c)
		}
	}
	if root != nil {
		visit(root)
	}
	return out
}
