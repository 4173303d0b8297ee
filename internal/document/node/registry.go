package node

import (
	"fmt"
	"sort"
	"sync"
)

// DefaultTextName is the leaf type a container fabricates when text is typed into it.
const DefaultTextName = "text"

// Constructor builds a node of a registered type. The maps passed in are
// already copies and may be retained.
type Constructor func(name string, style map[string]string, data map[string]any) *Node

// ContainerConstructor is a Constructor for container types.
func ContainerConstructor(name string, style map[string]string, data map[string]any) *Node {
	return NewContainer(name, style, data)
}

// LeafConstructor is a Constructor for leaf types.
func LeafConstructor(name string, style map[string]string, data map[string]any) *Node {
	return NewLeaf(name, style, data)
}

// Registry maps type names to constructors.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	ctors    map[string]Constructor
	textName string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ctors:    make(map[string]Constructor),
		textName: DefaultTextName,
	}
}

// DefaultRegistry returns a registry with the built-in document types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("root", ContainerConstructor)
	r.Register("paragraph", ContainerConstructor)
	r.Register("heading", ContainerConstructor)
	r.Register("quote", ContainerConstructor)
	r.Register(DefaultTextName, LeafConstructor)
	return r
}

// Register adds or replaces the constructor for name.
func (r *Registry) Register(name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.ctors[name]
	return ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds a node of the named type with copies of style and data.
func (r *Registry) Create(name string, style map[string]string, data map[string]any) (*Node, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	n := ctor(name, CopyStyle(style), CopyData(data))
	if n == nil {
		return nil, fmt.Errorf("%w: constructor for %q returned nil", ErrUnknownType, name)
	}
	return n, nil
}

// SetTextName sets the leaf type used by NewText.
func (r *Registry) SetTextName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.textName = name
}

// TextName returns the leaf type used by NewText.
func (r *Registry) TextName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.textName
}

// NewText builds a text leaf holding text.
func (r *Registry) NewText(text string) (*Node, error) {
	n, err := r.Create(r.TextName(), nil, map[string]any{TextKey: text})
	if err != nil {
		return nil, err
	}
	if n.Kind != KindLeaf {
		return nil, fmt.Errorf("%w: %q is not a leaf type", ErrKindMismatch, n.Name)
	}
	return n, nil
}
