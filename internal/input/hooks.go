package input

import (
	"sort"
	"sync"

	"github.com/dshills/aditor/internal/dispatcher"
)

// HookPriority defines the execution order for hooks.
// Lower values execute first.
type HookPriority int

const (
	// HookPriorityHigh runs early in the hook chain.
	HookPriorityHigh HookPriority = -100
	// HookPriorityNormal is the default priority.
	HookPriorityNormal HookPriority = 0
	// HookPriorityLow runs late in the hook chain.
	HookPriorityLow HookPriority = 100
)

// Hook intercepts events around the edit they map to.
type Hook interface {
	// PreEvent runs before an event is mapped. Return true to consume it.
	PreEvent(ev *Event) bool

	// PostEvent runs after the edit, including deferred composition inserts.
	PostEvent(ev Event, intent Intent, res dispatcher.Result, err error)
}

// HookID uniquely identifies a registered hook.
type HookID uint64

type hookRegistration struct {
	id       HookID
	name     string
	priority HookPriority
	hook     Hook
}

// HookManager runs hooks in priority order.
type HookManager struct {
	mu      sync.RWMutex
	hooks   []hookRegistration
	nextID  HookID
	sorted  bool
	enabled bool
}

// NewHookManager creates a new hook manager.
func NewHookManager() *HookManager {
	return &HookManager{enabled: true, sorted: true}
}

// Register adds a hook with normal priority.
func (m *HookManager) Register(hook Hook) HookID {
	return m.RegisterWithOptions(hook, "", HookPriorityNormal)
}

// RegisterWithOptions adds a hook with a name and priority.
func (m *HookManager) RegisterWithOptions(hook Hook, name string, priority HookPriority) HookID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.hooks = append(m.hooks, hookRegistration{id: m.nextID, name: name, priority: priority, hook: hook})
	m.sorted = false
	return m.nextID
}

// Unregister removes a hook by ID.
func (m *HookManager) Unregister(id HookID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.hooks {
		if m.hooks[i].id == id {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// UnregisterByName removes every hook registered under name.
func (m *HookManager) UnregisterByName(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.hooks[:0]
	for _, reg := range m.hooks {
		if reg.name != name || name == "" {
			kept = append(kept, reg)
		}
	}
	removed := len(kept) != len(m.hooks)
	m.hooks = kept
	return removed
}

// SetEnabled enables or disables all hooks.
func (m *HookManager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Count returns the number of registered hooks.
func (m *HookManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// snapshot returns the hooks in priority order, or nil when disabled.
func (m *HookManager) snapshot() []Hook {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled || len(m.hooks) == 0 {
		return nil
	}
	if !m.sorted {
		sort.SliceStable(m.hooks, func(i, j int) bool {
			return m.hooks[i].priority < m.hooks[j].priority
		})
		m.sorted = true
	}
	hooks := make([]Hook, len(m.hooks))
	for i := range m.hooks {
		hooks[i] = m.hooks[i].hook
	}
	return hooks
}

// RunPreEvent runs PreEvent hooks. Returns true if any hook consumed ev.
func (m *HookManager) RunPreEvent(ev *Event) bool {
	for _, hook := range m.snapshot() {
		if hook.PreEvent(ev) {
			return true
		}
	}
	return false
}

// RunPostEvent runs PostEvent hooks.
func (m *HookManager) RunPostEvent(ev Event, intent Intent, res dispatcher.Result, err error) {
	for _, hook := range m.snapshot() {
		hook.PostEvent(ev, intent, res, err)
	}
}

// BaseHook provides a default implementation of the Hook interface.
// Embed this in custom hooks to only implement the methods you need.
type BaseHook struct{}

// PreEvent is a no-op that does not consume events.
func (BaseHook) PreEvent(*Event) bool { return false }

// PostEvent is a no-op.
func (BaseHook) PostEvent(Event, Intent, dispatcher.Result, error) {}

// FuncHook wraps functions into a Hook.
type FuncHook struct {
	PreEventFunc  func(*Event) bool
	PostEventFunc func(Event, Intent, dispatcher.Result, error)
}

// PreEvent calls PreEventFunc if set.
func (h FuncHook) PreEvent(ev *Event) bool {
	if h.PreEventFunc != nil {
		return h.PreEventFunc(ev)
	}
	return false
}

// PostEvent calls PostEventFunc if set.
func (h FuncHook) PostEvent(ev Event, intent Intent, res dispatcher.Result, err error) {
	if h.PostEventFunc != nil {
		h.PostEventFunc(ev, intent, res, err)
	}
}
