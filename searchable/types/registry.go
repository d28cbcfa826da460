package types

import "sync"

// Registry maps declared type names to handlers. Unregistered names
// resolve to the default handler.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	fallback Handler
}

// NewRegistry returns a registry with string and text bound to String and
// Generic as the default.
func NewRegistry() *Registry {
	return &Registry{
		handlers: map[string]Handler{
			"string": String{},
			"text":   String{},
		},
		fallback: Generic{},
	}
}

func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

func (r *Registry) Resolve(name string) Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[name]; ok {
		return h
	}
	return r.fallback
}

// SetDefault replaces the fallback handler.
func (r *Registry) SetDefault(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = h
}

// Names lists registered type names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		out = append(out, name)
	}
	return out
}
