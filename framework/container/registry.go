package container

import (
	"sync"

	"go.uber.org/zap"
)

// Registry maps canonical class names to class definitions. The first
// registration of a name wins; later ones are ignored.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]Class

	// consulted on a lookup miss
	loader func(name string) (Class, bool)

	logger *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		classes: make(map[string]Class),
		logger:  logger,
	}
}

// Register stores class under fqn, or under class.ClassName() when no fqn
// is given. A class without a usable name is skipped with an informational
// log entry rather than an error.
func (r *Registry) Register(class Class, fqn ...string) {
	name := ""
	if len(fqn) > 0 {
		name = fqn[0]
	}
	if name == "" && class != nil {
		name = class.ClassName()
	}
	if class == nil || name == "" {
		r.logger.Info("Unable to register class without a name", zap.Any("class", class))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[name]; exists {
		return
	}
	r.logger.Info("Registering class", zap.String("class", name))
	r.classes[name] = class
}

// GetClass returns the class registered under name. On a miss the loader
// (if any) gets a chance to supply it.
func (r *Registry) GetClass(name string) (Class, bool) {
	if c, ok := r.peek(name); ok {
		return c, true
	}

	r.mu.RLock()
	load := r.loader
	r.mu.RUnlock()
	if load == nil {
		return nil, false
	}

	c, ok := load(name)
	if !ok || c == nil {
		return nil, false
	}
	r.Register(c, name)
	return r.peek(name)
}

// HasClass reports whether a class is registered under name.
func (r *Registry) HasClass(name string) bool {
	_, ok := r.GetClass(name)
	return ok
}

// GetClasses returns a copy of the name → class table.
func (r *Registry) GetClasses() map[string]Class {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Class, len(r.classes))
	for k, v := range r.classes {
		out[k] = v
	}
	return out
}

// SetLoader installs fn as the fallback for unknown names.
func (r *Registry) SetLoader(fn func(name string) (Class, bool)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loader = fn
}

// Clear forgets every class. The loader is kept.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes = make(map[string]Class)
}

func (r *Registry) peek(name string) (Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[name]
	return c, ok
}
