package container

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/km-arc/go-objectfactory/framework/metadata"
)

// ── Collaborators ─────────────────────────────────────────────────────────────

// Config is the configuration collaborator. Paths are dotted or colon
// delimited; a missing path reports false.
type Config interface {
	Get(path string) (any, bool)
}

// ── Options ───────────────────────────────────────────────────────────────────

// Option configures a Container at construction.
type Option func(*Container)

// WithRegistry shares an existing class registry instead of creating one.
func WithRegistry(r *Registry) Option {
	return func(c *Container) { c.registry = r }
}

// WithMetadata reads annotations from s instead of metadata.Default.
func WithMetadata(s *metadata.Store) Option {
	return func(c *Container) { c.store = s }
}

// InstanceOptions mirrors metadata.InstanceOptions.
type InstanceOptions = metadata.InstanceOptions

// InstanceOption configures a single NewInstance call.
type InstanceOption func(*InstanceOptions)

// WithName sets the instance label (or full name).
func WithName(name string) InstanceOption {
	return func(o *InstanceOptions) { o.Name = name }
}

// WithArgs sets the positional constructor arguments.
func WithArgs(args ...any) InstanceOption {
	return func(o *InstanceOptions) { o.Args = args }
}

// WithInitialize controls whether bindings and initializers run. Default true.
func WithInitialize(init bool) InstanceOption {
	return func(o *InstanceOptions) { o.Initialize = &init }
}

// WithOptions replaces all options at once.
func WithOptions(opts InstanceOptions) InstanceOption {
	return func(o *InstanceOptions) { *o = opts }
}

// ── Container ─────────────────────────────────────────────────────────────────

// SelfName is the instance name the container registers itself under, so
// that classes can inject it like any other managed instance.
const SelfName = "Container:default"

// Container creates, names, wires, initializes and tears down instances.
//
// Instance names take the form <ClassName>:<label>. The container owns every
// instance it creates; callers only borrow them.
//
// mu guards the maps only. Construction and initialization run unlocked so
// that injection can re-enter the container, which means two goroutines
// creating the same not-yet-existing name may both construct it.
type Container struct {
	mu sync.RWMutex

	registry *Registry
	store    *metadata.Store
	config   Config
	logger   *zap.Logger

	// full instance name → instance
	instances map[string]any

	// instance names in insertion order
	order []string

	// instance → its names
	identities map[any]Identity
}

// New creates a container around the shared configuration and logger.
// Either may be nil: config bindings then need defaults, and logging is
// discarded.
func New(cfg Config, logger *zap.Logger, opts ...Option) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Container{
		config:     cfg,
		logger:     logger,
		instances:  make(map[string]any),
		identities: make(map[any]Identity),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = NewRegistry(logger)
	}
	if c.store == nil {
		c.store = metadata.Default
	}

	// Add ourself so it can be injected/retrieved
	c.track(SelfName, c.ClassName(), c)
	return c
}

// ClassName implements Namer.
func (c *Container) ClassName() string { return "Container" }

// Registry returns the class registry.
func (c *Container) Registry() *Registry { return c.registry }

// Metadata returns the annotation store.
func (c *Container) Metadata() *metadata.Store { return c.store }

// Logger returns the shared logger.
func (c *Container) Logger() *zap.Logger { return c.logger }

// Config returns the shared configuration.
func (c *Container) Config() Config { return c.config }

// ── Registration ──────────────────────────────────────────────────────────────

// Register adds a class to the registry. typ is a Class, a reflect.Type or
// a sample value. Registering an existing name is a no-op.
//
//	c.Register(container.ClassOf[Widget]())
//	c.Register(&Widget{}, "ui.Widget")
func (c *Container) Register(typ any, fqn ...string) {
	class := asClass(typ)
	if class == nil {
		c.logger.Info("Unable to register class", zap.Any("type", typ), zap.Strings("fqn", fqn))
		return
	}
	c.registry.Register(class, fqn...)
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// GetInstance returns the instance for nameOrType. A name containing ":" is
// looked up exactly. A bare class name, a class or a sample value resolves
// to <class>:default, or failing that the first instance of that class in
// creation order.
func (c *Container) GetInstance(nameOrType any) (any, bool, error) {
	search := c.nameOf(nameOrType)
	if search == "" {
		return nil, false, fmt.Errorf("%w: %v", ErrUnresolvableName, nameOrType)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if strings.Contains(search, ":") {
		inst, ok := c.instances[search]
		return inst, ok, nil
	}
	if inst, ok := c.instances[search+":"+metadata.DefaultInstanceName]; ok {
		return inst, true, nil
	}
	prefix := search + ":"
	for _, name := range c.order {
		if strings.HasPrefix(name, prefix) {
			return c.instances[name], true, nil
		}
	}
	return nil, false, nil
}

// Identity returns the names the container attached to obj.
func (c *Container) Identity(obj any) (Identity, bool) {
	if !hashable(obj) {
		return Identity{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.identities[obj]
	return id, ok
}

// Names returns every instance name in creation order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Instances returns the identity of every instance in creation order.
func (c *Container) Instances() []Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Identity, 0, len(c.order))
	for _, name := range c.order {
		inst := c.instances[name]
		id, ok := Identity{}, false
		if hashable(inst) {
			id, ok = c.identities[inst]
		}
		if !ok {
			id = Identity{InstanceName: name}
		}
		out = append(out, id)
	}
	return out
}

// ── Creation ──────────────────────────────────────────────────────────────────

// NewInstance returns the instance of typ with the given name, creating it
// when it does not exist yet. typ is a class name, a Class, a reflect.Type
// or a sample value; anything but a name is registered on the way.
//
// The label defaults to a random UUID and is prefixed with the class name
// unless it already contains it. An existing instance is returned as is:
// no construction and no re-injection, whatever the arguments.
//
// The new instance is tracked before it is initialized, so a dependency
// that refers back to it receives this same (not yet initialized) instance
// instead of recursing. When initialization fails the instance stays
// tracked.
func (c *Container) NewInstance(ctx context.Context, typ any, opts ...InstanceOption) (any, error) {
	var o InstanceOptions
	for _, opt := range opts {
		opt(&o)
	}

	className := c.nameOf(typ)
	if className == "" {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvableName, typ)
	}

	name := o.Name
	if name == "" {
		name = uuid.NewString()
	}
	// Names are namespaced by class.
	if !strings.Contains(name, className) {
		name = className + ":" + name
	}

	c.mu.RLock()
	existing, ok := c.instances[name]
	c.mu.RUnlock()
	if ok {
		return existing, nil
	}

	if _, isName := typ.(string); !isName {
		c.Register(typ)
	}

	class, ok := c.registry.GetClass(className)
	if !ok {
		return nil, fmt.Errorf("%w with name: %s", ErrClassNotFound, className)
	}

	c.logger.Debug("Creating new instance", zap.String("class", className), zap.String("name", name))
	obj, err := class.New(o.Args...)
	if err != nil {
		return nil, fmt.Errorf("container: construct %s: %w", name, err)
	}

	c.track(name, className, obj)

	if o.ShouldInitialize() {
		return c.Initialize(ctx, obj)
	}
	return obj, nil
}

// track records obj under name and attaches its identity.
func (c *Container) track(name, className string, obj any) {
	if m, ok := obj.(identified); ok {
		m.setIdentity(className, name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.instances[name]; !exists {
		c.order = append(c.order, name)
	}
	c.instances[name] = obj
	if hashable(obj) {
		if _, set := c.identities[obj]; !set {
			c.identities[obj] = Identity{ClassName: className, InstanceName: name}
		}
	}
}

// ── Reset ─────────────────────────────────────────────────────────────────────

// Clear forgets every instance without destroying it. Container:default is
// deliberately re-added afterwards, so the map is never fully empty and
// classes created after a Clear can still inject the container.
func (c *Container) Clear() {
	c.mu.Lock()
	c.instances = make(map[string]any)
	c.identities = make(map[any]Identity)
	c.order = nil
	c.mu.Unlock()

	c.track(SelfName, c.ClassName(), c)
}

// ClearAll forgets every instance and every registered class.
func (c *Container) ClearAll() {
	c.Clear()
	c.registry.Clear()
}

// ── Generic helpers ───────────────────────────────────────────────────────────

// Make is NewInstance with a typed result.
//
//	w, err := container.Make[*Widget](ctx, c, "Widget", container.WithName("main"))
func Make[T any](ctx context.Context, c *Container, typ any, opts ...InstanceOption) (T, error) {
	var zero T
	inst, err := c.NewInstance(ctx, typ, opts...)
	if err != nil {
		return zero, err
	}
	typed, ok := inst.(T)
	if !ok {
		return zero, fmt.Errorf("container: Make[%T]: %v resolved to %T", zero, typ, inst)
	}
	return typed, nil
}

// Get is GetInstance with a typed result. It reports false when nothing
// matches, the name cannot be derived, or the instance is not a T.
func Get[T any](c *Container, nameOrType any) (T, bool) {
	var zero T
	inst, ok, err := c.GetInstance(nameOrType)
	if err != nil || !ok {
		return zero, false
	}
	typed, ok := inst.(T)
	return typed, ok
}

// ── helpers ───────────────────────────────────────────────────────────────────

// nameOf derives a class name, preferring the identity of a managed
// instance over its Go type.
func (c *Container) nameOf(v any) string {
	if _, isName := v.(string); !isName {
		if id, ok := c.Identity(v); ok {
			return id.ClassName
		}
	}
	return ClassNameOf(v)
}

// hashable reports whether v can be a map key. The dynamic check matters
// for structs holding interfaces: their type is comparable, but a slice
// stored in such a field is not.
func hashable(v any) bool {
	return v != nil && reflect.ValueOf(v).Comparable()
}
