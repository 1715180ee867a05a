package container

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/km-arc/go-objectfactory/framework/metadata"
)

var zapSugaredType = reflect.TypeOf((*zap.SugaredLogger)(nil))

// Initialize resolves every binding declared on obj's chain (its own type,
// then each embedded or declared base), then runs its initializers: at most
// one per chain level, in discovery order, each finishing before the next
// starts.
//
// Initialize also works on objects the container did not create; they are
// wired but not tracked.
func (c *Container) Initialize(ctx context.Context, obj any) (any, error) {
	v := reflect.ValueOf(obj)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, fmt.Errorf("container: cannot initialize %T: want a non-nil pointer", obj)
	}
	chain := c.store.Chain(v.Type())

	for _, level := range chain {
		for _, member := range c.store.Members(level) {
			if err := c.bind(ctx, v, level, member); err != nil {
				return nil, err
			}
		}
	}

	for _, method := range c.initMethods(chain) {
		if err := callHook(ctx, v, method); err != nil {
			return nil, fmt.Errorf("container: init %s.%s: %w", ClassNameOf(obj), method, err)
		}
	}
	return obj, nil
}

// bind resolves the bindings of one member at one chain level.
func (c *Container) bind(ctx context.Context, obj reflect.Value, level reflect.Type, member string) error {
	if p, ok := c.store.Lookup(level, member, metadata.Config); ok {
		val, err := c.configValue(p.(metadata.ConfigBinding))
		if err != nil {
			return err
		}
		if err := setField(obj, member, val); err != nil {
			return err
		}
	}

	if _, ok := c.store.Lookup(level, member, metadata.Logger); ok {
		if err := c.injectLogger(obj, member); err != nil {
			return err
		}
	}

	if p, ok := c.store.Lookup(level, member, metadata.Inject); ok {
		b := p.(metadata.InjectBinding)
		// First register the type just in case it hasn't been done yet
		if _, isName := b.Type.(string); !isName {
			c.Register(b.Type)
		}
		inst, err := c.NewInstance(ctx, b.Type, WithOptions(b.Options))
		if err != nil {
			return fmt.Errorf("container: inject %s: %w", member, err)
		}
		if err := setField(obj, member, inst); err != nil {
			return err
		}
	}
	return nil
}

// configValue returns the configured value, the declared default, or
// ErrMissingConfig. An empty path yields the whole configuration.
func (c *Container) configValue(b metadata.ConfigBinding) (any, error) {
	if b.Path == "" {
		if c.config == nil {
			return nil, nil
		}
		return c.config, nil
	}
	if c.config != nil {
		if v, ok := c.config.Get(b.Path); ok && v != nil {
			return v, nil
		}
	}
	if b.HasDefault {
		return b.Default, nil
	}
	return nil, fmt.Errorf("%w at path: %s", ErrMissingConfig, b.Path)
}

// injectLogger stores the shared logger, or its sugared form when the
// field asks for one.
func (c *Container) injectLogger(obj reflect.Value, member string) error {
	f, err := field(obj, member)
	if err != nil {
		return err
	}
	if f.Type() == zapSugaredType {
		f.Set(reflect.ValueOf(c.logger.Sugar()))
		return nil
	}
	return setField(obj, member, c.logger)
}

// initMethods collects one initializer per chain level, skipping names
// already collected at a lower level.
func (c *Container) initMethods(chain []reflect.Type) []string {
	seen := make(map[string]bool)
	var out []string
	for _, level := range chain {
		for _, member := range c.store.Members(level) {
			if _, ok := c.store.Lookup(level, member, metadata.Init); ok && !seen[member] {
				seen[member] = true
				out = append(out, member)
				break
			}
		}
	}
	return out
}

// ── Reflection helpers ────────────────────────────────────────────────────────

// field returns the settable field named member of the struct obj points to.
// Promoted fields of embedded structs are found too.
func field(obj reflect.Value, member string) (reflect.Value, error) {
	target := obj.Elem()
	if target.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s is not a struct", ErrNotAssignable, target.Type())
	}
	sf, ok := target.Type().FieldByName(member)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s has no field %s", ErrNotAssignable, target.Type(), member)
	}
	f, err := target.FieldByIndexErr(sf.Index)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s: %v", ErrNotAssignable, target.Type(), member, err)
	}
	if !f.CanSet() {
		return reflect.Value{}, fmt.Errorf("%w: %s.%s is unexported", ErrNotAssignable, target.Type(), member)
	}
	return f, nil
}

func setField(obj reflect.Value, member string, val any) error {
	f, err := field(obj, member)
	if err != nil {
		return err
	}
	rv, err := convert(val, f.Type())
	if err != nil {
		return fmt.Errorf("%w: %s.%s: %v", ErrNotAssignable, obj.Elem().Type(), member, err)
	}
	f.Set(rv)
	return nil
}

// callHook invokes the named method of obj. Supported signatures are
// func(), func() error, func(context.Context) and func(context.Context) error.
func callHook(ctx context.Context, obj reflect.Value, method string) error {
	m := obj.MethodByName(method)
	if !m.IsValid() {
		return fmt.Errorf("%w: %s has no method %s", ErrBadHook, obj.Type(), method)
	}
	switch fn := m.Interface().(type) {
	case func():
		fn()
	case func() error:
		return fn()
	case func(context.Context):
		fn(ctx)
	case func(context.Context) error:
		return fn(ctx)
	default:
		return fmt.Errorf("%w: %s.%s has signature %s", ErrBadHook, obj.Type(), method, m.Type())
	}
	return nil
}
