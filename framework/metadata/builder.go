package metadata

import "reflect"

// Builder declares annotations for T in a fluent style.
//
//	metadata.For[Service](nil).
//	    Config("Timeout", "timeout", 30).
//	    Inject("Repo", "Repository").
//	    Init("Start")
type Builder[T any] struct {
	store *Store
	t     reflect.Type
}

// For starts declaring annotations for T on s (Default when s is nil).
func For[T any](s *Store) *Builder[T] {
	if s == nil {
		s = Default
	}
	return &Builder[T]{store: s, t: reflect.TypeOf((*T)(nil)).Elem()}
}

// Type returns the annotated type.
func (b *Builder[T]) Type() reflect.Type { return b.t }

// Config binds member to the configuration value at path. With an empty
// path the whole configuration is injected. An optional default is used
// when the path is absent.
func (b *Builder[T]) Config(member, path string, def ...any) *Builder[T] {
	cb := ConfigBinding{Path: path}
	if len(def) > 0 {
		cb.Default = def[0]
		cb.HasDefault = true
	}
	b.store.Annotate(b.t, member, Config, cb)
	return b
}

// Logger binds member to the shared logger.
func (b *Builder[T]) Logger(member string) *Builder[T] {
	b.store.Annotate(b.t, member, Logger, true)
	return b
}

// Inject binds member to the managed instance of typ. Without a name the
// "default" instance is used.
func (b *Builder[T]) Inject(member string, typ any, opts ...InstanceOptions) *Builder[T] {
	var o InstanceOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.Name == "" {
		o.Name = DefaultInstanceName
	}
	b.store.Annotate(b.t, member, Inject, InjectBinding{Type: typ, Options: o})
	return b
}

// Init marks method as an initializer.
func (b *Builder[T]) Init(method string) *Builder[T] {
	b.store.Annotate(b.t, method, Init, true)
	return b
}

// Destroy marks method as the destructor.
func (b *Builder[T]) Destroy(method string) *Builder[T] {
	b.store.Annotate(b.t, method, Destroy, true)
	return b
}

// Nullable marks member as allowed to stay at its zero value.
func (b *Builder[T]) Nullable(member string) *Builder[T] {
	b.store.Annotate(b.t, member, Nullable, true)
	return b
}

// Validator attaches fn to member.
func (b *Builder[T]) Validator(member string, fn ValidatorFunc) *Builder[T] {
	b.store.Annotate(b.t, member, Validator, fn)
	return b
}

// Extends declares base as an ancestor of T. base is a reflect.Type or a
// sample value of the base type.
func (b *Builder[T]) Extends(base any) *Builder[T] {
	bt, ok := base.(reflect.Type)
	if !ok {
		bt = reflect.TypeOf(base)
	}
	b.store.Extend(b.t, bt)
	return b
}
