package container

import (
	"fmt"
	"reflect"
	"strings"
)

// ── Class definitions ─────────────────────────────────────────────────────────

// Class is a constructible type known to the registry by its canonical name.
type Class interface {
	// ClassName is the canonical name used as the registry key and as the
	// namespace of instance names.
	ClassName() string

	// Type is the type of the values produced by New.
	Type() reflect.Type

	// New builds a value from positional constructor arguments.
	New(args ...any) (any, error)
}

// ClassDef is the usual Class implementation, built with Define or ClassOf.
type ClassDef[T any] struct {
	name string
	ctor func(args ...any) (*T, error)
}

// Define declares a class named name whose instances are built by ctor.
// An empty name falls back to the Go type name of T.
//
//	var Widget = container.Define("Widget", func(args ...any) (*widget, error) {
//	    size, err := container.Arg[int](args, 0)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &widget{Size: size}, nil
//	})
func Define[T any](name string, ctor func(args ...any) (*T, error)) *ClassDef[T] {
	return &ClassDef[T]{name: name, ctor: ctor}
}

// ClassOf declares a class built with new(T), named after the Go type.
func ClassOf[T any]() *ClassDef[T] {
	return &ClassDef[T]{}
}

// ClassName returns the name given to Define, else the name *T declares
// through Namer, else the Go type name.
func (c *ClassDef[T]) ClassName() string {
	if c.name != "" {
		return c.name
	}
	if n, ok := any(new(T)).(Namer); ok {
		if name := n.ClassName(); name != "" {
			return name
		}
	}
	return typeName(c.Type())
}

func (c *ClassDef[T]) Type() reflect.Type { return reflect.TypeOf((*T)(nil)) }

func (c *ClassDef[T]) New(args ...any) (any, error) {
	if c.ctor == nil {
		if len(args) > 0 {
			return nil, fmt.Errorf("%w: %s takes no arguments, got %d", ErrBadArgument, c.ClassName(), len(args))
		}
		return new(T), nil
	}
	obj, err := c.ctor(args...)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, fmt.Errorf("constructor of %s returned nil", c.ClassName())
	}
	return obj, nil
}

// typeClass builds zero values of a type through reflection. It backs
// types registered from a reflect.Type or a sample value.
type typeClass struct {
	name string
	t    reflect.Type
}

func (c typeClass) ClassName() string  { return c.name }
func (c typeClass) Type() reflect.Type { return reflect.PointerTo(c.t) }

func (c typeClass) New(args ...any) (any, error) {
	if len(args) > 0 {
		return nil, fmt.Errorf("%w: %s takes no arguments, got %d", ErrBadArgument, c.name, len(args))
	}
	return reflect.New(c.t).Interface(), nil
}

// asClass turns a registrable value into a Class. Strings are not
// registrable and yield nil.
func asClass(v any) Class {
	switch t := v.(type) {
	case nil, string:
		return nil
	case Class:
		return t
	case reflect.Type:
		base := deref(t)
		if base == nil {
			return nil
		}
		return typeClass{name: typeName(base), t: base}
	default:
		base := deref(reflect.TypeOf(v))
		name := typeName(base)
		if n, ok := v.(Namer); ok && n.ClassName() != "" {
			name = n.ClassName()
		}
		return typeClass{name: name, t: base}
	}
}

// Namer lets a value declare its canonical class name explicitly.
type Namer interface {
	ClassName() string
}

// ── Name derivation ───────────────────────────────────────────────────────────

// ClassNameOf derives the canonical class name of v: strings are returned
// verbatim, classes and Namers declare their own, anything else is named
// after its Go type (pointers stripped). It returns "" when no name exists.
func ClassNameOf(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case Namer:
		if n := t.ClassName(); n != "" {
			return n
		}
		return typeName(deref(reflect.TypeOf(v)))
	case reflect.Type:
		return typeName(deref(t))
	default:
		return typeName(deref(reflect.TypeOf(v)))
	}
}

// TypeKey returns the package-qualified type name of v, useful as a stable
// class name when two packages declare types with the same name.
//
//	c.Register(container.ClassOf[Repo](), container.TypeKey((*Repo)(nil)))
func TypeKey(v any) string {
	t := deref(reflect.TypeOf(v))
	if t == nil {
		return ""
	}
	return t.PkgPath() + "." + t.Name()
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func typeName(t reflect.Type) string {
	t = deref(t)
	if t == nil {
		return ""
	}
	// Generic instantiations carry their type arguments: Box[int].
	name, _, _ := strings.Cut(t.Name(), "[")
	return name
}

// ── Constructor arguments ─────────────────────────────────────────────────────

// Arg returns args[i] as T, converting between numeric kinds when needed.
func Arg[T any](args []any, i int) (T, error) {
	var zero T
	if i < 0 || i >= len(args) {
		return zero, fmt.Errorf("%w: missing argument %d", ErrBadArgument, i)
	}
	want := reflect.TypeOf((*T)(nil)).Elem()
	v, err := convert(args[i], want)
	if err != nil {
		return zero, fmt.Errorf("%w: argument %d: %v", ErrBadArgument, i, err)
	}
	return v.Interface().(T), nil
}

// ArgOr is like Arg but returns def when the argument is absent.
func ArgOr[T any](args []any, i int, def T) (T, error) {
	if i >= len(args) {
		return def, nil
	}
	return Arg[T](args, i)
}

// convert returns val as a value of type want. Assignable values pass
// through; numeric values convert between numeric kinds when no
// information is lost; nil becomes the zero value.
func convert(val any, want reflect.Type) (reflect.Value, error) {
	if val == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if isNumeric(rv.Kind()) && isNumeric(want.Kind()) {
		return convertNumber(rv, want)
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", rv.Type(), want)
}

// convertNumber refuses conversions that truncate, overflow or flip sign:
// the result must convert back to the original value.
func convertNumber(rv reflect.Value, want reflect.Type) (reflect.Value, error) {
	negative := (rv.CanInt() && rv.Int() < 0) || (rv.CanFloat() && rv.Float() < 0)
	out := rv.Convert(want)
	switch {
	case negative && out.CanUint():
		return reflect.Value{}, fmt.Errorf("%v does not fit in %s", rv, want)
	case rv.CanUint() && out.CanInt() && out.Int() < 0:
		return reflect.Value{}, fmt.Errorf("%v overflows %s", rv, want)
	case !out.Convert(rv.Type()).Equal(rv):
		return reflect.Value{}, fmt.Errorf("%v cannot be represented as %s", rv, want)
	}
	return out, nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// ── Identity ──────────────────────────────────────────────────────────────────

// Identity is the pair of names the container attaches to every instance
// it creates.
type Identity struct {
	ClassName    string `json:"class"`
	InstanceName string `json:"name"`
}

// Managed can be embedded in a struct to expose the names the container
// assigned to it. They are set once, right after construction.
//
//	type Widget struct {
//	    container.Managed
//	}
//	w, _ := container.Make[*Widget](ctx, c, "Widget", container.WithName("main"))
//	w.InstanceName() // "Widget:main"
type Managed struct {
	fqn  string
	name string
}

// FQN returns the canonical class name of the instance.
func (m *Managed) FQN() string { return m.fqn }

// InstanceName returns the full instance name, <class>:<label>.
func (m *Managed) InstanceName() string { return m.name }

func (m *Managed) setIdentity(fqn, name string) {
	if m.fqn != "" || m.name != "" {
		return
	}
	m.fqn, m.name = fqn, name
}

type identified interface {
	setIdentity(fqn, name string)
}
