package metadata

import (
	"reflect"
	"sync"
)

// ── Kinds ─────────────────────────────────────────────────────────────────────

// Kind identifies what an annotation asks for.
type Kind int

const (
	// Config injects a configuration value (payload: ConfigBinding).
	Config Kind = iota + 1
	// Logger injects the container's shared logger (payload: true).
	Logger
	// Inject injects another managed instance (payload: InjectBinding).
	Inject
	// Init marks a method run once after all bindings are resolved.
	Init
	// Destroy marks a method run during teardown.
	Destroy
	// Nullable marks a field that may legitimately hold its zero value.
	Nullable
	// Validator attaches a ValidatorFunc or a RuleSet to a field.
	Validator
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Logger:
		return "logger"
	case Inject:
		return "inject"
	case Init:
		return "init"
	case Destroy:
		return "destroy"
	case Nullable:
		return "nullable"
	case Validator:
		return "validator"
	default:
		return "unknown"
	}
}

// ── Payloads ──────────────────────────────────────────────────────────────────

// ConfigBinding describes a configuration injection. An empty Path injects
// the whole configuration object.
type ConfigBinding struct {
	Path       string
	Default    any
	HasDefault bool
}

// InstanceOptions are the options accepted when creating a managed instance.
// A nil Initialize means "initialize".
type InstanceOptions struct {
	Name       string
	Args       []any
	Initialize *bool
}

// ShouldInitialize reports whether the instance is to be initialized.
func (o InstanceOptions) ShouldInitialize() bool {
	return o.Initialize == nil || *o.Initialize
}

// InjectBinding describes an object injection. Type is anything the
// container can derive a class name from: a string, a class definition,
// a reflect.Type or a sample value.
type InjectBinding struct {
	Type    any
	Options InstanceOptions
}

// ValidatorFunc validates a field value and returns the value to assign.
type ValidatorFunc func(value any) (any, error)

// RuleSet is a pipe separated rule string such as "required|email|min:2".
type RuleSet string

// DefaultInstanceName is the instance label used by inject bindings that do
// not name their target.
const DefaultInstanceName = "default"

// ── Store ─────────────────────────────────────────────────────────────────────

type key struct {
	t      reflect.Type
	member string
	kind   Kind
}

// Store holds annotations for any number of types. The zero value is not
// usable; call NewStore.
type Store struct {
	mu sync.RWMutex

	entries map[key]any

	// type → annotated members in declaration order
	members map[reflect.Type][]string

	// type → explicitly declared bases
	bases map[reflect.Type][]reflect.Type

	// types whose struct tags were already read
	parsed map[reflect.Type]bool
}

// Default is the store used when none is supplied.
var Default = NewStore()

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		entries: make(map[key]any),
		members: make(map[reflect.Type][]string),
		bases:   make(map[reflect.Type][]reflect.Type),
		parsed:  make(map[reflect.Type]bool),
	}
}

// Annotate records payload for (t, member, kind). A later annotation of the
// same key replaces the earlier one.
func (s *Store) Annotate(t reflect.Type, member string, kind Kind, payload any) {
	t = Normalize(t)
	s.ensureParsed(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotate(t, member, kind, payload)
}

// annotate must hold mu.Lock.
func (s *Store) annotate(t reflect.Type, member string, kind Kind, payload any) {
	k := key{t: t, member: member, kind: kind}
	if _, seen := s.entries[k]; !seen && !s.hasMember(t, member) {
		s.members[t] = append(s.members[t], member)
	}
	s.entries[k] = payload
}

func (s *Store) hasMember(t reflect.Type, member string) bool {
	for _, m := range s.members[t] {
		if m == member {
			return true
		}
	}
	return false
}

// Lookup returns the payload declared on t itself (not its bases).
func (s *Store) Lookup(t reflect.Type, member string, kind Kind) (any, bool) {
	t = Normalize(t)
	s.ensureParsed(t)

	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key{t: t, member: member, kind: kind}]
	return v, ok
}

// Members returns the annotated members declared on t itself.
func (s *Store) Members(t reflect.Type) []string {
	t = Normalize(t)
	s.ensureParsed(t)

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.members[t]))
	copy(out, s.members[t])
	return out
}

// Extend declares base as an ancestor of t, in addition to embedded structs.
func (s *Store) Extend(t, base reflect.Type) {
	t, base = Normalize(t), Normalize(base)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bases[t] = append(s.bases[t], base)
}

// Chain returns t followed by its ancestors: embedded structs depth first,
// then explicitly declared bases. Each type appears once.
func (s *Store) Chain(t reflect.Type) []reflect.Type {
	t = Normalize(t)
	if t == nil {
		return nil
	}
	seen := make(map[reflect.Type]bool)
	var out []reflect.Type
	s.walk(t, seen, &out)
	return out
}

func (s *Store) walk(t reflect.Type, seen map[reflect.Type]bool, out *[]reflect.Type) {
	if seen[t] {
		return
	}
	seen[t] = true
	*out = append(*out, t)

	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if f.Anonymous && f.Type.Kind() == reflect.Struct {
				s.walk(f.Type, seen, out)
			}
		}
	}

	s.mu.RLock()
	bases := append([]reflect.Type(nil), s.bases[t]...)
	s.mu.RUnlock()
	for _, b := range bases {
		s.walk(b, seen, out)
	}
}

// Find walks the chain of t and returns the first payload of kind declared
// for member at any level.
func (s *Store) Find(t reflect.Type, member string, kind Kind) (any, bool) {
	for _, level := range s.Chain(t) {
		if v, ok := s.Lookup(level, member, kind); ok {
			return v, true
		}
	}
	return nil, false
}

// Normalize strips pointers so *T and T share annotations.
func Normalize(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
