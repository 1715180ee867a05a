package validation

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/km-arc/go-objectfactory/framework/metadata"
)

// ── Map validator ─────────────────────────────────────────────────────────────

// Rules is a map of field → pipe-separated rule string.
// e.g. Rules{"email": "required|email", "age": "required|numeric|gte:18"}
type Rules map[string]string

// Validator validates a flat map of values.
type Validator struct {
	data   map[string]any
	rules  Rules
	errors *Errors
	ran    bool
}

// Make creates a new Validator; mirrors Validator::make($data, $rules).
func Make(data map[string]any, rules Rules) *Validator {
	return &Validator{
		data:   data,
		rules:  rules,
		errors: &Errors{},
	}
}

// Fails runs validation and returns true if any rule fails.
func (v *Validator) Fails() bool {
	if !v.ran {
		v.ran = true
		v.validate()
	}
	return v.errors.Has()
}

// Passes runs validation and returns true if all rules pass.
func (v *Validator) Passes() bool { return !v.Fails() }

// Errors returns the validation error bag.
func (v *Validator) Errors() *Errors { return v.errors }

func (v *Validator) validate() {
	fields := make([]string, 0, len(v.rules))
	for field := range v.rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		tag, err := Translate(v.rules[field])
		if err != nil {
			v.errors.add(field, err.Error())
			continue
		}
		check(v.errors, field, v.data[field], tag)
	}
}

// ── Annotated objects ─────────────────────────────────────────────────────────

type options struct {
	recurse bool

	// pointers already validated, so cycles terminate
	seen map[uintptr]bool
}

// Option configures Validate.
type Option func(*options)

// Recurse also validates struct values reachable from the object's fields.
func Recurse() Option {
	return func(o *options) { o.recurse = true }
}

// Validate checks every exported field of obj, a pointer to a struct, a
// struct value or a slice of them, against the annotations in store (metadata.Default when
// nil):
//
//   - a nil or empty-string field is an error unless marked nullable; zero
//     numbers and false are valid values
//   - a rule set (`validate:"required|email"`) is checked with validator/v10
//   - a validator function runs on non-zero values and its result is
//     assigned back to the field (only when obj is reachable by pointer)
//
// All failures are collected; the returned error is an *Errors.
func Validate(store *metadata.Store, obj any, opts ...Option) error {
	if store == nil {
		store = metadata.Default
	}
	o := options{seen: make(map[uintptr]bool)}
	for _, opt := range opts {
		opt(&o)
	}

	errs := &Errors{}
	rv := reflect.ValueOf(obj)
	if !rv.IsValid() {
		return fmt.Errorf("validation: cannot validate nil")
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		o.seen[rv.Pointer()] = true
	}
	if rv.Kind() == reflect.Slice {
		for i := 0; i < rv.Len(); i++ {
			if err := validateValue(store, rv.Index(i), fmt.Sprintf("%d.", i), o, errs); err != nil {
				return err
			}
		}
		return errs.err()
	}
	if err := validateValue(store, rv, "", o, errs); err != nil {
		return err
	}
	return errs.err()
}

func validateValue(store *metadata.Store, rv reflect.Value, prefix string, o options, errs *Errors) error {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return fmt.Errorf("validation: cannot validate nil %s", rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("validation: cannot validate %s: want a struct", rv.Type())
	}
	if !rv.CanAddr() {
		// A struct passed by value is checked on a copy; validator
		// results have nowhere to go back to.
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		rv = cp
	}

	t := rv.Type()
	for _, sf := range reflect.VisibleFields(t) {
		if sf.Anonymous || !sf.IsExported() {
			continue
		}
		f, err := rv.FieldByIndexErr(sf.Index)
		if err != nil {
			// Promoted through a nil embedded pointer.
			continue
		}
		field := prefix + sf.Name
		validateField(store, t, sf.Name, field, f, errs)

		if o.recurse {
			if err := recurse(store, f, field+".", o, errs); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateField applies the annotations of member (looked up along t's
// chain) to the field value f, reporting under name.
func validateField(store *metadata.Store, t reflect.Type, member, name string, f reflect.Value, errs *Errors) {
	_, nullable := store.Find(t, member, metadata.Nullable)
	if isMissing(f) {
		if !nullable {
			errs.add(name, fmt.Sprintf("The %s field is required.", name))
		}
		return
	}

	p, ok := store.Find(t, member, metadata.Validator)
	if !ok {
		return
	}
	switch rule := p.(type) {
	case metadata.RuleSet:
		tag, err := Translate(string(rule))
		if err != nil {
			errs.add(name, err.Error())
			return
		}
		check(errs, name, f.Interface(), tag)
	case metadata.ValidatorFunc:
		if f.IsZero() {
			return
		}
		out, err := rule(f.Interface())
		if err != nil {
			errs.add(name, fmt.Sprintf("The %s is invalid. %v", name, err))
			return
		}
		if err := assign(f, out); err != nil {
			errs.add(name, fmt.Sprintf("The %s is invalid. %v", name, err))
		}
	}
}

func recurse(store *metadata.Store, f reflect.Value, prefix string, o options, errs *Errors) error {
	v := f
	for v.Kind() == reflect.Pointer {
		if v.IsNil() || o.seen[v.Pointer()] {
			return nil
		}
		o.seen[v.Pointer()] = true
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		return validateValue(store, v, prefix, o, errs)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			item := v.Index(i)
			if deref(item.Type()).Kind() != reflect.Struct {
				return nil
			}
			if item.Kind() == reflect.Pointer {
				if item.IsNil() || o.seen[item.Pointer()] {
					continue
				}
				o.seen[item.Pointer()] = true
			}
			if err := validateValue(store, item, fmt.Sprintf("%s%d.", prefix, i), o, errs); err != nil {
				return err
			}
		}
	}
	return nil
}

// ── Map against annotations ───────────────────────────────────────────────────

// ValidateMap checks a partial object given as a map (for example a decoded
// JSON patch) against the annotations of sample's type. Only keys present in
// data are checked; keys matching no field are ignored. Validator function
// results are written back into data.
func ValidateMap(store *metadata.Store, data map[string]any, sample any) error {
	if store == nil {
		store = metadata.Default
	}
	t := deref(reflect.TypeOf(sample))
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("validation: cannot validate against %T: want a struct", sample)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	errs := &Errors{}
	for _, key := range keys {
		sf, ok := t.FieldByName(key)
		if !ok || !sf.IsExported() {
			continue
		}
		// Check a typed copy so the same rules apply as on a struct.
		f := reflect.New(sf.Type).Elem()
		if err := assign(f, data[key]); err != nil {
			errs.add(key, fmt.Sprintf("The %s is invalid. %v", key, err))
			continue
		}
		validateField(store, t, sf.Name, key, f, errs)
		if data[key] != nil {
			data[key] = f.Interface()
		}
	}
	return errs.err()
}

// ── helpers ───────────────────────────────────────────────────────────────────

// isMissing reports nil references and empty strings.
func isMissing(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	case reflect.String:
		return v.Len() == 0
	}
	return false
}

func assign(f reflect.Value, val any) error {
	if val == nil {
		f.Set(reflect.Zero(f.Type()))
		return nil
	}
	rv := reflect.ValueOf(val)
	switch {
	case rv.Type().AssignableTo(f.Type()):
		f.Set(rv)
	case isNumber(rv.Kind()) && isNumber(f.Kind()):
		f.Set(rv.Convert(f.Type()))
	default:
		return fmt.Errorf("%s is not assignable to %s", rv.Type(), f.Type())
	}
	return nil
}

func isNumber(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}

func deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
