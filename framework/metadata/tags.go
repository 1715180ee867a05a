package metadata

import (
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Struct tags understood by the store.
const (
	TagConfig   = "config"
	TagDefault  = "default"
	TagLogger   = "logger"
	TagInject   = "inject"
	TagNullable = "nullable"
	TagValidate = "validate"
)

// ensureParsed reads the struct tags of t once.
func (s *Store) ensureParsed(t reflect.Type) {
	if t == nil {
		return
	}
	s.mu.RLock()
	done := s.parsed[t]
	s.mu.RUnlock()
	if done {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.parsed[t] {
		return
	}
	s.parsed[t] = true
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.Anonymous {
			continue
		}
		s.parseField(t, f)
	}
}

// parseField must hold mu.Lock.
func (s *Store) parseField(t reflect.Type, f reflect.StructField) {
	if path, ok := f.Tag.Lookup(TagConfig); ok {
		b := ConfigBinding{Path: path}
		if raw, ok := f.Tag.Lookup(TagDefault); ok {
			b.Default = decodeDefault(raw, f.Type)
			b.HasDefault = true
		}
		s.annotate(t, f.Name, Config, b)
	}

	if _, ok := f.Tag.Lookup(TagLogger); ok {
		s.annotate(t, f.Name, Logger, true)
	}

	if spec, ok := f.Tag.Lookup(TagInject); ok {
		s.annotate(t, f.Name, Inject, parseInject(spec, f.Type))
	}

	if _, ok := f.Tag.Lookup(TagNullable); ok {
		s.annotate(t, f.Name, Nullable, true)
	}

	if rules, ok := f.Tag.Lookup(TagValidate); ok && rules != "" {
		s.annotate(t, f.Name, Validator, RuleSet(rules))
	}
}

// decodeDefault parses a default tag as YAML into a value of type t. When
// the text does not decode, the raw string is kept and assignment decides.
func decodeDefault(raw string, t reflect.Type) any {
	ptr := reflect.New(t)
	if err := yaml.Unmarshal([]byte(raw), ptr.Interface()); err != nil {
		return raw
	}
	return ptr.Elem().Interface()
}

// parseInject reads `inject:"Type,name=x,init=false"`. An empty type falls
// back to the field's own type.
func parseInject(spec string, fieldType reflect.Type) InjectBinding {
	parts := strings.Split(spec, ",")
	b := InjectBinding{Options: InstanceOptions{Name: DefaultInstanceName}}

	if name := strings.TrimSpace(parts[0]); name != "" {
		b.Type = name
	} else {
		b.Type = fieldType
	}

	for _, opt := range parts[1:] {
		k, v, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch k {
		case "name":
			if v != "" {
				b.Options.Name = v
			}
		case "init":
			if init, err := strconv.ParseBool(v); err == nil {
				b.Options.Initialize = &init
			}
		}
	}
	return b
}
