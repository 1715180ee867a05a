package config

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Repository is a nested key/value tree addressed by dotted or colon
// delimited paths ("jobs.defaultSchedule", "auth:options:issuer").
// Segment matching falls back to a case-insensitive comparison so that
// values imported from upper-case environment variables still reach
// mixed-case keys.
type Repository struct {
	mu    sync.RWMutex
	items map[string]any
}

// New creates a Repository holding a deep copy of items.
func New(items map[string]any) *Repository {
	r := &Repository{items: make(map[string]any)}
	r.Merge(items)
	return r
}

// Get returns the value at path. An empty path returns every item.
func (r *Repository) Get(path string) (any, bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return r.All(), true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var cur any = r.items
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		k, ok := findKey(m, seg)
		if !ok {
			return nil, false
		}
		cur = m[k]
	}
	return cur, true
}

// Has reports whether a value exists at path.
func (r *Repository) Has(path string) bool {
	_, ok := r.Get(path)
	return ok
}

// Set stores v at path, creating intermediate maps as needed.
func (r *Repository) Set(path string, v any) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m := r.items
	for _, seg := range segs[:len(segs)-1] {
		k, ok := findKey(m, seg)
		if !ok {
			k = seg
		}
		next, ok := m[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[k] = next
		}
		m = next
	}
	last := segs[len(segs)-1]
	if k, ok := findKey(m, last); ok {
		last = k
	}
	m[last] = v
}

// Merge deep-merges items into the repository; items win on conflict.
func (r *Repository) Merge(items map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mergeInto(r.items, items)
}

// All returns a deep copy of every item.
func (r *Repository) All() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.items))
	mergeInto(out, r.items)
	return out
}

// replace swaps the whole tree, used on reload.
func (r *Repository) replace(other *Repository) {
	items := other.All()
	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
}

// ── Typed accessors ───────────────────────────────────────────────────────────

// String returns the value at path formatted as a string, or def.
func (r *Repository) String(path, def string) string {
	v, ok := r.Get(path)
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the value at path as an int, or def when absent or not numeric.
func (r *Repository) Int(path string, def int) int {
	v, ok := r.Get(path)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

// Bool returns the value at path as a bool, or def.
func (r *Repository) Bool(path string, def bool) bool {
	v, ok := r.Get(path)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if parsed, err := strconv.ParseBool(b); err == nil {
			return parsed
		}
	}
	return def
}

// ── helpers ─────────────────────────────────────────────────────────────────

func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '.' || r == ':' })
}

func findKey(m map[string]any, seg string) (string, bool) {
	if _, ok := m[seg]; ok {
		return seg, true
	}
	for k := range m {
		if strings.EqualFold(k, seg) {
			return k, true
		}
	}
	return "", false
}

func mergeInto(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			target, ok := dst[k].(map[string]any)
			if !ok {
				target = make(map[string]any, len(sub))
				dst[k] = target
			}
			mergeInto(target, sub)
			continue
		}
		dst[k] = v
	}
}
