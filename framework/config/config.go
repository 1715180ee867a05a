package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Options controls the layers read by Load, lowest priority first:
// Defaults, Files (YAML), EnvFiles (.env) and finally the process
// environment. Only variables starting with EnvPrefix are imported; "__"
// separates path segments, so APP_JOBS__SCHEDULE sets "jobs.schedule".
type Options struct {
	Defaults  map[string]any
	Files     []string
	EnvFiles  []string
	EnvPrefix string
}

// Load builds a Repository from opts. Missing files are skipped; malformed
// ones are reported.
//
//	cfg, err := config.Load(config.Options{
//	    Files:     []string{"config.yaml"},
//	    EnvFiles:  []string{".env"},
//	    EnvPrefix: "APP_",
//	})
func Load(opts Options) (*Repository, error) {
	repo := New(nil)
	repo.Merge(opts.Defaults)

	for _, file := range opts.Files {
		data, err := os.ReadFile(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		var items map[string]any
		if err := yaml.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", file, err)
		}
		repo.Merge(items)
	}

	if opts.EnvPrefix == "" {
		return repo, nil
	}

	vars := make(map[string]string)
	for _, file := range opts.EnvFiles {
		m, err := godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		for k, v := range m {
			vars[k] = v
		}
	}
	// The real environment wins over .env files, as with godotenv.Load.
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		vars[k] = v
	}

	for k, v := range vars {
		rest, ok := strings.CutPrefix(k, opts.EnvPrefix)
		if !ok || rest == "" {
			continue
		}
		path := strings.ToLower(strings.ReplaceAll(rest, "__", "."))
		repo.Set(path, parseValue(v))
	}

	return repo, nil
}

// parseValue reads an environment value as a YAML scalar so "30" becomes
// an int and "true" a bool. Anything that does not parse stays a string.
func parseValue(raw string) any {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil || v == nil {
		return raw
	}
	switch v.(type) {
	case string, int, int64, uint64, float64, bool:
		return v
	}
	return raw
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
