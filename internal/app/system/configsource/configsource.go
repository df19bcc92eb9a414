// Package configsource builds the effective configuration for the process
// from layered key/value sources.
//
// Layers are merged in order and later layers win on collision. The result
// is a Values, which cannot be modified once built. The process environment
// is only ever read, never written.
package configsource

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/joho/godotenv"
)

// Layer is one source of configuration key/value pairs.
type Layer map[string]string

// Values is the effective configuration. The zero value is empty and ready
// to use.
type Values struct {
	m map[string]string
}

// Merge combines layers into Values. For every key, the value from the last
// layer that defines it wins. Nil layers are skipped.
func Merge(layers ...Layer) Values {
	m := make(map[string]string)
	for _, layer := range layers {
		for k, v := range layer {
			m[k] = v
		}
	}
	return Values{m: m}
}

// Lookup returns the value for key and whether it was defined.
func (v Values) Lookup(key string) (string, bool) {
	val, ok := v.m[key]
	return val, ok
}

// Get returns the value for key, or "" when it is not defined.
func (v Values) Get(key string) string {
	return v.m[key]
}

// GetDefault returns the value for key, or def when it is missing or empty.
func (v Values) GetDefault(key, def string) string {
	if val := v.m[key]; val != "" {
		return val
	}
	return def
}

// Keys returns the defined keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v.m))
	for k := range v.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports how many keys are defined.
func (v Values) Len() int { return len(v.m) }

// LoadLocal reads the developer override layer.
//
// path names an optional dotenv file; a missing file (or an empty path)
// yields an empty layer rather than an error. For each key in envKeys that is
// set in the process environment, the environment value replaces the file
// value, matching dotenv's rule that existing variables are not overridden.
func LoadLocal(path string, envKeys []string) (Layer, error) {
	layer := Layer{}

	if path != "" {
		values, err := godotenv.Read(path)
		switch {
		case err == nil:
			for k, v := range values {
				layer[k] = v
			}
		case errors.Is(err, fs.ErrNotExist):
			// optional
		default:
			return nil, fmt.Errorf("read local overrides %s: %w", path, err)
		}
	}

	for _, key := range envKeys {
		if v, ok := os.LookupEnv(key); ok {
			layer[key] = v
		}
	}
	return layer, nil
}
