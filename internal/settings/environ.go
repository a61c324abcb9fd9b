// internal/settings/environ.go
//
// Injectable environment layer for the Koanf merge.
//
// Context
// -------
// The stock koanf env provider reads os.Environ directly, which makes it
// impossible for tests to supply a synthetic variable set without mutating
// real process state.  This provider implements the same contract against
// an injectable Environ source instead: filter for the case-insensitive
// prefix, strip it, lowercase the remainder, and hand the flat map to
// Koanf.  Variables without the prefix are ignored entirely.

package settings

import (
	"errors"
	"strings"
)

// Environ supplies raw "KEY=VALUE" pairs; os.Environ is the production
// source.
type Environ func() []string

// envProvider satisfies the koanf.Provider interface.
type envProvider struct {
	prefix  string
	environ Environ
}

// Read filters the environment down to prefixed variables and keys them by
// lowercased field name.  Values stay strings; coercion happens during
// unmarshal.
func (p envProvider) Read() (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for _, pair := range p.environ() {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || len(name) <= len(p.prefix) {
			continue
		}
		if !strings.EqualFold(name[:len(p.prefix)], p.prefix) {
			continue
		}
		out[strings.ToLower(name[len(p.prefix):])] = value
	}
	return out, nil
}

// ReadBytes is required by the Provider interface but meaningless for an
// environment source.
func (p envProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("env provider does not support ReadBytes")
}
