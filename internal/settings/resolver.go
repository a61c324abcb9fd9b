// internal/settings/resolver.go
//
// Layered settings resolution.
//
// Context
// -------
// `Resolve` builds one immutable Settings value from three layers (highest
// precedence last):
//
//  1. Compiled-in defaults (Default()).
//  2. Optional settings file, YAML, path supplied by the caller.
//  3. Environment variables prefixed `autoend_` (case-insensitive).
//
// After merging, the tree is unmarshalled over the default struct with
// weak string→typed coercion, then validated.  Coercion and validation
// failures are translated into a ValidationError that names the offending
// key and its environment-variable form; the merge engine's own error
// text is not very sysop friendly, so it stays out of the returned error.
//
// Instrumentation
// ---------------
//   • Translated failures are reported twice on purpose: plain text on the
//     operator console AND one structured ERROR record.  Startup failures
//     must be visible even before the file logger is installed.
//   • File-load and overlay failures get ERROR spans and pass through
//     untranslated (SourceError keeps the path and cause).
//
// Resolution happens exactly once per process, before any concurrent
// activity; there is no reload path.

package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// Resolver merges the default, file, and environment layers into one
// Settings value.  The zero-argument NewResolver is production wiring;
// options exist so tests can inject a synthetic environment, capture the
// console output, and silence the logger.
type Resolver struct {
	environ Environ
	console io.Writer
	log     *zap.SugaredLogger
}

// Option adjusts a Resolver during construction.
type Option func(*Resolver)

// WithEnviron replaces the process environment source.
func WithEnviron(fn Environ) Option {
	return func(r *Resolver) { r.environ = fn }
}

// WithConsole redirects operator diagnostics (default os.Stdout).
func WithConsole(w io.Writer) Option {
	return func(r *Resolver) { r.console = w }
}

// WithLogger replaces the global sugared logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Resolver) { r.log = l }
}

// NewResolver builds a Resolver with production defaults.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		environ: os.Environ,
		console: os.Stdout,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// logger defers to the global sugared logger unless one was injected, so
// early boot issues surface on the bootstrap console.
func (r *Resolver) logger() *zap.SugaredLogger {
	if r.log != nil {
		return r.log
	}
	return zap.S()
}

// Resolve layers the optional settings file and prefixed environment
// overrides onto the compiled-in defaults and returns the typed result.
// path may be empty.  On failure no Settings value is returned; callers
// are expected to abort startup.
func (r *Resolver) Resolve(path string) (*Settings, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			r.logger().Errorw("settings file load failed", "file", path, "err", err)
			return nil, &SourceError{Path: path, Err: err}
		}
	}

	if err := k.Load(envProvider{prefix: EnvPrefix, environ: r.environ}, nil); err != nil {
		r.logger().Errorw("settings env overlay failed", "err", err)
		return nil, err
	}

	// Unmarshalling over the pre-filled default struct keeps every field
	// populated when a layer omits it.  A failure here is always the
	// missing-or-malformed class: the layers only produce shapes or
	// strings that fail coercion.
	s := Default()
	if err := k.Unmarshal("", &s); err != nil {
		return nil, r.fail(decodeKey(err), err)
	}

	if err := validateStruct(&s); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, r.fail(fieldErrs[0].Field(), err)
		}
		r.logger().Errorw("settings validation failed", "err", err)
		return nil, err
	}

	return &s, nil
}

// Resolve is the package-level convenience used by cmd/autoendpoint.
func Resolve(path string) (*Settings, error) {
	return NewResolver().Resolve(path)
}

// fail translates a missing-or-malformed value into the operator-facing
// ValidationError.  Try to make it a bit more 3AM useful: name the key,
// suggest the environment variable, and keep the engine's text for the
// log record only.
func (r *Resolver) fail(key string, cause error) error {
	verr := &ValidationError{Key: key, Msg: "value missing or malformed"}

	fmt.Fprintf(r.console, "Bad configuration: %s\n", verr.Error())
	fmt.Fprintln(r.console, "Please set it in the settings file or use an environment variable.")
	if key != "" {
		fmt.Fprintf(r.console, "For example to set `%s` use env var `%s`\n\n", key, verr.EnvHint())
	}

	r.logger().Errorw("configuration value undefined",
		"key", key,
		"env", verr.EnvHint(),
		"err", cause,
	)
	return verr
}

// keyRe pulls the quoted key path out of a decode message, e.g.
// "cannot parse 'port' as uint: …".
var keyRe = regexp.MustCompile(`'([^']+)'`)

// decodeKey extracts the offending settings key from an unmarshal error.
// The decoder joins per-field failures with errors.Join, so the tree is
// flattened first.  The match is the input-map key path, already
// lowercased by the layers; only the leaf segment is reported.
func decodeKey(err error) string {
	for _, msg := range flatten(err) {
		m := keyRe.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		key := strings.ToLower(m[1])
		if i := strings.LastIndexByte(key, '.'); i != -1 {
			key = key[i+1:]
		}
		return key
	}
	return ""
}

// flatten walks an errors.Join tree into leaf messages.
func flatten(err error) []string {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []string{err.Error()}
}
