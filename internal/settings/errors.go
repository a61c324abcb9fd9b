// internal/settings/errors.go
//
// Error taxonomy for settings resolution.
//
// Context
// -------
// Resolution distinguishes exactly two failure classes of its own:
//
//   • SourceError     – the optional settings file could not be located
//     or parsed.  Passed to the caller untranslated.
//   • ValidationError – a value is missing or failed type coercion.  This
//     is the one class that gets the operator-friendly treatment; the
//     merge engine's internal error text never reaches the caller.
//
// Anything else coming out of the merge engine is logged and returned
// as-is.  All three outcomes are terminal; startup is expected to abort.

package settings

import "fmt"

// SourceError wraps a failure to locate or parse the settings file.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("settings file %q: %v", e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// ValidationError reports a settings value that is missing or malformed.
// Key is the settings field name (e.g. "port"); Msg is safe to show an
// operator and never carries merge-engine internals.
type ValidationError struct {
	Key string
	Msg string
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("bad configuration: %s", e.Msg)
	}
	return fmt.Sprintf("bad configuration value for %q: %s", e.Key, e.Msg)
}

// EnvHint returns the environment variable that would set the offending
// field, for use in operator diagnostics.
func (e *ValidationError) EnvHint() string { return EnvVarName(e.Key) }
