// internal/settings/settings_test.go
//
// Unit-tests for layered settings resolution.
//
// Context
// -------
// Every test drives Resolve through the injectable seams: a synthetic
// environment slice, a bytes.Buffer console, and a no-op logger.  The
// real process environment is never touched.
//
// Run: go test ./internal/settings -v

package settings

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
)

// newTestResolver wires a Resolver to a synthetic environment and a
// discardable console.
func newTestResolver(environ []string, console io.Writer) *Resolver {
	if console == nil {
		console = io.Discard
	}
	return NewResolver(
		WithEnviron(func() []string { return environ }),
		WithConsole(console),
		WithLogger(zap.NewNop().Sugar()),
	)
}

// writeSettingsFile drops YAML content into a temp dir and returns its path.
func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings file: %v", err)
	}
	return path
}

func TestResolve_Defaults(t *testing.T) {
	got, err := newTestResolver(nil, nil).Resolve("")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	want := Default()
	if !reflect.DeepEqual(*got, want) {
		t.Fatalf("defaults mismatch:\n got  %+v\n want %+v", *got, want)
	}
	if got.DatabasePoolMaxSize != nil {
		t.Errorf("pool max size should default to nil, got %d", *got.DatabasePoolMaxSize)
	}
	if got.StatsdHost != nil {
		t.Errorf("statsd host should default to nil, got %q", *got.StatsdHost)
	}
}

func TestResolve_FileLayer(t *testing.T) {
	path := writeSettingsFile(t, `
debug: true
port: 9000
host: endpoint.example.com
database_pool_max_size: 20
statsd_host: statsd.local
`)

	got, err := newTestResolver(nil, nil).Resolve(path)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if !got.Debug || got.Port != 9000 || got.Host != "endpoint.example.com" {
		t.Fatalf("file values not applied: %+v", *got)
	}
	if got.DatabasePoolMaxSize == nil || *got.DatabasePoolMaxSize != 20 {
		t.Errorf("pool max size = %v, want 20", got.DatabasePoolMaxSize)
	}
	if got.StatsdHost == nil || *got.StatsdHost != "statsd.local" {
		t.Errorf("statsd host = %v, want statsd.local", got.StatsdHost)
	}
	// Untouched fields keep their defaults.
	if got.DatabaseURL != Default().DatabaseURL || got.StatsdPort != 8125 {
		t.Errorf("defaults lost under file layer: %+v", *got)
	}
}

func TestResolve_EnvLayer(t *testing.T) {
	env := []string{
		"AUTOEND_PORT=9001",
		"AUTOEND_DEBUG=true",
		"AUTOEND_DATABASE_URL=mysql://app@db.internal/autopush",
		"AUTOEND_DATABASE_POOL_MAX_SIZE=25",
	}

	got, err := newTestResolver(env, nil).Resolve("")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if got.Port != 9001 || !got.Debug {
		t.Fatalf("env values not applied: %+v", *got)
	}
	if got.DatabaseURL != "mysql://app@db.internal/autopush" {
		t.Errorf("database url = %q", got.DatabaseURL)
	}
	if got.DatabasePoolMaxSize == nil || *got.DatabasePoolMaxSize != 25 {
		t.Errorf("pool max size = %v, want 25", got.DatabasePoolMaxSize)
	}
}

func TestResolve_EnvOverridesFile(t *testing.T) {
	path := writeSettingsFile(t, "port: 9000\nhost: from-file\n")
	env := []string{"AUTOEND_PORT=9100"}

	got, err := newTestResolver(env, nil).Resolve(path)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Port != 9100 {
		t.Errorf("port = %d, want env override 9100", got.Port)
	}
	if got.Host != "from-file" {
		t.Errorf("host = %q, want file value to survive", got.Host)
	}
}

func TestResolve_EnvCaseInsensitive(t *testing.T) {
	got, err := newTestResolver([]string{"AutoEnd_Host=10.0.0.9"}, nil).Resolve("")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Host != "10.0.0.9" {
		t.Errorf("host = %q, want mixed-case prefix to match", got.Host)
	}
}

func TestResolve_IgnoresUnprefixedEnv(t *testing.T) {
	env := []string{
		"PORT=1",
		"HOST=evil",
		"AUTOENDPOINT_HOST=also-evil", // prefix must match exactly autoend_
	}
	got, err := newTestResolver(env, nil).Resolve("")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if got.Port != 8000 || got.Host != "127.0.0.1" {
		t.Errorf("unprefixed vars leaked into settings: %+v", *got)
	}
}

func TestResolve_MissingFile(t *testing.T) {
	got, err := newTestResolver(nil, nil).Resolve(filepath.Join(t.TempDir(), "absent.yaml"))
	if got != nil {
		t.Fatalf("expected no settings, got %+v", *got)
	}

	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("want SourceError, got %T: %v", err, err)
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		t.Fatalf("missing file must not be a ValidationError")
	}
}

func TestResolve_MalformedFile(t *testing.T) {
	path := writeSettingsFile(t, "port: [unclosed\n")

	_, err := newTestResolver(nil, nil).Resolve(path)
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("want SourceError for parse failure, got %T: %v", err, err)
	}
	if srcErr.Path != path {
		t.Errorf("SourceError path = %q, want %q", srcErr.Path, path)
	}
}

func TestResolve_BadPortEnv(t *testing.T) {
	var console bytes.Buffer
	got, err := newTestResolver([]string{"AUTOEND_PORT=banana"}, &console).Resolve("")
	if got != nil {
		t.Fatalf("expected no settings, got %+v", *got)
	}

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("want ValidationError, got %T: %v", err, err)
	}
	if valErr.Key != "port" {
		t.Errorf("ValidationError key = %q, want port", valErr.Key)
	}
	if !bytes.Contains(console.Bytes(), []byte("AUTOEND_PORT")) {
		t.Errorf("console diagnostics missing env hint:\n%s", console.String())
	}
	if bytes.Contains(console.Bytes(), []byte("strconv")) {
		t.Errorf("console leaked engine internals:\n%s", console.String())
	}
}

func TestResolve_BadPoolSizeEnv(t *testing.T) {
	var console bytes.Buffer
	got, err := newTestResolver([]string{"AUTOEND_DATABASE_POOL_MAX_SIZE=lots"}, &console).Resolve("")
	if got != nil {
		t.Fatalf("expected no settings, got %+v", *got)
	}

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("want ValidationError, got %T: %v", err, err)
	}
	if valErr.Key != "database_pool_max_size" {
		t.Errorf("ValidationError key = %q, want database_pool_max_size", valErr.Key)
	}
	if !bytes.Contains(console.Bytes(), []byte("AUTOEND_DATABASE_POOL_MAX_SIZE")) {
		t.Errorf("console diagnostics missing env hint:\n%s", console.String())
	}
}

func TestResolve_MultipleBadValues(t *testing.T) {
	// The decoder reports every failed field; the translated error must
	// still name a single offending key.
	env := []string{
		"AUTOEND_PORT=banana",
		"AUTOEND_STATSD_PORT=mango",
	}
	_, err := newTestResolver(env, nil).Resolve("")

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("want ValidationError, got %T: %v", err, err)
	}
	if valErr.Key != "port" && valErr.Key != "statsd_port" {
		t.Errorf("ValidationError key = %q, want one of the failed fields", valErr.Key)
	}
}

func TestResolve_EmptyHostFailsValidation(t *testing.T) {
	path := writeSettingsFile(t, `host: ""`)

	_, err := newTestResolver(nil, nil).Resolve(path)
	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("want ValidationError, got %T: %v", err, err)
	}
	if valErr.Key != "host" {
		t.Errorf("ValidationError key = %q, want host", valErr.Key)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	path := writeSettingsFile(t, "port: 9000\n")
	env := []string{"AUTOEND_DEBUG=true"}

	first, err := newTestResolver(env, nil).Resolve(path)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := newTestResolver(env, nil).Resolve(path)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolutions differ:\n first  %+v\n second %+v", *first, *second)
	}
}

func TestEnvVarName(t *testing.T) {
	if got := EnvVarName("database_url"); got != "AUTOEND_DATABASE_URL" {
		t.Fatalf("EnvVarName = %q", got)
	}
}
