// internal/settings/settings.go
//
// Typed runtime settings for the endpoint service.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/settings/resolver.go` builds from three overlay layers:
//
//   • compiled-in defaults                     – lowest precedence,
//   • optional settings file (YAML)            – operator-supplied path,
//   • `autoend_`-prefixed environment overrides – highest precedence.
//
// Every field carries a default, so a Settings value is fully populated
// even when no file and no environment overrides exist.  The value is
// built exactly once at startup and shared read-only afterwards; nothing
// mutates it and nothing reloads it.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`—Koanf ignores `yaml` tags unless
//     configured otherwise.
//   • Optional fields are pointers; nil means "engine default" for the
//     pool size and "metrics disabled" for the statsd host.

package settings

import "strings"

// EnvPrefix guards which environment variables are considered for
// overrides.  Matching is case-insensitive; the canonical operator-facing
// form is fully uppercased (AUTOEND_DATABASE_URL).
const EnvPrefix = "autoend_"

const defaultPort = 8000

// Settings is the immutable aggregate returned by Resolve and handed to
// the rest of the process for its whole lifetime.
type Settings struct {
	Debug bool   `koanf:"debug"`
	Port  uint16 `koanf:"port"`
	Host  string `koanf:"host" validate:"required"`

	DatabaseURL         string  `koanf:"database_url" validate:"required"`
	DatabasePoolMaxSize *uint32 `koanf:"database_pool_max_size"`
	// DatabaseUseTestTransactions is honored only by the database test
	// helpers; production pools ignore it.
	DatabaseUseTestTransactions bool `koanf:"database_use_test_transactions"`

	HumanLogs bool `koanf:"human_logs"`

	StatsdHost  *string `koanf:"statsd_host"`
	StatsdPort  uint16  `koanf:"statsd_port"`
	StatsdLabel string  `koanf:"statsd_label" validate:"required"`
}

// Default returns the compiled-in base layer.
func Default() Settings {
	return Settings{
		Debug:       false,
		Port:        defaultPort,
		Host:        "127.0.0.1",
		DatabaseURL: "mysql://root@127.0.0.1/autopush",
		HumanLogs:   false,
		StatsdPort:  8125,
		StatsdLabel: "autoendpoint",
	}
}

// EnvVarName maps a settings key to the environment variable that sets it,
// e.g. "database_url" → "AUTOEND_DATABASE_URL".
func EnvVarName(key string) string {
	return strings.ToUpper(EnvPrefix + key)
}
