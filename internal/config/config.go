// Package config holds the runtime-tunable settings for the interpreter,
// loaded from environment variables.
package config

import "github.com/caarlos0/env/v6"

// Config holds settings read from the process environment, all under the
// LOX_ prefix.
type Config struct {
	// MaxCallDepth limits nested Lox function call depth before the
	// interpreter reports "Stack overflow." instead of exhausting the host
	// Go stack.
	MaxCallDepth int `env:"MAX_CALL_DEPTH" envDefault:"255"`

	// NoColor disables ANSI styling of REPL diagnostics, for dumb terminals
	// and non-interactive pipes.
	NoColor bool `env:"NO_COLOR" envDefault:"false"`

	// LogFile is the path structured log lines (one per diagnostic, plus
	// phase bookkeeping) are appended to. Empty means mirror them to stderr
	// alongside the human-readable diagnostics.
	LogFile string `env:"LOG_FILE" envDefault:""`
}

// Load reads a Config from the environment, applying defaults for anything
// unset.
func Load() (Config, error) {
	var c Config
	if err := env.Parse(&c, env.Options{Prefix: "LOX_"}); err != nil {
		return Config{}, err
	}
	return c, nil
}
