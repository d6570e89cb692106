package automaton

import "sync/atomic"

// Config carries the two process-wide toggles the original design expressed
// as global variables: whether an operation may mutate its inputs in place,
// and whether every operation that can produce a non-minimal automaton
// should minimize before returning. Both default to false.
//
// Global mutable toggles do not compose in a library meant to be called from
// concurrent or unrelated parts of a program, so this package threads a
// *Config through its operations instead of consulting package-level
// variables. The package default (see SetDefaultConfig) reproduces the old
// global behaviour for callers that pass nil.
type Config struct {
	AllowMutation  bool
	MinimizeAlways bool
}

// defaultConfig is used whenever an operation receives a nil *Config.
var defaultConfig atomic.Pointer[Config]

func init() {
	defaultConfig.Store(&Config{})
}

// SetDefaultConfig replaces the configuration used by calls that pass a nil
// *Config. It exists for callers that want the old global-toggle behaviour;
// new code should prefer passing an explicit *Config to each call.
func SetDefaultConfig(cfg Config) {
	defaultConfig.Store(&cfg)
}

func resolveConfig(cfg *Config) *Config {
	if cfg != nil {
		return cfg
	}
	return defaultConfig.Load()
}

func (cfg *Config) allowMutation() bool {
	return cfg != nil && cfg.AllowMutation
}

func (cfg *Config) minimizeAlways() bool {
	return cfg != nil && cfg.MinimizeAlways
}

// maybeMinimize runs Minimize on a when cfg.MinimizeAlways is set, otherwise
// returns a unchanged. Every basic operation that can leave behind
// non-minimal structure (union, concatenate, repeat, ...) ends by calling
// this so MinimizeAlways behaves as advertised without every call site
// re-deriving the check.
func maybeMinimize(a *Automaton, cfg *Config) *Automaton {
	cfg = resolveConfig(cfg)
	if !cfg.minimizeAlways() {
		return a
	}
	return Minimize(a, cfg)
}
