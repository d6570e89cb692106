// Package config loads named-automaton registries from YAML files: the
// on-disk form of the Provider a <name> reference in the syntax package
// resolves against. It follows the load/save shape of aretext's
// config.LoadRuleSet/SaveRuleSet, swapping JSON for YAML and a flat rule
// list for a map of pattern definitions.
package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lacewing-dev/automaton"
	"github.com/lacewing-dev/automaton/syntax"
)

// Entry is one named pattern in a registry file.
type Entry struct {
	Pattern string `yaml:"pattern"`
	Flags   int    `yaml:"flags"`
}

// Registry is a named-automaton definition set, loaded from or saved to a
// YAML file, and usable directly as a syntax.Provider once compiled.
type Registry struct {
	Entries map[string]Entry `yaml:"automata"`

	compiled map[string]*automaton.Automaton
}

// LoadRegistry reads and parses a registry file. It does not compile the
// patterns; call Compile (or use Provider, which compiles lazily) before
// resolving references.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return the error directly so callers can use os.IsNotExist(err).
		return nil, err
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, errors.Wrapf(err, "yaml.Unmarshal")
	}
	return &reg, nil
}

// SaveRegistry writes reg to path as YAML, creating parent directories as
// needed.
func SaveRegistry(path string, reg *Registry) error {
	data, err := yaml.Marshal(reg)
	if err != nil {
		return errors.Wrapf(err, "yaml.Marshal")
	}

	dirPath := filepath.Dir(path)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return errors.Wrapf(err, "os.MkdirAll")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "os.WriteFile")
	}
	return nil
}

// Compile eagerly compiles every entry, so a later Provider call cannot
// fail on a pattern error deep into unrelated work. An entry may reference
// another entry by name, but only one already compiled: map iteration
// order is unspecified, so a forward reference to an entry later in the
// same registry fails rather than being resolved out of order. Arrange
// registries so referenced patterns are self-contained, or split a cyclic
// or forward-referencing set across Compile calls.
func (r *Registry) Compile() error {
	r.compiled = make(map[string]*automaton.Automaton, len(r.Entries))
	for name, entry := range r.Entries {
		a, err := syntax.Compile(entry.Pattern, entry.Flags, r.Provider)
		if err != nil {
			return errors.Wrapf(err, "compiling %q", name)
		}
		r.compiled[name] = a
	}
	return nil
}

// Provider resolves name against this registry's compiled entries,
// compiling on first use if Compile has not already been called. It
// implements syntax.Provider.
func (r *Registry) Provider(name string) (*automaton.Automaton, error) {
	if r.compiled == nil {
		if err := r.Compile(); err != nil {
			return nil, err
		}
	}
	a, ok := r.compiled[name]
	if !ok {
		return nil, errors.Errorf("config: no automaton named %q in registry", name)
	}
	return a, nil
}
