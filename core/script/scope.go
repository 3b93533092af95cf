package script

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Scope is the name to value mapping used to resolve substitution
// placeholders: the process environment overlaid with per-line assignments.
// Names that were never set resolve to the empty string.
type Scope struct {
	vars map[string]string
}

// NewScope creates an empty Scope.
func NewScope() *Scope {
	return &Scope{}
}

// NewScopeFromEnviron creates a Scope from a list of KEY=VALUE entries such
// as os.Environ produces. Entries without an "=" get an empty value.
func NewScopeFromEnviron(environ []string) *Scope {
	out := NewScope()

	for _, e := range environ {
		split := strings.SplitN(e, "=", 2)
		key, value := split[0], ""
		if len(split) > 1 {
			value = split[1]
		}
		out.Set(key, value)
	}

	return out
}

// EnvScope creates a Scope seeded from the current process environment.
func EnvScope() *Scope {
	return NewScopeFromEnviron(os.Environ())
}

// Set binds name to value, replacing any previous binding.
func (s *Scope) Set(name, value string) {
	if s.vars == nil {
		s.vars = make(map[string]string)
	}
	s.vars[name] = value
}

// Get returns the value bound to name, or "" if name is unset.
func (s *Scope) Get(name string) string {
	val, _ := s.Lookup(name)
	return val
}

// Lookup returns the value bound to name and whether it was set.
func (s *Scope) Lookup(name string) (string, bool) {
	val, ok := s.vars[name]
	return val, ok
}

// Clone returns an independent copy of the scope.
func (s *Scope) Clone() *Scope {
	out := NewScope()
	for k, v := range s.vars {
		out.Set(k, v)
	}
	return out
}

// Environ returns the scope as a sorted list of KEY=VALUE entries.
func (s *Scope) Environ() []string {
	var env []string

	for k, v := range s.vars {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(env)

	return env
}
