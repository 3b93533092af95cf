package core

import "strings"

// Module is a linked-in provider of additional handlers, the target of the
// "import" and "from" commands. Provider packages build a Module and call
// RegisterModule from init; the interpreter core never loads code itself.
type Module struct {
	// Handlers maps handler names (conventionally "do_<alias>") to their
	// implementations.
	Handlers map[string]HandlerFunc
	// Submodules holds nested modules addressable with dotted paths in
	// "from" statements.
	Submodules map[string]*Module
}

// RegisterAll binds every handler in the module and its submodules under
// its derived alias name.
func (m *Module) RegisterAll(r *Registry) {
	for name, handler := range m.Handlers {
		r.Register(DerivedName(name), handler)
	}
	for _, sub := range m.Submodules {
		sub.RegisterAll(r)
	}
}

// Lookup resolves a dot-separated path to a handler within the module.
func (m *Module) Lookup(path string) (HandlerFunc, bool) {
	parts := strings.Split(path, ".")

	cur := m
	for _, p := range parts[:len(parts)-1] {
		cur = cur.Submodules[p]
		if cur == nil {
			return nil, false
		}
	}

	handler, ok := cur.Handlers[parts[len(parts)-1]]
	return handler, ok
}

// DerivedName turns a handler name into its registration alias by taking
// the last path segment and stripping the conventional "do_" prefix.
func DerivedName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimPrefix(name, "do_")
}

// modules holds every provider registered for the life of the process.
var modules = make(map[string]*Module)

// RegisterModule makes a provider available to the "import" and "from"
// commands, replacing any previous provider with the same name. Typically
// called from a provider package's init.
func RegisterModule(name string, m *Module) {
	modules[name] = m
}

// LookupModule returns a registered provider module.
func LookupModule(name string) (*Module, bool) {
	m, ok := modules[name]
	return m, ok
}
