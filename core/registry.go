package core

import (
	"os"
	"os/exec"

	"rehearse/core/script"
)

// HandlerFunc implements one script command. Handlers receive the running
// Script as their context and the classified line being executed.
type HandlerFunc func(ctx *Script, line *script.ScriptLine) error

// Registry maps command names to handlers, with a distinguished default
// handler for unrecognized names. Each Script owns its own Registry so
// independent interpreter instances don't interfere.
//
// The zero value is not usable; NewRegistry seeds the builtins and the
// default spawn handler.
type Registry struct {
	aliases  map[string]HandlerFunc
	fallback HandlerFunc
}

func NewRegistry() *Registry {
	r := &Registry{
		aliases:  make(map[string]HandlerFunc),
		fallback: Spawn,
	}
	registerBuiltins(r)
	return r
}

// Register binds name to handler, replacing any previous binding in place.
func (r *Registry) Register(name string, handler HandlerFunc) {
	r.aliases[name] = handler
}

// RegisterDefault replaces the fallback handler used for unbound names.
func (r *Registry) RegisterDefault(handler HandlerFunc) {
	r.fallback = handler
}

// Lookup returns the handler bound to name, falling back to the default
// handler. It never fails.
func (r *Registry) Lookup(name string) HandlerFunc {
	if handler, ok := r.aliases[name]; ok {
		return handler
	}
	return r.fallback
}

// Spawn is the default handler: it runs the line's argument list as an
// external process whose environment is the process environment overlaid
// with the line's assignments. A non-zero exit fails with
// CommandFailedError.
func Spawn(ctx *Script, line *script.ScriptLine) error {
	cmd := exec.Command(line.Args[0], line.Args[1:]...)

	env := os.Environ()
	for name, value := range line.Vars {
		env = append(env, name+"="+value)
	}
	cmd.Env = env

	cmd.Stdin = os.Stdin
	cmd.Stdout = ctx.Stdout
	cmd.Stderr = ctx.Stderr

	if err := cmd.Run(); err != nil {
		return &CommandFailedError{Args: line.Args, Err: err}
	}
	return nil
}
