package core

import (
	"os"
	"os/user"

	"rehearse/core/script"
)

func registerBuiltins(r *Registry) {
	r.Register("import", doImport)
	r.Register("from", doFrom)
	r.Register("cd", doCd)
	r.Register("unset", doUnset)
	r.Register("exit", doExit)
	r.Register(".", doSource)
	r.Register("source", doSource)
}

// doImport loads a provider module, which binds all of its handlers.
func doImport(ctx *Script, line *script.ScriptLine) error {
	if len(line.Args) != 2 {
		return &SyntaxError{Usage: `"import <module>"`}
	}

	mod, ok := LookupModule(line.Args[1])
	if !ok {
		return &ImportError{Module: line.Args[1]}
	}

	mod.RegisterAll(ctx.Registry)
	return nil
}

// doFrom binds a single handler out of a provider module, under an explicit
// alias if given and a derived name otherwise.
func doFrom(ctx *Script, line *script.ScriptLine) error {
	args := line.Args
	if (len(args) != 4 && len(args) != 6) || args[2] != "import" ||
		(len(args) == 6 && args[4] != "as") {
		return &SyntaxError{Usage: `"from <module> import <name> [as <alias>]"`}
	}

	modName, name := args[1], args[3]

	mod, ok := LookupModule(modName)
	if !ok {
		return &ImportError{Module: modName, Name: name}
	}
	handler, ok := mod.Lookup(name)
	if !ok {
		return &ImportError{Module: modName, Name: name}
	}

	alias := DerivedName(name)
	if len(args) == 6 {
		alias = args[5]
	}
	ctx.Registry.Register(alias, handler)
	return nil
}

// doCd changes the working directory, defaulting to HOME and then the
// invoking user's registered home directory.
func doCd(ctx *Script, line *script.ScriptLine) error {
	var dir string
	switch {
	case len(line.Args) > 1:
		dir = line.Args[1]
	default:
		dir = os.Getenv("HOME")
		if dir == "" {
			u, err := user.Current()
			if err != nil {
				return err
			}
			dir = u.HomeDir
		}
	}

	return os.Chdir(dir)
}

// doUnset removes each named variable from the environment; absent names
// are ignored.
func doUnset(ctx *Script, line *script.ScriptLine) error {
	for _, name := range line.Args[1:] {
		if _, ok := os.LookupEnv(name); ok {
			if err := os.Unsetenv(name); err != nil {
				return err
			}
		}
	}
	return nil
}

// doExit ends the run after the current line.
func doExit(ctx *Script, line *script.ScriptLine) error {
	ctx.Exit()
	return nil
}

// doSource pushes the named file as the new top input source.
func doSource(ctx *Script, line *script.ScriptLine) error {
	if len(line.Args) != 2 {
		return &SyntaxError{Usage: `". <file>"`}
	}

	return ctx.PushFile(line.Args[1])
}
