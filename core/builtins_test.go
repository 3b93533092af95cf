package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rehearse/core/script"
)

func assertWd(t *testing.T, want string) {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)

	wantEval, _ := filepath.EvalSymlinks(want)
	gotEval, _ := filepath.EvalSymlinks(wd)
	assert.Equal(t, wantEval, gotEval)
}

func commandLine(args ...string) *script.ScriptLine {
	return &script.ScriptLine{
		Origin: "test.script",
		Number: 1,
		Type:   script.Command,
		Args:   args,
	}
}

func TestDoSource(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeScript(t, fsys, "inc.script", "probe from-include\n")

	s, _, _ := newTestScript(t, fsys)

	t.Run("bad arity", func(t *testing.T) {
		var synErr *SyntaxError
		err := doSource(s, commandLine("."))
		assert.True(t, errors.As(err, &synErr))

		err = doSource(s, commandLine(".", "a", "b"))
		assert.True(t, errors.As(err, &synErr))
	})

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, doSource(s, commandLine(".", "no-such.script")))
		assert.Empty(t, s.stack)
	})

	t.Run("pushes top of stack", func(t *testing.T) {
		require.NoError(t, doSource(s, commandLine(".", "inc.script")))
		require.Len(t, s.stack, 1)

		line, err := s.stack[0].Next()
		require.NoError(t, err)
		assert.Equal(t, "probe from-include", line.Raw)
	})
}

func TestDoImport(t *testing.T) {
	var called bool
	RegisterModule("importtest", &Module{
		Handlers: map[string]HandlerFunc{
			"do_probe": func(ctx *Script, line *script.ScriptLine) error {
				called = true
				return nil
			},
		},
	})

	s, _, _ := newTestScript(t, afero.NewMemMapFs())

	t.Run("bad arity", func(t *testing.T) {
		var synErr *SyntaxError
		assert.True(t, errors.As(doImport(s, commandLine("import")), &synErr))
	})

	t.Run("unknown module", func(t *testing.T) {
		var impErr *ImportError
		err := doImport(s, commandLine("import", "no-such-module"))
		assert.True(t, errors.As(err, &impErr))
	})

	t.Run("registers handlers", func(t *testing.T) {
		require.NoError(t, doImport(s, commandLine("import", "importtest")))

		// The do_ prefix is stripped on registration.
		require.NoError(t, s.Registry.Lookup("probe")(s, commandLine("probe")))
		assert.True(t, called)
	})
}

func TestDoFrom(t *testing.T) {
	var called string
	handler := func(name string) HandlerFunc {
		return func(ctx *Script, line *script.ScriptLine) error {
			called = name
			return nil
		}
	}

	RegisterModule("fromtest", &Module{
		Handlers: map[string]HandlerFunc{"do_greet": handler("greet")},
		Submodules: map[string]*Module{
			"sub": {
				Handlers: map[string]HandlerFunc{"do_shout": handler("shout")},
			},
		},
	})

	s, _, _ := newTestScript(t, afero.NewMemMapFs())

	t.Run("bad shape", func(t *testing.T) {
		var synErr *SyntaxError
		cases := [][]string{
			{"from", "fromtest"},
			{"from", "fromtest", "import"},
			{"from", "fromtest", "junk", "do_greet"},
			{"from", "fromtest", "import", "do_greet", "junk", "alias"},
		}
		for _, args := range cases {
			assert.True(t, errors.As(doFrom(s, commandLine(args...)), &synErr), args)
		}
	})

	t.Run("derived name", func(t *testing.T) {
		require.NoError(t, doFrom(s, commandLine("from", "fromtest", "import", "do_greet")))
		require.NoError(t, s.Registry.Lookup("greet")(s, commandLine("greet")))
		assert.Equal(t, "greet", called)
	})

	t.Run("dotted path with alias", func(t *testing.T) {
		require.NoError(t, doFrom(s, commandLine(
			"from", "fromtest", "import", "sub.do_shout", "as", "yell")))
		require.NoError(t, s.Registry.Lookup("yell")(s, commandLine("yell")))
		assert.Equal(t, "shout", called)
	})

	t.Run("missing handler", func(t *testing.T) {
		var impErr *ImportError
		err := doFrom(s, commandLine("from", "fromtest", "import", "do_missing"))
		assert.True(t, errors.As(err, &impErr))

		err = doFrom(s, commandLine("from", "fromtest", "import", "nosub.do_shout"))
		assert.True(t, errors.As(err, &impErr))
	})
}

func TestDoUnset(t *testing.T) {
	s, _, _ := newTestScript(t, afero.NewMemMapFs())

	require.NoError(t, os.Setenv("REHEARSE_UNSET_A", "1"))
	require.NoError(t, os.Setenv("REHEARSE_UNSET_B", "2"))
	t.Cleanup(func() {
		os.Unsetenv("REHEARSE_UNSET_A")
		os.Unsetenv("REHEARSE_UNSET_B")
	})

	err := doUnset(s, commandLine("unset", "REHEARSE_UNSET_A", "REHEARSE_UNSET_B", "REHEARSE_UNSET_ABSENT"))
	require.NoError(t, err)

	_, ok := os.LookupEnv("REHEARSE_UNSET_A")
	assert.False(t, ok)
	_, ok = os.LookupEnv("REHEARSE_UNSET_B")
	assert.False(t, ok)
}

func TestDoCd(t *testing.T) {
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	oldHome, hadHome := os.LookupEnv("HOME")
	t.Cleanup(func() {
		os.Chdir(oldWd)
		if hadHome {
			os.Setenv("HOME", oldHome)
		} else {
			os.Unsetenv("HOME")
		}
	})

	s, _, _ := newTestScript(t, afero.NewMemMapFs())

	t.Run("explicit dir", func(t *testing.T) {
		tmp := t.TempDir()
		require.NoError(t, doCd(s, commandLine("cd", tmp)))
		assertWd(t, tmp)
	})

	t.Run("defaults to HOME", func(t *testing.T) {
		tmp := t.TempDir()
		os.Setenv("HOME", tmp)
		require.NoError(t, doCd(s, commandLine("cd")))
		assertWd(t, tmp)
	})

	t.Run("missing dir", func(t *testing.T) {
		assert.Error(t, doCd(s, commandLine("cd", "/no/such/dir/rehearse")))
	})
}

func TestDoExit(t *testing.T) {
	s, _, _ := newTestScript(t, afero.NewMemMapFs())

	require.NoError(t, doExit(s, commandLine("exit")))
	assert.True(t, s.exitFlag)
}
