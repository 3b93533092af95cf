package script

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstituteIdentity(t *testing.T) {
	scope := NewScope()
	scope.Set("NAME", "should not appear")

	cases := []string{
		"",
		"plain text",
		"--flag=value",
		"a=b c=d",
		"middle ~ tilde stays",
		"/absolute/path",
	}

	for _, tc := range cases {
		t.Run(tc, func(t *testing.T) {
			got, err := Substitute(tc, scope)
			require.NoError(t, err)
			assert.Equal(t, tc, got)
		})
	}
}

func TestSubstitute(t *testing.T) {
	scope := NewScope()
	scope.Set("GREETING", "hello")
	scope.Set("WHO", "world")
	scope.Set("_under", "ok")

	cases := []struct {
		text     string
		expected string
	}{
		{"$GREETING", "hello"},
		{"${GREETING}", "hello"},
		{"$GREETING, $WHO", "hello, world"},
		{"${GREETING}s", "hellos"},
		{"$GREETINGs", ""}, // GREETINGs is unset
		{"$MISSING", ""},
		{"a${MISSING}b", "ab"},
		{"$$GREETING", "$GREETING"},
		{"cost: $$5", "cost: $5"},
		{"$_under", "ok"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got, err := Substitute(tc.text, scope)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSubstituteMalformed(t *testing.T) {
	cases := []string{
		"$",
		"trailing $",
		"$ leading space",
		"$1digit",
		"${unterminated",
		"${}",
		"${bad name}",
		"${1digit}",
	}

	for _, tc := range cases {
		t.Run(tc, func(t *testing.T) {
			_, err := Substitute(tc, NewScope())
			require.Error(t, err)

			var malformed *MalformedTemplateError
			assert.True(t, errors.As(err, &malformed))
		})
	}
}

func TestSubstituteTilde(t *testing.T) {
	scope := NewScope()
	scope.Set("HOME", "/home/demo")
	scope.Set("DIR", "~/projects")

	cases := []struct {
		text     string
		expected string
	}{
		{"~", "/home/demo"},
		{"~/scripts", "/home/demo/scripts"},
		{"~scripts", "/home/demo/scripts"},
		{"not/a/~", "not/a/~"},
		// Expansion happens after substitution.
		{"$DIR", "/home/demo/projects"},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got, err := Substitute(tc.text, scope)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
