package script

import (
	"os/user"
	"path/filepath"
	"strings"
)

// Substitute replaces every $NAME and ${NAME} placeholder in text with its
// value from scope, then expands a leading "~" to the invoking user's home
// directory. "$$" produces a literal "$". Unset names substitute as the
// empty string; a malformed placeholder fails with MalformedTemplateError.
//
// Substitute has no side effects. Callers that process the tokens of a line
// must invoke it left-to-right so assignments earlier in the line are
// visible to later tokens.
func Substitute(text string, scope *Scope) (string, error) {
	var b strings.Builder

	for i := 0; i < len(text); {
		c := text[i]
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}

		if i+1 >= len(text) {
			return "", &MalformedTemplateError{Text: text}
		}

		switch next := text[i+1]; {
		case next == '$':
			b.WriteByte('$')
			i += 2

		case next == '{':
			end := strings.IndexByte(text[i+2:], '}')
			if end < 0 {
				return "", &MalformedTemplateError{Text: text}
			}
			name := text[i+2 : i+2+end]
			if !validName(name) {
				return "", &MalformedTemplateError{Text: text}
			}
			b.WriteString(scope.Get(name))
			i += 2 + end + 1

		case isNameStart(next):
			j := i + 1
			for j < len(text) && isNameByte(text[j]) {
				j++
			}
			b.WriteString(scope.Get(text[i+1 : j]))
			i = j

		default:
			return "", &MalformedTemplateError{Text: text}
		}
	}

	return expandHome(b.String(), scope), nil
}

// expandHome rewrites a leading "~" to the invoking user's home directory,
// preferring HOME from the scope and falling back to the user database.
func expandHome(text string, scope *Scope) string {
	if !strings.HasPrefix(text, "~") {
		return text
	}

	home := scope.Get("HOME")
	if home == "" {
		u, err := user.Current()
		if err != nil {
			return text
		}
		home = u.HomeDir
	}

	rest := text[1:]
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest)
}

func isNameStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameByte(c byte) bool {
	return isNameStart(c) || ('0' <= c && c <= '9')
}

func validName(name string) bool {
	if name == "" || !isNameStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isNameByte(name[i]) {
			return false
		}
	}
	return true
}
