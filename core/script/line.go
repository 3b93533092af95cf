package script

import (
	"strings"

	"github.com/anmitsu/go-shlex"
)

// LineType identifies how the driver treats a classified line.
type LineType int

const (
	// Comment lines are skipped, though visible ones are still echoed.
	Comment LineType = iota
	// Pause hands control to the interactive operator.
	Pause
	// Command dispatches through the alias registry.
	Command
	// Export merges the line's assignments into the process environment.
	Export
)

func (t LineType) String() string {
	switch t {
	case Comment:
		return "comment"
	case Pause:
		return "pause"
	case Command:
		return "command"
	case Export:
		return "export"
	default:
		return "unknown"
	}
}

// ScriptLine is one classified line of script input. It is built once by
// Classify and never modified afterwards.
type ScriptLine struct {
	// Origin is the file the line came from, or a sentinel such as
	// "<stdin>" for interactive input.
	Origin string
	// Number is the 1-based line number within Origin.
	Number int
	// Raw is the trimmed display text, echoed and written to transcripts.
	Raw string
	// Type tags how the line executes.
	Type LineType
	// Output reports whether the line is echoed before executing.
	Output bool
	// Vars holds the line's substituted assignments. Nil for Comment and
	// Pause lines.
	Vars map[string]string
	// Args holds the substituted positional tokens; Args[0] is the command
	// name. Nil for Comment, Pause and assignment-only Export lines.
	Args []string
}

// Classify turns one raw input line into a ScriptLine. The substitution
// scope is seeded from env; assignments earlier in the line are visible to
// later tokens of the same line but never leak back into env. Fails with
// TokenizeError on unbalanced quoting and MalformedTemplateError on a bad
// placeholder.
func Classify(origin string, number int, raw string, env *Scope) (*ScriptLine, error) {
	text := strings.TrimSpace(raw)
	sl := &ScriptLine{
		Origin: origin,
		Number: number,
		Output: true,
	}

	// A leading "!" suppresses echo of the line it prefixes. It is checked
	// before comment and pause detection and is not part of the text.
	stripped := false
	if strings.HasPrefix(text, "!") {
		sl.Output = false
		text = text[1:]
		stripped = true
	}
	sl.Raw = text

	switch {
	case number == 1 && strings.HasPrefix(text, "#!"):
		// Shebang, fully silent.
		sl.Type = Comment
		sl.Output = false
		return sl, nil

	case strings.HasPrefix(text, "##"):
		// Invisible comment.
		sl.Type = Comment
		sl.Output = false
		return sl, nil

	case strings.HasPrefix(text, "#"):
		sl.Type = Comment
		sl.Output = true
		// A suppressed ordinary comment keeps its marker so it survives
		// re-serialization as a suppressed comment.
		if stripped {
			sl.Raw = "!" + text
		}
		return sl, nil

	case text == "":
		sl.Type = Pause
		sl.Output = false
		return sl, nil
	}

	sl.Type = Command

	tokens, err := shlex.Split(text, true)
	if err != nil {
		return nil, &TokenizeError{Text: text, Err: err}
	}

	if len(tokens) > 0 && tokens[0] == "pause" {
		sl.Type = Pause
		sl.Output = false
		sl.Raw = ""
		return sl, nil
	}

	if len(tokens) > 0 && tokens[0] == "export" {
		sl.Type = Export
		tokens = tokens[1:]
	}

	// Consume leading NAME=VALUE assignments. Export lines additionally
	// swallow stray non-assignment tokens.
	scope := env.Clone()
	sl.Vars = make(map[string]string)
	for len(tokens) > 0 && (strings.Contains(tokens[0], "=") || sl.Type == Export) {
		tok := tokens[0]
		tokens = tokens[1:]

		eq := strings.Index(tok, "=")
		if eq < 0 {
			continue
		}

		name := tok[:eq]
		value, err := Substitute(tok[eq+1:], scope)
		if err != nil {
			return nil, err
		}
		scope.Set(name, value)
		sl.Vars[name] = value
	}

	// A line of nothing but assignments is an environment update, not a
	// command invocation.
	if len(tokens) == 0 {
		sl.Type = Export
		return sl, nil
	}

	for _, tok := range tokens {
		arg, err := Substitute(tok, scope)
		if err != nil {
			return nil, err
		}
		sl.Args = append(sl.Args, arg)
	}

	return sl, nil
}
