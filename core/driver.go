package core

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/spf13/afero"
	"golang.org/x/term"

	"rehearse/core/script"
)

// DefaultPrompt shows the next recall-history index.
const DefaultPrompt = `[\!]> `

// Options configures a Script run.
type Options struct {
	// Files are the batch inputs, first-named played first. "-" reads
	// standard input as a batch source.
	Files []string
	// Output names the transcript file; empty disables the transcript.
	Output string
	// Prompt is the prompt template; \! expands to the next recall-history
	// index and \w to the working directory.
	Prompt string
	// Debug enables full failure detail on diagnostic output.
	Debug bool
}

// Script drives execution: it owns the input source stack, the alias
// registry, the transcript and the interactive reader.
type Script struct {
	Registry *Registry
	Stdout   io.Writer
	Stderr   io.Writer

	fs         afero.Fs
	stack      []source
	transcript afero.File
	reader     lineReader
	readerC    io.Closer
	prompt     string
	debug      bool

	history     int
	exitFlag    bool
	recentPause bool
	triedFinal  bool
}

// NewScript builds a Script from opts. Failure to open the transcript or
// any initially named file is a startup failure.
func NewScript(opts Options) (*Script, error) {
	s := &Script{
		Registry: NewRegistry(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		fs:       afero.NewOsFs(),
		prompt:   opts.Prompt,
		debug:    opts.Debug,
	}
	if s.prompt == "" {
		s.prompt = DefaultPrompt
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt: s.prompt,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		FuncIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	})
	if err != nil {
		return nil, err
	}
	s.reader = rl
	s.readerC = rl

	if opts.Output != "" {
		transcript, err := s.fs.Create(opts.Output)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.transcript = transcript
	}

	// Push in reverse so the first-named file is on top.
	for i := len(opts.Files) - 1; i >= 0; i-- {
		if err := s.PushFile(opts.Files[i]); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

// PushFile pushes the named file as the new top input source. "-" pushes
// standard input.
func (s *Script) PushFile(name string) error {
	if name == "-" {
		s.push(newFileSource(StdinOrigin, io.NopCloser(os.Stdin)))
		return nil
	}

	file, err := s.fs.Open(name)
	if err != nil {
		return err
	}
	s.push(newFileSource(name, file))
	return nil
}

// Exit ends the run after the current line.
func (s *Script) Exit() {
	s.exitFlag = true
}

// Prompt renders the prompt template against the current recall-history
// depth and working directory.
func (s *Script) Prompt() string {
	prompt := strings.ReplaceAll(s.prompt, `\!`, strconv.Itoa(s.history+1))
	if strings.Contains(prompt, `\w`) {
		wd, err := os.Getwd()
		if err != nil {
			wd = "?"
		}
		prompt = strings.ReplaceAll(prompt, `\w`, wd)
	}
	return prompt
}

// Run replays every input source to exhaustion. When the last source runs
// out, one final implicit pause hands control to the operator before the
// run ends; an explicit exit skips it. Per-line failures are reported and
// do not stop the run.
func (s *Script) Run() error {
	defer s.Close()

	for {
		src, line, ok := s.next()
		if !ok {
			if s.triedFinal || s.reader == nil {
				return nil
			}
			s.triedFinal = true
			s.pushInteractive()
			continue
		}
		if line == nil {
			// A recoverable source error was already reported.
			continue
		}

		s.step(src, line)
		if s.exitFlag {
			return nil
		}
	}
}

// next pulls the next line from the top source, popping exhausted sources.
// ok is false when the stack is empty. A nil line with ok set means the top
// source failed recoverably.
func (s *Script) next() (src source, line *script.ScriptLine, ok bool) {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]

		line, err := top.Next()
		switch {
		case err == io.EOF:
			if cerr := top.Close(); cerr != nil {
				s.reportf("%v", cerr)
			}
			s.stack = s.stack[:len(s.stack)-1]

		case err != nil:
			s.reportf("%v", err)
			return top, nil, true

		default:
			return top, line, true
		}
	}

	return nil, nil, false
}

// step runs one line through transcript, echo, history and dispatch.
func (s *Script) step(src source, line *script.ScriptLine) {
	if s.transcript != nil && !isSourceLine(line) {
		fmt.Fprintln(s.transcript, line.Raw)
		if err := s.transcript.Sync(); err != nil {
			s.reportf("transcript: %v", err)
		}
	}

	if src.EchoEligible() && line.Output {
		fmt.Fprintf(s.Stdout, "%s%s\n", s.Prompt(), line.Raw)
	}

	if line.Type == script.Command || line.Type == script.Export {
		s.history++
		if src.EchoEligible() && s.reader != nil {
			_ = s.reader.SaveHistory(line.Raw)
		}
	}

	switch out := s.execute(line); out.kind {
	case outcomePause:
		if !s.recentPause {
			s.recentPause = true
			s.pushInteractive()
		}

	case outcomeFailed:
		s.reportError(line, out.err)

	default:
		s.recentPause = false
	}
}

// outcome is the tagged result of executing one line; pause and exit are
// control flow, not errors.
type outcomeKind int

const (
	outcomeContinue outcomeKind = iota
	outcomePause
	outcomeExit
	outcomeFailed
)

type outcome struct {
	kind outcomeKind
	err  error
}

func (s *Script) execute(line *script.ScriptLine) outcome {
	switch line.Type {
	case script.Comment:
		return outcome{kind: outcomeContinue}

	case script.Pause:
		return outcome{kind: outcomePause}

	case script.Export:
		for name, value := range line.Vars {
			if err := os.Setenv(name, value); err != nil {
				return outcome{kind: outcomeFailed, err: err}
			}
		}
		return outcome{kind: outcomeContinue}

	default:
		handler := s.Registry.Lookup(line.Args[0])
		if err := handler(s, line); err != nil {
			return outcome{kind: outcomeFailed, err: err}
		}
		if s.exitFlag {
			return outcome{kind: outcomeExit}
		}
		return outcome{kind: outcomeContinue}
	}
}

func (s *Script) push(src source) {
	s.stack = append(s.stack, src)
}

func (s *Script) pushInteractive() {
	if s.reader == nil {
		return
	}
	s.push(&interactiveSource{reader: s.reader, prompt: s.Prompt})
}

var errorTag = color.New(color.FgRed, color.Bold)

func (s *Script) reportf(format string, args ...interface{}) {
	fmt.Fprintf(s.Stderr, "%s %s\n", errorTag.Sprint("error:"), fmt.Sprintf(format, args...))
}

func (s *Script) reportError(line *script.ScriptLine, err error) {
	s.reportf("%s:%d: %v", line.Origin, line.Number, err)
	if s.debug {
		fmt.Fprintf(s.Stderr, "  while executing %q (type %s, vars %v, args %q)\n",
			line.Raw, line.Type, line.Vars, line.Args)
	}
}

// isSourceLine reports whether line is a "."/"source" command; such lines
// are never written to the transcript.
func isSourceLine(line *script.ScriptLine) bool {
	return line.Type == script.Command && len(line.Args) > 0 &&
		(line.Args[0] == "." || line.Args[0] == "source")
}

// Close releases every open source, the transcript and the interactive
// reader. Safe to call more than once.
func (s *Script) Close() error {
	var lastErr error

	for _, src := range s.stack {
		if err := src.Close(); err != nil {
			lastErr = err
		}
	}
	s.stack = nil

	if s.transcript != nil {
		if err := s.transcript.Close(); err != nil {
			lastErr = err
		}
		s.transcript = nil
	}

	if s.readerC != nil {
		if err := s.readerC.Close(); err != nil {
			lastErr = err
		}
		s.readerC = nil
	}

	return lastErr
}
