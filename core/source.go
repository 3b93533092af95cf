package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"rehearse/core/script"
)

// StdinOrigin is the origin label for lines read from standard input,
// whether batch or interactive.
const StdinOrigin = "<stdin>"

// source produces a lazy, finite, ordered sequence of classified lines.
// Only the top source of the driver's stack is read from.
type source interface {
	// Next returns the next line, or io.EOF once the source is exhausted.
	// Other errors are recoverable; callers may keep pulling.
	Next() (*script.ScriptLine, error)
	// EchoEligible reports whether lines from this source may be echoed
	// before execution.
	EchoEligible() bool
	io.Closer
}

// fileSource reads a batch script line by line. Runs of blank lines are
// coalesced: a run at the start of the file yields nothing, a later run
// yields a single Pause, so blank padding never triggers repeated
// interactive fallback.
type fileSource struct {
	name    string
	closer  io.Closer
	scanner *bufio.Scanner
	lineNo  int
	inhibit bool
	failed  bool
}

func newFileSource(name string, r io.ReadCloser) *fileSource {
	return &fileSource{
		name:    name,
		closer:  r,
		scanner: bufio.NewScanner(r),
		inhibit: true,
	}
}

func (f *fileSource) Next() (*script.ScriptLine, error) {
	for f.scanner.Scan() {
		f.lineNo++

		line, err := script.Classify(f.name, f.lineNo, f.scanner.Text(), script.EnvScope())
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", f.name, f.lineNo, err)
		}

		if line.Type == script.Pause {
			if f.inhibit {
				continue
			}
			f.inhibit = true
			return line, nil
		}

		f.inhibit = false
		return line, nil
	}

	if err := f.scanner.Err(); err != nil && !f.failed {
		f.failed = true
		return nil, fmt.Errorf("%s: %w", f.name, err)
	}
	return nil, io.EOF
}

func (f *fileSource) EchoEligible() bool {
	return true
}

func (f *fileSource) Close() error {
	return f.closer.Close()
}

// lineReader is the part of readline the interactive source and the driver
// depend on.
type lineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
	SaveHistory(content string) error
}

// interactiveSource solicits lines from the operator until a blank line or
// end of input. Its lines are never echoed (the operator already saw them
// as typed) and never pause-inhibited.
type interactiveSource struct {
	reader lineReader
	prompt func() string
	lineNo int
	done   bool
}

func (s *interactiveSource) Next() (*script.ScriptLine, error) {
	if s.done {
		return nil, io.EOF
	}

	s.reader.SetPrompt(s.prompt())
	text, err := s.reader.Readline()
	if err != nil || strings.TrimSpace(text) == "" {
		s.done = true
		return nil, io.EOF
	}

	s.lineNo++
	line, err := script.Classify(StdinOrigin, s.lineNo, text, script.EnvScope())
	if err != nil {
		return nil, fmt.Errorf("%s:%d: %w", StdinOrigin, s.lineNo, err)
	}
	return line, nil
}

func (s *interactiveSource) EchoEligible() bool {
	return false
}

func (s *interactiveSource) Close() error {
	return nil
}
