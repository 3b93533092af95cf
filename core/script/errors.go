package script

import "fmt"

// MalformedTemplateError reports a bad substitution placeholder, such as a
// bare "$" or an unterminated "${NAME".
type MalformedTemplateError struct {
	Text string
}

func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("malformed variable placeholder in %q", e.Text)
}

// TokenizeError reports unbalanced quoting during shell tokenization.
type TokenizeError struct {
	Text string
	Err  error
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("can't tokenize %q: %v", e.Text, e.Err)
}

func (e *TokenizeError) Unwrap() error {
	return e.Err
}
