package triage

import "errors"

// terminalError marks a failure that retrying cannot fix. It aborts the
// whole run; later steps never execute.
type terminalError struct {
	err error
}

func (e *terminalError) Error() string {
	return "terminal: " + e.err.Error()
}

func (e *terminalError) Unwrap() error {
	return e.err
}

// Terminal wraps err as a non-retriable step failure.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &terminalError{err: err}
}

// IsTerminal reports whether err was marked terminal. Anything else is
// treated as retriable within the step's budget.
func IsTerminal(err error) bool {
	var t *terminalError
	return errors.As(err, &t)
}
