package errs

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// PublicError carries a message that is safe to return to API clients. The wrapped error keeps
// its kind, so handlers can still map it (e.g. NotFound to 404).
type PublicError struct {
	err     error
	message string
}

func (p PublicError) Error() string {
	return p.err.Error()
}

func (p PublicError) Message() string {
	return p.message
}

func (p PublicError) Unwrap() error {
	return p.err
}

func NewPublicError(message string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.New(message), message: message}, 1)
}

// NewPublicErrorWithKind returns a public error with the given message that matches kind with errors.Is.
func NewPublicErrorWithKind(kind error, message string) error {
	return withstack.WithStackDepth(&PublicError{err: errors.Wrap(kind, message), message: message}, 1)
}

// WithPublicMessage exposes err as "<prefix>: <err>". It returns nil if err is nil.
func WithPublicMessage(err error, prefix string) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if prefix != "" {
		message = prefix + ": " + message
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: message}, 1)
}
