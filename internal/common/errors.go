// Package common defines the failure taxonomy shared by the server layers.
// Services return values that match one of the sentinel kinds below via
// errors.Is; transports translate the kind into a status code.
package common

import "errors"

var (
	// ErrValidation reports missing or malformed client input.
	ErrValidation = errors.New("validation failure")
	// ErrConflict reports a duplicate resource.
	ErrConflict = errors.New("conflict")
	// ErrNotFound reports that no matching record exists.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized reports bad credentials or a missing/invalid token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInternal reports an unexpected server-side fault.
	ErrInternal = errors.New("internal error")
)

// InternalMessage is shown to clients instead of the cause of an ErrInternal.
const InternalMessage = "Something went wrong, try again later"

var kinds = []error{ErrValidation, ErrConflict, ErrNotFound, ErrUnauthorized, ErrInternal}

// Failure is a classified error. Msg is safe to show to a client, Err keeps
// the underlying cause (if any) for logging and errors.Is/As.
type Failure struct {
	Kind error
	Msg  string
	Err  error
}

// NewFailure returns a Failure of the given kind without an underlying cause.
func NewFailure(kind error, msg string) *Failure {
	return &Failure{Kind: kind, Msg: msg}
}

// Wrap returns a Failure of the given kind that wraps err.
func Wrap(kind error, msg string, err error) *Failure {
	return &Failure{Kind: kind, Msg: msg, Err: err}
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Msg + ": " + f.Err.Error()
	}
	return f.Msg
}

// Is reports whether target is the failure's kind.
func (f *Failure) Is(target error) bool {
	return target == f.Kind
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// KindOf returns the sentinel kind err belongs to. Anything unclassified is
// ErrInternal.
func KindOf(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrInternal
}

// Message returns the client-facing message for err.
func Message(err error) string {
	if KindOf(err) == ErrInternal {
		return InternalMessage
	}

	var f *Failure
	if errors.As(err, &f) && f.Msg != "" {
		return f.Msg
	}
	return err.Error()
}
