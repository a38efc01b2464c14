package book

import "errors"

// Kind classifies a service failure so the HTTP layer can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return "internal"
	}
}

// Error is the tagged error returned by Service.
// Message is safe to show to the client; Err carries the cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func conflictError(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Message: msg, Err: err}
}

func notFoundError(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: msg, Err: err}
}

// storageError keeps the store's own text as the message, the way it is
// reported back to API clients.
func storageError(err error) *Error {
	return &Error{Kind: KindStorage, Message: err.Error(), Err: err}
}

// KindOf reports the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
