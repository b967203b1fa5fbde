package dispatcher

import "fmt"

// Status indicates the outcome of dispatching a key event.
type Status uint8

const (
	// StatusHandled indicates the engine performed a structural action.
	StatusHandled Status = iota
	// StatusPassThrough indicates the event was deliberately left to
	// native platform behavior.
	StatusPassThrough
	// StatusNoOp indicates the engine consumed the event but nothing
	// changed (e.g. Backspace at the very start of the document).
	StatusNoOp
	// StatusError indicates a handler failed unexpectedly.
	StatusError
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHandled:
		return "handled"
	case StatusPassThrough:
		return "pass-through"
	case StatusNoOp:
		return "no-op"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result describes how a key event was resolved. PreventDefault tells
// the frontend whether to suppress the platform's native action for
// the event.
type Result struct {
	// Status indicates the result status.
	Status Status

	// PreventDefault suppresses the native action when true.
	PreventDefault bool

	// Error contains any error that occurred.
	Error error

	// Message is an optional status message for diagnostics.
	Message string
}

// IsHandled returns true if the engine acted on the event.
func (r Result) IsHandled() bool { return r.Status == StatusHandled }

// IsError returns true if the result indicates an error.
func (r Result) IsError() bool { return r.Status == StatusError }

// Handled creates a handled result that suppresses the native action.
func Handled() Result {
	return Result{Status: StatusHandled, PreventDefault: true}
}

// HandledWithMessage creates a handled result with a message.
func HandledWithMessage(msg string) Result {
	return Result{Status: StatusHandled, PreventDefault: true, Message: msg}
}

// PassThrough creates a result deferring to native behavior.
func PassThrough() Result {
	return Result{Status: StatusPassThrough}
}

// NoOp creates a consumed-but-unchanged result. The native action is
// still suppressed: the engine decided nothing should happen.
func NoOp() Result {
	return Result{Status: StatusNoOp, PreventDefault: true}
}

// Errorf creates an error result with a formatted message.
func Errorf(format string, args ...any) Result {
	return Result{
		Status:         StatusError,
		PreventDefault: true,
		Error:          fmt.Errorf(format, args...),
	}
}
