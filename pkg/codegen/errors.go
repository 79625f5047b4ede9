package codegen

// ErrorKind tags the reason Generate failed.
type ErrorKind string

const (
	EmptyModel      ErrorKind = "EmptyModel"
	NoInitialState  ErrorKind = "NoInitialState"
	UnsupportedTarget ErrorKind = "UnsupportedTarget"
	Template        ErrorKind = "Template"
)

// Error is the code generator's single error type: a stable Kind plus
// message, never a panic, matching the evaluator's eval.Error shape.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}
