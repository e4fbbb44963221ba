package bmp

import "fmt"

// Kind classifies codec failures
type Kind int

const (
	// UnrecognizedFormat bad signature or unknown info header size
	UnrecognizedFormat Kind = iota + 1
	// InvalidData short read or malformed content
	InvalidData
	// UnsupportedFeature valid BMP using something this codec does not implement
	UnsupportedFeature
)

func (k Kind) String() string {
	switch k {
	case UnrecognizedFormat:
		return "unrecognized format"
	case InvalidData:
		return "invalid data"
	case UnsupportedFeature:
		return "unsupported feature"
	default:
		return "unknown error"
	}
}

var (
	// ErrUnrecognizedFormat matches any error of kind UnrecognizedFormat
	ErrUnrecognizedFormat = NewError(UnrecognizedFormat, "")
	// ErrInvalidData matches any error of kind InvalidData
	ErrInvalidData = NewError(InvalidData, "")
	// ErrUnsupportedFeature matches any error of kind UnsupportedFeature
	ErrUnsupportedFeature = NewError(UnsupportedFeature, "")
)

// Error bmp codec error convention
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// NewError creates Error from kind and message
func NewError(kind Kind, msg string) Error {
	return Error{Kind: kind, Message: msg}
}

// Error implements error
func (e Error) Error() string {
	msg := "bmp: " + e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports kind equality, so errors.Is(err, ErrInvalidData) holds for any InvalidData
func (e Error) Is(target error) bool {
	t, ok := target.(Error)
	return ok && t.Kind == e.Kind
}

// Unwrap returns the underlying cause, if any
func (e Error) Unwrap() error {
	return e.Err
}

func errorf(kind Kind, format string, args ...any) error {
	return NewError(kind, fmt.Sprintf(format, args...))
}

// shortRead is the failure for any readExact that came back with fewer bytes than asked
func shortRead(what string, got, want int) error {
	return errorf(InvalidData, "short read of %s (%d of %d bytes)", what, got, want)
}
