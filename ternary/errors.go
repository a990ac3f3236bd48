// Package ternary implements balanced-ternary arithmetic: trits, packed
// trytes, fixed-width N-tryte signed integers, and the text codec used to
// move Unicode scalars through ternary memory.
package ternary

import "fmt"

// Kind names one of the error conditions the ternary layer can raise. All
// of them abort the operation that triggered them; none are retried or
// absorbed internally.
type Kind int

const (
	// InvalidBitPattern is raised when a 2-bit trit field holds the
	// reserved 0b10 pattern.
	InvalidBitPattern Kind = iota
	// InvalidCharacter is raised for an unrecognized trit/hyte character,
	// or a Unicode scalar the text codec cannot encode.
	InvalidCharacter
	// InvalidDataLength is raised when a string's length does not match
	// the trit/hyte count required by the target type.
	InvalidDataLength
	// InvalidEncoding is raised for malformed multi-tryte text or
	// non-zero instruction padding where zero is required.
	InvalidEncoding
	// IntegerOutOfBounds is raised when a host integer falls outside the
	// representable range of the target ternary type.
	IntegerOutOfBounds
	// InvalidString is raised when a trit/hyte string contains no
	// recognizable digits at all, distinct from a length mismatch.
	InvalidString
)

var kindNames = [...]string{
	InvalidBitPattern:  "InvalidBitPattern",
	InvalidCharacter:   "InvalidCharacter",
	InvalidDataLength:  "InvalidDataLength",
	InvalidEncoding:    "InvalidEncoding",
	IntegerOutOfBounds: "IntegerOutOfBounds",
	InvalidString:      "InvalidString",
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) {
		return "UnknownKind"
	}
	return kindNames[k]
}

// Error is the error type returned by every ternary decoding/conversion
// operation. It carries a stable Kind so callers can branch on the failure
// class with errors.As, and a human-readable message for logs.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// newError builds an *Error with a formatted message.
func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
