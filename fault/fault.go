package fault

import "fmt"

type faultCode string

const (
	UnknownCode  faultCode = "unknown"
	NotFoundCode faultCode = "not_found"
	BadInputCode faultCode = "bad_input"

	// Lexical codes. Every one of them is terminal for the scan that produced it.
	InvalidCharacterCode  faultCode = "invalid_character"
	MalformedOperatorCode faultCode = "malformed_operator"
	NumberOverflowCode    faultCode = "number_overflow"
	InvalidEncodingCode   faultCode = "invalid_encoding"
)

// IsLexical reports whether the code was produced by the scanner.
func (c faultCode) IsLexical() bool {
	switch c {
	case InvalidCharacterCode, MalformedOperatorCode, NumberOverflowCode, InvalidEncodingCode:
		return true
	}
	return false
}

type FieldErrorsMetadata map[string][]string

// PositionMetadata locates the input fragment that caused a lexical fault.
type PositionMetadata struct {
	Fragment string `json:"fragment"`
	Offset   int    `json:"offset"`
}

type Fault struct {
	code     faultCode
	message  string
	metadata any
	original error
}

func New(code faultCode, message string) Fault {
	return Fault{
		code:    code,
		message: message,
	}
}

func (f Fault) WithMetadata(metadata any) Fault {
	e := f
	e.metadata = metadata
	return e
}

func (f Fault) WithOriginal(original error) Fault {
	e := f
	e.original = original
	return e
}

func (f Fault) Code() faultCode {
	return f.code
}

func (f Fault) Message() string {
	return f.message
}

func (f Fault) Metadata() any {
	return f.metadata
}

// Position returns the position metadata of a lexical fault.
func (f Fault) Position() (PositionMetadata, bool) {
	p, ok := f.metadata.(PositionMetadata)
	return p, ok
}

func (f Fault) Original() error {
	return f.original
}

func (f Fault) Unwrap() error {
	return f.original
}

func (f Fault) Error() string {
	if f.original != nil {
		return fmt.Sprintf("%s: %v", f.message, f.original)
	}
	return f.message
}
