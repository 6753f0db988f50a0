package p10

import (
	"errors"
	"fmt"

	"github.com/codeninja55/dcmstream/dicom/dspath"
)

// Sentinel errors for the P10 taxonomy. DataRequired is the one
// non-fatal condition: it signals the caller to push more bytes and
// retry rather than abandon the read.
var (
	// ErrTransferSyntaxNotSupported indicates the Transfer Syntax UID in
	// File Meta Information has no known codec mapping.
	ErrTransferSyntaxNotSupported = errors.New("p10: transfer syntax not supported")

	// ErrSpecificCharacterSetInvalid indicates (0008,0005) names an
	// unrecognized or unsupported character set.
	ErrSpecificCharacterSetInvalid = errors.New("p10: specific character set invalid")

	// ErrDataRequired indicates the underlying byte stream needs more
	// input before the engine can produce the next token.
	ErrDataRequired = errors.New("p10: data required")

	// ErrDataEndedUnexpectedly indicates the stream was marked done before
	// a structurally complete token sequence could be produced.
	ErrDataEndedUnexpectedly = errors.New("p10: data ended unexpectedly")

	// ErrDicmPrefixNotPresent indicates a missing "DICM" prefix when the
	// read config requires one.
	ErrDicmPrefixNotPresent = errors.New("p10: DICM prefix not present")

	// ErrDataInvalid indicates a structural violation of the token stream
	// or wire encoding (e.g. an out-of-order tag, a bad delimiter).
	ErrDataInvalid = errors.New("p10: data invalid")

	// ErrMaximumExceeded indicates a configured resource limit was hit
	// (max_token_size, max_string_size, max_sequence_depth).
	ErrMaximumExceeded = errors.New("p10: maximum exceeded")

	// ErrTokenStreamInvalid indicates a token sequence handed to the write
	// engine violates the token-stream invariants.
	ErrTokenStreamInvalid = errors.New("p10: token stream invalid")

	// ErrWriteAfterCompletion indicates a write occurred after the byte
	// stream or write engine was already marked done.
	ErrWriteAfterCompletion = errors.New("p10: write after completion")

	// ErrFile wraps filesystem-level failures encountered by convenience
	// entry points (ReadFile/WriteFile style helpers).
	ErrFile = errors.New("p10: file error")
)

// ReadError decorates a P10 taxonomy sentinel with the DataSetPath and byte
// offset the read engine had reached when the failure occurred.
type ReadError struct {
	Kind   error
	Path   dspath.Path
	Offset int64
	Detail string
}

func (e *ReadError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s at %s (offset %d)", e.Kind, e.Path, e.Offset)
	}
	return fmt.Sprintf("%s at %s (offset %d): %s", e.Kind, e.Path, e.Offset, e.Detail)
}

func (e *ReadError) Unwrap() error {
	return e.Kind
}

// newReadError builds a ReadError, formatting detail with fmt.Sprintf.
func newReadError(kind error, path dspath.Path, offset int64, format string, args ...any) *ReadError {
	return &ReadError{Kind: kind, Path: path, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}
