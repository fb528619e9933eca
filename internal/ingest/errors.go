package ingest

import (
	"errors"
	"fmt"
	"strings"
)

const (
	CodeInvalidInput      = "E_INVALID_INPUT"
	CodeExtractFailed     = "E_EXTRACT_FAILED"
	CodeEntryNotFound     = "E_ENTRY_NOT_FOUND"
	CodeAmbiguousEntry    = "E_AMBIGUOUS_ENTRY"
	CodeUnsupportedFormat = "E_UNSUPPORTED_FORMAT"
	CodeParseFailed       = "E_PARSE_FAILED"
	CodeReadFailed        = "E_READ_FAILED"
)

// Error wraps ingestion failures with a stable code. Candidates carries the
// supported archive entries involved in selection failures.
type Error struct {
	Code       string
	Candidates []string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Code
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if len(e.Candidates) > 0 {
		msg = fmt.Sprintf("%s (candidates: %s)", msg, strings.Join(e.Candidates, ", "))
	}
	return msg
}

func (e *Error) Unwrap() error     { return e.Err }
func (e *Error) CodeValue() string { return e.Code }

func wrapError(code string, err error) *Error {
	return &Error{Code: code, Err: err}
}

func selectionError(code string, candidates []string, err error) *Error {
	return &Error{Code: code, Candidates: candidates, Err: err}
}

// IsCode reports whether err carries the given ingestion error code.
func IsCode(err error, code string) bool {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Code == code
	}
	return false
}

// CandidatesOf returns the candidate entry names attached to a selection
// failure, or nil.
func CandidatesOf(err error) []string {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Candidates
	}
	return nil
}
