package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Configuration error codes. Configuration errors are raised once at
// declaration/construction time and are fatal: the declaration must be fixed.
const (
	ErrCodeDuplicateRule         = "DUPLICATE_RULE"
	ErrCodeUnknownRule           = "UNKNOWN_RULE"
	ErrCodeNormalizerInComposite = "NORMALIZER_IN_COMPOSITE"
	ErrCodeInvalidRuleParams     = "INVALID_RULE_PARAMS"
	ErrCodeDuplicateTag          = "DUPLICATE_TAG"
	ErrCodeDuplicateAsset        = "DUPLICATE_ASSET"
	ErrCodeInvalidDeclaration    = "INVALID_DECLARATION"
	ErrCodeInvalidTier           = "INVALID_TIER"
)

// Error is the coded error used across the engine. Details carry structured
// context for the caller; Code distinguishes configuration errors from one
// another without string matching.
type Error struct {
	cause   error
	Code    string
	Message string
	Details map[string]any
}

// NewError wraps err with a code and structured details. The message defaults
// to the code when no cause is present.
func NewError(err error, code string, details map[string]any) *Error {
	msg := code
	if err != nil {
		msg = err.Error()
	}
	return &Error{cause: err, Code: code, Message: msg, Details: details}
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Code)
	if e.Message != "" && e.Message != e.Code {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Details[k])
		}
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsCode reports whether err is (or wraps) an engine Error with the given code.
func IsCode(err error, code string) bool {
	for err != nil {
		var ce *Error
		if !errors.As(err, &ce) {
			return false
		}
		if ce.Code == code {
			return true
		}
		err = ce.Unwrap()
	}
	return false
}
