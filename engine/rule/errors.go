package rule

import (
	"fmt"
)

// ValidationError is the runtime failure produced when a value is rejected by
// a Normalizer or Validator. It carries the failing rule's name, the rendered
// message, and the offending value.
type ValidationError struct {
	Rule    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (value=%v)", e.Rule, e.Message, e.Value)
}

// Failf builds a ValidationError for the given rule with a formatted message.
func Failf(rule string, value any, format string, args ...any) *ValidationError {
	return &ValidationError{
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
		Value:   value,
	}
}
