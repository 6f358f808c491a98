package rule

import (
	"errors"
	"fmt"
)

// Severity is the importance classification of a rule.
type Severity string

const (
	SeverityInfo  Severity = "INFO"
	SeverityMinor Severity = "MINOR"
	SeverityMajor Severity = "MAJOR"
)

// ErrInvalidPriority is returned when a check declares a priority outside {1,2,3}.
var ErrInvalidPriority = errors.New("invalid rule priority")

// PriorityError identifies the check carrying an invalid priority.
type PriorityError struct {
	Class    string
	Priority int
}

func (e *PriorityError) Error() string {
	return fmt.Sprintf("%s: %s %d", e.Class, ErrInvalidPriority, e.Priority)
}

func (e *PriorityError) Unwrap() error {
	return ErrInvalidPriority
}

// SeverityFromPriority maps a check priority to a severity.
// There is no safe default: any value outside {1,2,3} is an error.
func SeverityFromPriority(class string, priority int) (Severity, error) {
	switch priority {
	case 1:
		return SeverityInfo, nil
	case 2:
		return SeverityMinor, nil
	case 3:
		return SeverityMajor, nil
	default:
		return "", &PriorityError{Class: class, Priority: priority}
	}
}
