package planner

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPayload   = errors.New("payload is empty")
	ErrMissingField   = errors.New("required field missing")
	ErrInvalidField   = errors.New("field is invalid")
	ErrTimeOverlap    = errors.New("schedule times overlap")
	ErrDuplicateLink  = errors.New("category already linked to another habit goal")
	ErrDuplicateColor = errors.New("hex color already used by another category")
	ErrCategoryInUse  = errors.New("category is referenced by schedules or habit goals")
	ErrGoalInUse      = errors.New("habit goal has habit logs")
	ErrNotOwned       = errors.New("record does not belong to user")
	ErrNoCategories   = errors.New("no activity categories registered")
)

// FieldError pins a rule failure to a payload item and field.
type FieldError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	if e.Index >= 0 {
		return fmt.Sprintf("item %d: %s: %s", e.Index, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return e.Err }

func missing(index int, field string) error {
	return &FieldError{Index: index, Field: field, Reason: "is required", Err: ErrMissingField}
}

func invalid(index int, field, reason string) error {
	return &FieldError{Index: index, Field: field, Reason: reason, Err: ErrInvalidField}
}
