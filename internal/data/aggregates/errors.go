package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
)

// Sentinels tag errors raised inside a write so MapError can pick the code.
var (
	ErrValidation = errors.New("aggregate validation")
	ErrInvariant  = errors.New("aggregate invariant violation")
	ErrConflict   = errors.New("aggregate conflict")
	ErrRetryable  = errors.New("aggregate retryable")
	ErrOwnership  = errors.New("aggregate ownership")
	ErrInUse      = errors.New("aggregate in use")
)

func ValidationError(msg string) error { return tag(ErrValidation, errors.New(strings.TrimSpace(msg))) }
func InvariantError(msg string) error  { return tag(ErrInvariant, errors.New(strings.TrimSpace(msg))) }
func ConflictError(msg string) error   { return tag(ErrConflict, errors.New(strings.TrimSpace(msg))) }
func RetryableError(msg string) error  { return tag(ErrRetryable, errors.New(strings.TrimSpace(msg))) }

// ValidationCause keeps err (typically a *planner.FieldError) on the chain.
func ValidationCause(err error) error { return tag(ErrValidation, err) }

// OwnershipError marks a referenced id that is missing or owned by another user.
func OwnershipError(err error) error { return tag(ErrOwnership, err) }

// InUseError marks a row slated for removal that live rows still reference.
func InUseError(err error) error { return tag(ErrInUse, err) }

func tag(sentinel, err error) error { return errors.Join(sentinel, err) }

var sentinelCodes = []struct {
	err  error
	code domainagg.ErrorCode
}{
	{ErrValidation, domainagg.CodeValidation},
	{ErrInvariant, domainagg.CodeInvariantViolation},
	{ErrOwnership, domainagg.CodeForbidden},
	{ErrInUse, domainagg.CodeInUse},
	{ErrConflict, domainagg.CodeConflict},
	{ErrRetryable, domainagg.CodeRetryable},
	{gorm.ErrRecordNotFound, domainagg.CodeNotFound},
	{context.Canceled, domainagg.CodeRetryable},
	{context.DeadlineExceeded, domainagg.CodeRetryable},
}

// SQLSTATE classes postgres reports for constraint and concurrency failures.
var pgCodes = map[string]domainagg.ErrorCode{
	"23505": domainagg.CodeConflict,           // unique_violation
	"23503": domainagg.CodePreconditionFailed, // foreign_key_violation
	"40001": domainagg.CodeRetryable,          // serialization_failure
	"40P01": domainagg.CodeRetryable,          // deadlock_detected
	"55P03": domainagg.CodeRetryable,          // lock_not_available
}

// sqlite reports constraint and lock failures only as text.
var driverTextCodes = []struct {
	fragment string
	code     domainagg.ErrorCode
}{
	{"unique constraint failed", domainagg.CodeConflict},
	{"duplicate key", domainagg.CodeConflict},
	{"foreign key constraint failed", domainagg.CodePreconditionFailed},
	{"database is locked", domainagg.CodeRetryable},
	{"deadlock", domainagg.CodeRetryable},
	{"serialization", domainagg.CodeRetryable},
	{"timeout", domainagg.CodeRetryable},
}

// MapError gives err an aggregate code. Errors that already carry one pass
// through; anything unrecognized becomes internal.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if domainagg.CodeOf(err) != "" {
		return err
	}
	code := classify(err)
	if tagged(err) {
		return domainagg.Wrap(code, op, err)
	}
	// Driver text names tables and columns; the client gets a fixed message.
	if rule := violatedRule(err); rule != nil {
		return domainagg.NewError(code, op, rule.Error(), errors.Join(rule, err))
	}
	return domainagg.NewError(code, op, storeMessages[code], err)
}

// Unique indexes that back a planner rule. A violation surfaces as that
// rule's error.
var ruleIndexes = []struct {
	index  string
	column string
	rule   error
}{
	{"idx_act_category_user_hex", "act_category.hex_color_code", planner.ErrDuplicateColor},
	{"idx_habit_goal_user_linked_category", "habit_goal.act_category_id", planner.ErrDuplicateLink},
}

var storeMessages = map[domainagg.ErrorCode]string{
	domainagg.CodeConflict:           "record conflicts with an existing one",
	domainagg.CodePreconditionFailed: "referenced record does not exist",
	domainagg.CodeNotFound:           "record not found",
	domainagg.CodeRetryable:          "storage temporarily unavailable",
	domainagg.CodeInternal:           "storage failure",
}

func tagged(err error) bool {
	for _, s := range []error{ErrValidation, ErrInvariant, ErrConflict, ErrRetryable, ErrOwnership, ErrInUse} {
		if errors.Is(err, s) {
			return true
		}
	}
	return false
}

func violatedRule(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		for _, r := range ruleIndexes {
			if pgErr.ConstraintName == r.index {
				return r.rule
			}
		}
		return nil
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique constraint failed") {
		return nil
	}
	for _, r := range ruleIndexes {
		if strings.Contains(msg, r.index) || strings.Contains(msg, r.column) {
			return r.rule
		}
	}
	return nil
}

func classify(err error) domainagg.ErrorCode {
	for _, s := range sentinelCodes {
		if errors.Is(err, s.err) {
			return s.code
		}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if code, ok := pgCodes[pgErr.Code]; ok {
			return code
		}
	}
	msg := strings.ToLower(err.Error())
	for _, t := range driverTextCodes {
		if strings.Contains(msg, t.fragment) {
			return t.code
		}
	}
	return domainagg.CodeInternal
}
