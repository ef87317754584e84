package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ActCategoryAggregate owns category reconciliation.
//
// Failures carry CodeValidation, CodeForbidden, CodeInUse, CodeConflict or CodeInternal.
type ActCategoryAggregate interface {
	Aggregate

	// Reconcile makes the user's persisted categories match Items exactly.
	Reconcile(ctx context.Context, in ReconcileActCategoriesInput) (ReconcileResult, error)
}

type ScheduleAggregate interface {
	Aggregate

	// Reconcile replaces the schedules of one day with Items.
	Reconcile(ctx context.Context, in ReconcileSchedulesInput) (ReconcileResult, error)
}

type HabitGoalAggregate interface {
	Aggregate

	Reconcile(ctx context.Context, in ReconcileHabitGoalsInput) (ReconcileResult, error)

	// AppendLog records one execution of a goal owned by the user.
	AppendLog(ctx context.Context, in AppendHabitLogInput) (AppendHabitLogResult, error)
}

// ReconcileResult lists affected ids per step, in the order they were applied.
type ReconcileResult struct {
	Deleted  []uuid.UUID
	Updated  []uuid.UUID
	Inserted []uuid.UUID
}

type ReconcileActCategoriesInput struct {
	UserID uuid.UUID
	Items  []ActCategoryItem
}

type ActCategoryItem struct {
	ID            *uuid.UUID
	Activity      string
	ColorName     string
	HexColorCode  string
	TextColorCode string
}

type ReconcileSchedulesInput struct {
	UserID     uuid.UUID
	TargetDate time.Time
	Items      []ScheduleItem
}

type ScheduleItem struct {
	ID            *uuid.UUID
	StartTime     string
	EndTime       string
	ActCategoryID *uuid.UUID
}

type ReconcileHabitGoalsInput struct {
	UserID uuid.UUID
	Items  []HabitGoalItem
}

// HabitGoalItem carries IsLinked and ActCategoryID only for inserts; on
// updates the persisted linkage is kept.
type HabitGoalItem struct {
	ID              *uuid.UUID
	IsLinked        *bool
	ActCategoryID   *uuid.UUID
	ColorName       *string
	HexColorCode    *string
	Title           *string
	Detail          string
	DurationMinutes *int
}

type AppendHabitLogInput struct {
	UserID        uuid.UUID
	HabitGoalID   uuid.UUID
	LogTime       time.Time
	IsAchieved    bool
	ExecutionTime int
}

type AppendHabitLogResult struct {
	HabitLogID uuid.UUID
}
