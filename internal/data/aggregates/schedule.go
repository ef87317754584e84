package aggregates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	types "github.com/yungbote/dayplanner-backend/internal/domain"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
)

type ScheduleAggregateDeps struct {
	Base BaseDeps

	Schedules  repos.ScheduleRepo
	Categories repos.ActCategoryRepo
}

type scheduleAggregate struct {
	deps ScheduleAggregateDeps
}

func NewScheduleAggregate(deps ScheduleAggregateDeps) domainagg.ScheduleAggregate {
	deps.Base = deps.Base.withDefaults()
	return &scheduleAggregate{deps: deps}
}

func (a *scheduleAggregate) Contract() domainagg.Contract {
	return domainagg.ScheduleAggregateContract
}

func (a *scheduleAggregate) Reconcile(ctx context.Context, in domainagg.ReconcileSchedulesInput) (domainagg.ReconcileResult, error) {
	op := a.Contract().Op("Reconcile")
	if a.deps.Schedules == nil || a.deps.Categories == nil {
		return domainagg.ReconcileResult{}, domainagg.NewError(domainagg.CodeInternal, op, "schedule aggregate repos not configured", nil)
	}

	var day time.Time
	slots := make([]planner.Interval, len(in.Items))
	validate := func() error {
		if err := requireItems(in.UserID, len(in.Items)); err != nil {
			return err
		}
		if in.TargetDate.IsZero() {
			return ValidationCause(&planner.FieldError{Index: -1, Field: "target_date", Reason: "is required", Err: planner.ErrMissingField})
		}
		day = planner.DateOnly(in.TargetDate)
		for i, item := range in.Items {
			iv, err := planner.ParseInterval(i, item.StartTime, item.EndTime)
			if err != nil {
				return ValidationCause(err)
			}
			if item.ActCategoryID == nil || *item.ActCategoryID == uuid.Nil {
				return ValidationCause(&planner.FieldError{Index: i, Field: "act_category_id", Reason: "is required", Err: planner.ErrMissingField})
			}
			slots[i] = iv
		}
		if err := planner.CheckOverlaps(slots); err != nil {
			return ValidationCause(err)
		}
		return nil
	}

	plan := reconcilePlan[domainagg.ScheduleItem]{
		userID: in.UserID,
		existing: func(dbc dbctx.Context) ([]uuid.UUID, error) {
			return a.deps.Schedules.ListIDsByUserAndDate(dbc, in.UserID, day)
		},
		idOf: func(item domainagg.ScheduleItem) *uuid.UUID { return item.ID },
		remove: func(dbc dbctx.Context, ids []uuid.UUID) error {
			return a.deps.Schedules.SoftDeleteByIDs(dbc, in.UserID, ids)
		},
		update: func(dbc dbctx.Context, i int, id uuid.UUID, item domainagg.ScheduleItem) (bool, error) {
			return a.deps.Schedules.UpdateFields(dbc, in.UserID, day, id, map[string]interface{}{
				"start_time":      planner.FormatClock(slots[i].Start),
				"end_time":        planner.FormatClock(slots[i].End),
				"act_category_id": *item.ActCategoryID,
			})
		},
		insert: func(dbc dbctx.Context, i int, item domainagg.ScheduleItem) (uuid.UUID, error) {
			categoryID := *item.ActCategoryID
			row := &types.Schedule{
				UserID:        in.UserID,
				TargetDate:    datatypes.Date(day),
				StartTime:     planner.FormatClock(slots[i].Start),
				EndTime:       planner.FormatClock(slots[i].End),
				ActCategoryID: &categoryID,
			}
			if _, err := a.deps.Schedules.Create(dbc, []*types.Schedule{row}); err != nil {
				return uuid.Nil, err
			}
			return row.ID, nil
		},
	}

	var out domainagg.ReconcileResult
	err := executeWrite(ctx, a.deps.Base, op, validate, func(dbc dbctx.Context) error {
		if err := a.requireOwnedCategories(dbc, in.UserID, in.Items); err != nil {
			return err
		}
		res, err := reconcile(dbc, plan, in.Items)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return domainagg.ReconcileResult{}, err
	}
	return out, nil
}

func (a *scheduleAggregate) requireOwnedCategories(dbc dbctx.Context, userID uuid.UUID, items []domainagg.ScheduleItem) error {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, *item.ActCategoryID)
	}
	owned, err := a.deps.Categories.GetByUserAndIDs(dbc, userID, ids)
	if err != nil {
		return err
	}
	return requireAllOwned("act_category_id", ids, owned, func(c *types.ActCategory) uuid.UUID { return c.ID })
}

// requireAllOwned fails with an ownership error naming the first id absent
// from rows.
func requireAllOwned[R any](field string, ids []uuid.UUID, rows []R, idOf func(R) uuid.UUID) error {
	found := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		found[idOf(row)] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return OwnershipError(fmt.Errorf("%s %s: %w", field, id, planner.ErrNotOwned))
		}
	}
	return nil
}
