package aggregates

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	types "github.com/yungbote/dayplanner-backend/internal/domain"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
)

type ActCategoryAggregateDeps struct {
	Base BaseDeps

	Categories repos.ActCategoryRepo
	Schedules  repos.ScheduleRepo
	HabitGoals repos.HabitGoalRepo
}

type actCategoryAggregate struct {
	deps ActCategoryAggregateDeps
}

func NewActCategoryAggregate(deps ActCategoryAggregateDeps) domainagg.ActCategoryAggregate {
	deps.Base = deps.Base.withDefaults()
	return &actCategoryAggregate{deps: deps}
}

func (a *actCategoryAggregate) Contract() domainagg.Contract {
	return domainagg.ActCategoryAggregateContract
}

func (a *actCategoryAggregate) Reconcile(ctx context.Context, in domainagg.ReconcileActCategoriesInput) (domainagg.ReconcileResult, error) {
	op := a.Contract().Op("Reconcile")
	if a.deps.Categories == nil || a.deps.Schedules == nil || a.deps.HabitGoals == nil {
		return domainagg.ReconcileResult{}, domainagg.NewError(domainagg.CodeInternal, op, "category aggregate repos not configured", nil)
	}

	fields := make([]planner.CategoryFields, len(in.Items))
	validate := func() error {
		if err := requireItems(in.UserID, len(in.Items)); err != nil {
			return err
		}
		hexes := make([]string, len(in.Items))
		for i, item := range in.Items {
			f := planner.CategoryFields{
				Activity:      item.Activity,
				ColorName:     item.ColorName,
				HexColorCode:  item.HexColorCode,
				TextColorCode: item.TextColorCode,
			}.Normalize()
			if err := planner.ValidateCategory(i, f); err != nil {
				return ValidationCause(err)
			}
			f.HexColorCode = strings.ToUpper(f.HexColorCode)
			f.TextColorCode = strings.ToUpper(f.TextColorCode)
			fields[i] = f
			hexes[i] = f.HexColorCode
		}
		if err := planner.CheckDistinctColors(hexes); err != nil {
			return ValidationCause(err)
		}
		return nil
	}

	plan := reconcilePlan[domainagg.ActCategoryItem]{
		userID: in.UserID,
		existing: func(dbc dbctx.Context) ([]uuid.UUID, error) {
			return a.deps.Categories.ListIDsByUser(dbc, in.UserID)
		},
		idOf: func(item domainagg.ActCategoryItem) *uuid.UUID { return item.ID },
		referenced: func(dbc dbctx.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
			bySchedule, err := a.deps.Schedules.CategoryIDsInUse(dbc, ids)
			if err != nil {
				return nil, err
			}
			byGoal, err := a.deps.HabitGoals.CategoryIDsInUse(dbc, ids)
			if err != nil {
				return nil, err
			}
			return append(bySchedule, byGoal...), nil
		},
		inUse: planner.ErrCategoryInUse,
		remove: func(dbc dbctx.Context, ids []uuid.UUID) error {
			return a.deps.Categories.SoftDeleteByIDs(dbc, in.UserID, ids)
		},
		update: func(dbc dbctx.Context, i int, id uuid.UUID, _ domainagg.ActCategoryItem) (bool, error) {
			f := fields[i]
			return a.deps.Categories.UpdateFields(dbc, in.UserID, id, map[string]interface{}{
				"activity":        f.Activity,
				"color_name":      f.ColorName,
				"hex_color_code":  f.HexColorCode,
				"text_color_code": f.TextColorCode,
			})
		},
		insert: func(dbc dbctx.Context, i int, _ domainagg.ActCategoryItem) (uuid.UUID, error) {
			f := fields[i]
			row := &types.ActCategory{
				UserID:        in.UserID,
				Activity:      f.Activity,
				ColorName:     f.ColorName,
				HexColorCode:  f.HexColorCode,
				TextColorCode: f.TextColorCode,
			}
			if _, err := a.deps.Categories.Create(dbc, []*types.ActCategory{row}); err != nil {
				return uuid.Nil, err
			}
			return row.ID, nil
		},
	}

	var out domainagg.ReconcileResult
	err := executeWrite(ctx, a.deps.Base, op, validate, func(dbc dbctx.Context) error {
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
