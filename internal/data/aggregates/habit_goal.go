package aggregates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	types "github.com/yungbote/dayplanner-backend/internal/domain"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
)

type HabitGoalAggregateDeps struct {
	Base BaseDeps

	HabitGoals repos.HabitGoalRepo
	HabitLogs  repos.HabitLogRepo
	Categories repos.ActCategoryRepo
}

type habitGoalAggregate struct {
	deps HabitGoalAggregateDeps
}

func NewHabitGoalAggregate(deps HabitGoalAggregateDeps) domainagg.HabitGoalAggregate {
	deps.Base = deps.Base.withDefaults()
	return &habitGoalAggregate{deps: deps}
}

func (a *habitGoalAggregate) Contract() domainagg.Contract {
	return domainagg.HabitGoalAggregateContract
}

// goalLink is the linkage a payload item ends up with once persisted rows
// are consulted.
type goalLink struct {
	linked     bool
	categoryID *uuid.UUID
}

func (a *habitGoalAggregate) Reconcile(ctx context.Context, in domainagg.ReconcileHabitGoalsInput) (domainagg.ReconcileResult, error) {
	op := a.Contract().Op("Reconcile")
	if a.deps.HabitGoals == nil || a.deps.HabitLogs == nil || a.deps.Categories == nil {
		return domainagg.ReconcileResult{}, domainagg.NewError(domainagg.CodeInternal, op, "habit goal aggregate repos not configured", nil)
	}

	validate := func() error {
		if err := requireItems(in.UserID, len(in.Items)); err != nil {
			return err
		}
		for i, item := range in.Items {
			if item.ID != nil {
				// display fields of updates depend on the persisted linkage
				if err := planner.ValidateGoal(i, goalFields(item, true)); err != nil {
					return ValidationCause(err)
				}
				continue
			}
			if item.IsLinked == nil {
				return ValidationCause(&planner.FieldError{Index: i, Field: "is_linked", Reason: "is required", Err: planner.ErrMissingField})
			}
			if *item.IsLinked && (item.ActCategoryID == nil || *item.ActCategoryID == uuid.Nil) {
				return ValidationCause(&planner.FieldError{Index: i, Field: "act_category_id", Reason: "is required when is_linked is true", Err: planner.ErrMissingField})
			}
			if err := planner.ValidateGoal(i, goalFields(item, *item.IsLinked)); err != nil {
				return ValidationCause(err)
			}
		}
		return nil
	}

	links := make([]goalLink, len(in.Items))
	plan := reconcilePlan[domainagg.HabitGoalItem]{
		userID: in.UserID,
		existing: func(dbc dbctx.Context) ([]uuid.UUID, error) {
			return a.deps.HabitGoals.ListIDsByUser(dbc, in.UserID)
		},
		idOf: func(item domainagg.HabitGoalItem) *uuid.UUID { return item.ID },
		referenced: func(dbc dbctx.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
			counts, err := a.deps.HabitLogs.CountByGoalIDs(dbc, ids)
			if err != nil {
				return nil, err
			}
			used := make([]uuid.UUID, 0, len(counts))
			for id, n := range counts {
				if n > 0 {
					used = append(used, id)
				}
			}
			return used, nil
		},
		inUse: planner.ErrGoalInUse,
		remove: func(dbc dbctx.Context, ids []uuid.UUID) error {
			return a.deps.HabitGoals.SoftDeleteByIDs(dbc, in.UserID, ids)
		},
		update: func(dbc dbctx.Context, i int, id uuid.UUID, item domainagg.HabitGoalItem) (bool, error) {
			colorName, hex, title := displayFields(item, links[i].linked)
			return a.deps.HabitGoals.UpdateFields(dbc, in.UserID, id, map[string]interface{}{
				"color_name":       colorName,
				"hex_color_code":   hex,
				"title":            title,
				"detail":           strings.TrimSpace(item.Detail),
				"duration_minutes": *item.DurationMinutes,
			})
		},
		insert: func(dbc dbctx.Context, i int, item domainagg.HabitGoalItem) (uuid.UUID, error) {
			link := links[i]
			colorName, hex, title := displayFields(item, link.linked)
			row := &types.HabitGoal{
				UserID:          in.UserID,
				IsLinked:        link.linked,
				ActCategoryID:   link.categoryID,
				ColorName:       colorName,
				HexColorCode:    hex,
				Title:           title,
				Detail:          strings.TrimSpace(item.Detail),
				DurationMinutes: *item.DurationMinutes,
			}
			if _, err := a.deps.HabitGoals.Create(dbc, []*types.HabitGoal{row}); err != nil {
				return uuid.Nil, err
			}
			return row.ID, nil
		},
	}

	var out domainagg.ReconcileResult
	err := executeWrite(ctx, a.deps.Base, op, validate, func(dbc dbctx.Context) error {
		resolved, err := a.resolveLinks(dbc, in.UserID, in.Items)
		if err != nil {
			return err
		}
		copy(links, resolved)
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

// resolveLinks settles each item's linkage: updates keep the persisted one,
// inserts take the payload's. It checks category ownership, display fields
// of unlinked updates, and that no category is linked twice.
func (a *habitGoalAggregate) resolveLinks(dbc dbctx.Context, userID uuid.UUID, items []domainagg.HabitGoalItem) ([]goalLink, error) {
	updateIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ID != nil {
			updateIDs = append(updateIDs, *item.ID)
		}
	}
	persisted := map[uuid.UUID]*types.HabitGoal{}
	if len(updateIDs) > 0 {
		rows, err := a.deps.HabitGoals.GetByUserAndIDs(dbc, userID, updateIDs)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			persisted[row.ID] = row
		}
	}

	links := make([]goalLink, len(items))
	linkedCategories := make([]uuid.UUID, 0, len(items))
	for i, item := range items {
		if item.ID != nil {
			row, ok := persisted[*item.ID]
			if !ok {
				return nil, OwnershipError(fmt.Errorf("item %d: %s: %w", i, *item.ID, planner.ErrNotOwned))
			}
			links[i] = goalLink{linked: row.IsLinked, categoryID: row.ActCategoryID}
			if !row.IsLinked {
				if err := planner.ValidateGoal(i, goalFields(item, false)); err != nil {
					return nil, ValidationCause(err)
				}
			}
		} else if *item.IsLinked {
			categoryID := *item.ActCategoryID
			links[i] = goalLink{linked: true, categoryID: &categoryID}
			linkedCategories = append(linkedCategories, categoryID)
		} else {
			links[i] = goalLink{}
		}
	}

	if len(linkedCategories) > 0 {
		owned, err := a.deps.Categories.GetByUserAndIDs(dbc, userID, linkedCategories)
		if err != nil {
			return nil, err
		}
		if err := requireAllOwned("act_category_id", linkedCategories, owned, func(c *types.ActCategory) uuid.UUID { return c.ID }); err != nil {
			return nil, err
		}
	}

	seen := make(map[uuid.UUID]int, len(items))
	for i, link := range links {
		if !link.linked || link.categoryID == nil {
			continue
		}
		if prev, ok := seen[*link.categoryID]; ok {
			return nil, ValidationCause(&planner.FieldError{
				Index:  i,
				Field:  "act_category_id",
				Reason: fmt.Sprintf("category already linked by item %d", prev),
				Err:    planner.ErrDuplicateLink,
			})
		}
		seen[*link.categoryID] = i
	}
	return links, nil
}

func (a *habitGoalAggregate) AppendLog(ctx context.Context, in domainagg.AppendHabitLogInput) (domainagg.AppendHabitLogResult, error) {
	op := a.Contract().Op("AppendLog")
	var out domainagg.AppendHabitLogResult
	if a.deps.HabitGoals == nil || a.deps.HabitLogs == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "habit goal aggregate repos not configured", nil)
	}

	validate := func() error {
		switch {
		case in.UserID == uuid.Nil:
			return ValidationError("missing user_id")
		case in.HabitGoalID == uuid.Nil:
			return ValidationCause(&planner.FieldError{Index: -1, Field: "habit_goal_id", Reason: "is required", Err: planner.ErrMissingField})
		case in.LogTime.IsZero():
			return ValidationCause(&planner.FieldError{Index: -1, Field: "log_time", Reason: "is required", Err: planner.ErrMissingField})
		}
		if err := planner.ValidateExecutionTime(in.ExecutionTime); err != nil {
			return ValidationCause(err)
		}
		return nil
	}

	err := executeWrite(ctx, a.deps.Base, op, validate, func(dbc dbctx.Context) error {
		if err := lockUserPlanner(dbc, in.UserID); err != nil {
			return err
		}
		goals, err := a.deps.HabitGoals.GetByUserAndIDs(dbc, in.UserID, []uuid.UUID{in.HabitGoalID})
		if err != nil {
			return err
		}
		if len(goals) == 0 {
			return OwnershipError(fmt.Errorf("habit_goal_id %s: %w", in.HabitGoalID, planner.ErrNotOwned))
		}
		row := &types.HabitLog{
			UserID:        in.UserID,
			HabitGoalID:   in.HabitGoalID,
			LogTime:       in.LogTime.UTC(),
			IsAchieved:    in.IsAchieved,
			ExecutionTime: in.ExecutionTime,
		}
		if _, err := a.deps.HabitLogs.Create(dbc, []*types.HabitLog{row}); err != nil {
			return err
		}
		out.HabitLogID = row.ID
		return nil
	})
	if err != nil {
		return domainagg.AppendHabitLogResult{}, err
	}
	return out, nil
}

func goalFields(item domainagg.HabitGoalItem, linked bool) planner.GoalFields {
	return planner.GoalFields{
		IsLinked:        linked,
		ColorName:       item.ColorName,
		HexColorCode:    item.HexColorCode,
		Title:           item.Title,
		Detail:          item.Detail,
		DurationMinutes: item.DurationMinutes,
	}
}

// displayFields returns the stored color and title; linked goals keep none.
func displayFields(item domainagg.HabitGoalItem, linked bool) (colorName, hex, title *string) {
	if linked {
		return nil, nil, nil
	}
	trim := func(s *string) *string {
		v := strings.TrimSpace(*s)
		return &v
	}
	colorName, title = trim(item.ColorName), trim(item.Title)
	h := strings.ToUpper(strings.TrimSpace(*item.HexColorCode))
	return colorName, &h, title
}
