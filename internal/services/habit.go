package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	types "github.com/yungbote/dayplanner-backend/internal/domain"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

// HabitGoalView carries the goal's own columns; linked goals keep their
// display fields null.
type HabitGoalView struct {
	ID              uuid.UUID  `json:"id"`
	IsLinked        bool       `json:"is_linked"`
	ActCategoryID   *uuid.UUID `json:"act_category_id"`
	ColorName       *string    `json:"color_name"`
	HexColorCode    *string    `json:"hex_color_code"`
	Title           *string    `json:"title"`
	Detail          string     `json:"detail"`
	DurationMinutes int        `json:"duration_minutes"`
	CanDelete       bool       `json:"can_delete"`
}

// HabitView is a goal with display fields resolved and its logs attached.
type HabitView struct {
	HabitGoalID     uuid.UUID         `json:"habit_goal_id"`
	Title           string            `json:"title"`
	DurationMinutes int               `json:"duration_minutes"`
	Detail          string            `json:"detail"`
	HexColorCode    string            `json:"hex_color_code"`
	HabitLogs       []*types.HabitLog `json:"habitLogs"`
}

type GoalBoard struct {
	ActCategories []*types.ActCategory
	HabitGoals    []HabitGoalView
}

type HabitDashboard struct {
	ActCategories []*types.ActCategory
	HabitGoals    []HabitGoalView
	Habits        []HabitView
}

type HabitService interface {
	GoalInit(ctx context.Context, userID uuid.UUID) (GoalBoard, error)
	UpsertGoals(ctx context.Context, userID uuid.UUID, items []domainagg.HabitGoalItem) ([]HabitGoalView, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (HabitDashboard, error)
	StoreLog(ctx context.Context, in domainagg.AppendHabitLogInput) (*types.HabitLog, error)
}

type habitService struct {
	log        *logger.Logger
	categories CategoryService
	goals      repos.HabitGoalRepo
	logs       repos.HabitLogRepo
	aggregate  domainagg.HabitGoalAggregate
}

func NewHabitService(
	log *logger.Logger,
	categories CategoryService,
	goals repos.HabitGoalRepo,
	logs repos.HabitLogRepo,
	aggregate domainagg.HabitGoalAggregate,
) HabitService {
	return &habitService{
		log:        log.With("service", "HabitService"),
		categories: categories,
		goals:      goals,
		logs:       logs,
		aggregate:  aggregate,
	}
}

func (s *habitService) GoalInit(ctx context.Context, userID uuid.UUID) (GoalBoard, error) {
	const op = "Habit.GoalInit"
	ctx, span := observability.StartSpan(ctx, op)
	defer span.End()

	out := GoalBoard{ActCategories: []*types.ActCategory{}, HabitGoals: []HabitGoalView{}}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := s.categories.List(gctx, userID)
		if err != nil {
			return err
		}
		out.ActCategories = cats
		return nil
	})
	g.Go(func() error {
		goals, _, err := s.goalViews(gctx, userID)
		if err != nil {
			return err
		}
		out.HabitGoals = goals
		return nil
	})
	if err := g.Wait(); err != nil {
		return out, err
	}
	if len(out.ActCategories) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "register categories first", planner.ErrNoCategories)
	}
	return out, nil
}

func (s *habitService) UpsertGoals(ctx context.Context, userID uuid.UUID, items []domainagg.HabitGoalItem) ([]HabitGoalView, error) {
	ctx, span := observability.StartSpan(ctx, "Habit.UpsertGoals")
	defer span.End()

	if _, err := s.aggregate.Reconcile(ctx, domainagg.ReconcileHabitGoalsInput{UserID: userID, Items: items}); err != nil {
		return []HabitGoalView{}, err
	}
	goals, _, err := s.goalViews(ctx, userID)
	return goals, err
}

// Dashboard loads categories, goals and logs concurrently and attaches
// each goal's logs in log_time order.
func (s *habitService) Dashboard(ctx context.Context, userID uuid.UUID) (HabitDashboard, error) {
	const op = "Habit.Dashboard"
	ctx, span := observability.StartSpan(ctx, op)
	defer span.End()

	out := HabitDashboard{
		ActCategories: []*types.ActCategory{},
		HabitGoals:    []HabitGoalView{},
		Habits:        []HabitView{},
	}
	var (
		rows []*types.HabitGoal
		logs []*types.HabitLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cats, err := s.categories.List(gctx, userID)
		if err != nil {
			return err
		}
		out.ActCategories = cats
		return nil
	})
	g.Go(func() error {
		views, goals, err := s.goalViews(gctx, userID)
		if err != nil {
			return err
		}
		out.HabitGoals = views
		rows = goals
		return nil
	})
	g.Go(func() error {
		var err error
		logs, err = s.logs.ListByUser(dbctx.Context{Ctx: gctx}, userID)
		if err != nil {
			s.log.Error("load habit logs failed", "user_id", userID, "error", err)
			return domainagg.NewError(domainagg.CodeInternal, op, "load habit logs", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return out, err
	}
	if len(out.ActCategories) == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "register categories first", planner.ErrNoCategories)
	}

	byGoal := make(map[uuid.UUID][]*types.HabitLog, len(rows))
	for _, l := range logs {
		byGoal[l.HabitGoalID] = append(byGoal[l.HabitGoalID], l)
	}
	for _, goal := range rows {
		entries := byGoal[goal.ID]
		if entries == nil {
			entries = []*types.HabitLog{}
		}
		out.Habits = append(out.Habits, HabitView{
			HabitGoalID:     goal.ID,
			Title:           goal.DisplayTitle(),
			DurationMinutes: goal.DurationMinutes,
			Detail:          goal.Detail,
			HexColorCode:    goal.DisplayHexColor(),
			HabitLogs:       entries,
		})
	}
	return out, nil
}

func (s *habitService) StoreLog(ctx context.Context, in domainagg.AppendHabitLogInput) (*types.HabitLog, error) {
	const op = "Habit.StoreLog"
	ctx, span := observability.StartSpan(ctx, op)
	defer span.End()

	res, err := s.aggregate.AppendLog(ctx, in)
	if err != nil {
		return nil, err
	}
	found, err := s.logs.GetByUserAndIDs(dbctx.Context{Ctx: ctx}, in.UserID, []uuid.UUID{res.HabitLogID})
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "reload habit log", err)
	}
	if len(found) == 0 {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "habit log missing after insert", nil)
	}
	return found[0], nil
}

func (s *habitService) goalViews(ctx context.Context, userID uuid.UUID) ([]HabitGoalView, []*types.HabitGoal, error) {
	const op = "Habit.ListGoals"
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.goals.ListByUser(dbc, userID)
	if err != nil {
		s.log.Error("load habit goals failed", "user_id", userID, "error", err)
		return []HabitGoalView{}, nil, domainagg.NewError(domainagg.CodeInternal, op, "load habit goals", err)
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, g := range rows {
		ids = append(ids, g.ID)
	}
	counts, err := s.logs.CountByGoalIDs(dbc, ids)
	if err != nil {
		s.log.Error("count habit logs failed", "user_id", userID, "error", err)
		return []HabitGoalView{}, nil, domainagg.NewError(domainagg.CodeInternal, op, "count habit logs", err)
	}
	out := make([]HabitGoalView, 0, len(rows))
	for _, g := range rows {
		out = append(out, HabitGoalView{
			ID:              g.ID,
			IsLinked:        g.IsLinked,
			ActCategoryID:   g.ActCategoryID,
			ColorName:       g.ColorName,
			HexColorCode:    g.HexColorCode,
			Title:           g.Title,
			Detail:          g.Detail,
			DurationMinutes: g.DurationMinutes,
			CanDelete:       counts[g.ID] == 0,
		})
	}
	return out, rows, nil
}
