package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	types "github.com/yungbote/dayplanner-backend/internal/domain"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

// CategoryView is a category plus whether the upsert engine would allow removing it.
type CategoryView struct {
	*types.ActCategory
	CanDelete bool `json:"can_delete"`
}

type CategoryService interface {
	List(ctx context.Context, userID uuid.UUID) ([]*types.ActCategory, error)
	ListWithDeletability(ctx context.Context, userID uuid.UUID) ([]CategoryView, error)
	Upsert(ctx context.Context, userID uuid.UUID, items []domainagg.ActCategoryItem) (domainagg.ReconcileResult, error)
}

type categoryService struct {
	log        *logger.Logger
	categories repos.ActCategoryRepo
	schedules  repos.ScheduleRepo
	habitGoals repos.HabitGoalRepo
	aggregate  domainagg.ActCategoryAggregate
}

func NewCategoryService(
	log *logger.Logger,
	categories repos.ActCategoryRepo,
	schedules repos.ScheduleRepo,
	habitGoals repos.HabitGoalRepo,
	aggregate domainagg.ActCategoryAggregate,
) CategoryService {
	return &categoryService{
		log:        log.With("service", "CategoryService"),
		categories: categories,
		schedules:  schedules,
		habitGoals: habitGoals,
		aggregate:  aggregate,
	}
}

func (s *categoryService) List(ctx context.Context, userID uuid.UUID) ([]*types.ActCategory, error) {
	rows, err := s.categories.ListByUser(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, "Category.List", "load categories", err)
	}
	if rows == nil {
		rows = []*types.ActCategory{}
	}
	return rows, nil
}

// ListWithDeletability resolves can_delete with one lookup per dependent table.
func (s *categoryService) ListWithDeletability(ctx context.Context, userID uuid.UUID) ([]CategoryView, error) {
	const op = "Category.ListWithDeletability"
	ctx, span := observability.StartSpan(ctx, op)
	defer span.End()

	rows, err := s.List(ctx, userID)
	if err != nil {
		return []CategoryView{}, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.ID)
	}

	var bySchedule, byGoal []uuid.UUID
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bySchedule, err = s.schedules.CategoryIDsInUse(dbctx.Context{Ctx: gctx}, ids)
		return err
	})
	g.Go(func() error {
		var err error
		byGoal, err = s.habitGoals.CategoryIDsInUse(dbctx.Context{Ctx: gctx}, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("category usage lookup failed", "user_id", userID, "error", err)
		return []CategoryView{}, domainagg.NewError(domainagg.CodeInternal, op, "load category usage", err)
	}

	used := make(map[uuid.UUID]struct{}, len(bySchedule)+len(byGoal))
	for _, id := range bySchedule {
		used[id] = struct{}{}
	}
	for _, id := range byGoal {
		used[id] = struct{}{}
	}
	out := make([]CategoryView, 0, len(rows))
	for _, c := range rows {
		_, inUse := used[c.ID]
		out = append(out, CategoryView{ActCategory: c, CanDelete: !inUse})
	}
	return out, nil
}

func (s *categoryService) Upsert(ctx context.Context, userID uuid.UUID, items []domainagg.ActCategoryItem) (domainagg.ReconcileResult, error) {
	ctx, span := observability.StartSpan(ctx, "Category.Upsert")
	defer span.End()
	return s.aggregate.Reconcile(ctx, domainagg.ReconcileActCategoriesInput{UserID: userID, Items: items})
}
