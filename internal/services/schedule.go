package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	types "github.com/yungbote/dayplanner-backend/internal/domain"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

// ScheduleView is one slot of the schedule-day view.
type ScheduleView struct {
	ID            uuid.UUID  `json:"id"`
	StartTime     string     `json:"start_time"`
	EndTime       string     `json:"end_time"`
	Color         string     `json:"color"`
	Activity      string     `json:"activity"`
	ActCategoryID *uuid.UUID `json:"act_category_id"`
}

type ScheduleDay struct {
	// ActCategories is nil unless the caller asked for them.
	ActCategories []*types.ActCategory
	Schedules     []ScheduleView
}

type ScheduleService interface {
	Init(ctx context.Context, userID uuid.UUID, date time.Time, includeCategories bool) (ScheduleDay, error)
	Upsert(ctx context.Context, userID uuid.UUID, date time.Time, items []domainagg.ScheduleItem) (domainagg.ReconcileResult, error)
	DayChart(ctx context.Context, userID uuid.UUID, date time.Time) (planner.ChartData, error)
}

type scheduleService struct {
	log        *logger.Logger
	categories CategoryService
	schedules  repos.ScheduleRepo
	aggregate  domainagg.ScheduleAggregate
}

func NewScheduleService(
	log *logger.Logger,
	categories CategoryService,
	schedules repos.ScheduleRepo,
	aggregate domainagg.ScheduleAggregate,
) ScheduleService {
	return &scheduleService{
		log:        log.With("service", "ScheduleService"),
		categories: categories,
		schedules:  schedules,
		aggregate:  aggregate,
	}
}

func (s *scheduleService) Init(ctx context.Context, userID uuid.UUID, date time.Time, includeCategories bool) (ScheduleDay, error) {
	const op = "Schedule.Init"
	ctx, span := observability.StartSpan(ctx, op, attribute.String("target_date", planner.FormatDate(date)))
	defer span.End()

	out := ScheduleDay{Schedules: []ScheduleView{}}
	if includeCategories {
		cats, err := s.categories.List(ctx, userID)
		if err != nil {
			return out, err
		}
		out.ActCategories = cats
		if len(cats) == 0 {
			return out, domainagg.NewError(domainagg.CodeValidation, op, "register categories first", planner.ErrNoCategories)
		}
	}

	views, err := s.dayViews(ctx, userID, date)
	if err != nil {
		return out, err
	}
	out.Schedules = views
	return out, nil
}

func (s *scheduleService) Upsert(ctx context.Context, userID uuid.UUID, date time.Time, items []domainagg.ScheduleItem) (domainagg.ReconcileResult, error) {
	ctx, span := observability.StartSpan(ctx, "Schedule.Upsert", attribute.String("target_date", planner.FormatDate(date)))
	defer span.End()
	return s.aggregate.Reconcile(ctx, domainagg.ReconcileSchedulesInput{
		UserID:     userID,
		TargetDate: date,
		Items:      items,
	})
}

func (s *scheduleService) DayChart(ctx context.Context, userID uuid.UUID, date time.Time) (planner.ChartData, error) {
	ctx, span := observability.StartSpan(ctx, "Schedule.DayChart")
	defer span.End()

	views, err := s.dayViews(ctx, userID, date)
	if err != nil {
		return planner.FormatDayChart(nil), err
	}
	entries := make([]planner.ChartEntry, 0, len(views))
	for _, v := range views {
		label := v.Activity
		if label == "" {
			label = planner.UndefinedLabel
		}
		entries = append(entries, planner.ChartEntry{
			StartTime: v.StartTime,
			EndTime:   v.EndTime,
			Label:     label,
			Color:     v.Color,
		})
	}
	return planner.FormatDayChart(entries), nil
}

func (s *scheduleService) dayViews(ctx context.Context, userID uuid.UUID, date time.Time) ([]ScheduleView, error) {
	rows, err := s.schedules.ListByUserAndDate(dbctx.Context{Ctx: ctx}, userID, date)
	if err != nil {
		s.log.Error("load schedules failed", "user_id", userID, "error", err)
		return []ScheduleView{}, domainagg.NewError(domainagg.CodeInternal, "Schedule.Load", "load schedules", err)
	}
	out := make([]ScheduleView, 0, len(rows))
	for _, row := range rows {
		v := ScheduleView{
			ID:            row.ID,
			StartTime:     clockOrRaw(row.StartTime),
			EndTime:       clockOrRaw(row.EndTime),
			ActCategoryID: row.ActCategoryID,
		}
		if row.ActCategory != nil {
			v.Color = row.ActCategory.HexColorCode
			v.Activity = row.ActCategory.Activity
		}
		out = append(out, v)
	}
	return out, nil
}

func clockOrRaw(raw string) string {
	if v, err := planner.NormalizeClock(raw); err == nil {
		return v
	}
	return raw
}
