package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
	"github.com/yungbote/dayplanner-backend/internal/services"
)

type Aggregates struct {
	ActCategory domainagg.ActCategoryAggregate
	Schedule    domainagg.ScheduleAggregate
	HabitGoal   domainagg.HabitGoalAggregate
}

type Services struct {
	Auth     services.AuthService
	User     services.UserService
	Category services.CategoryService
	Schedule services.ScheduleService
	Habit    services.HabitService
	Chart    services.ChartRenderer
}

func wireAggregates(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics, r Repos) Aggregates {
	log.Info("Wiring aggregates...")
	base := aggregates.BaseDeps{
		DB:     db,
		Log:    log,
		Runner: aggregates.NewGormTxRunner(db),
		Hooks:  aggregates.NewObservabilityHooks(metrics),
	}
	return Aggregates{
		ActCategory: aggregates.NewActCategoryAggregate(aggregates.ActCategoryAggregateDeps{
			Base:       base,
			Categories: r.ActCategory,
			Schedules:  r.Schedule,
			HabitGoals: r.HabitGoal,
		}),
		Schedule: aggregates.NewScheduleAggregate(aggregates.ScheduleAggregateDeps{
			Base:       base,
			Schedules:  r.Schedule,
			Categories: r.ActCategory,
		}),
		HabitGoal: aggregates.NewHabitGoalAggregate(aggregates.HabitGoalAggregateDeps{
			Base:       base,
			HabitGoals: r.HabitGoal,
			HabitLogs:  r.HabitLog,
			Categories: r.ActCategory,
		}),
	}
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, aggs Aggregates, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth := services.NewAuthService(db, log, r.User, r.UserToken, clients.TokenCache, services.AuthServiceConfig{
		JWTSecretKey: cfg.JWTSecretKey,
		AccessTTL:    cfg.AccessTokenTTL,
		RefreshTTL:   cfg.RefreshTokenTTL,
	})
	user := services.NewUserService(db, log, r.User)

	category := services.NewCategoryService(log, r.ActCategory, r.Schedule, r.HabitGoal, aggs.ActCategory)
	schedule := services.NewScheduleService(log, category, r.Schedule, aggs.Schedule)
	habit := services.NewHabitService(log, category, r.HabitGoal, r.HabitLog, aggs.HabitGoal)

	chart, err := services.NewChartRenderer(log, cfg.ChartFont)
	if err != nil {
		return Services{}, fmt.Errorf("init chart renderer: %w", err)
	}

	return Services{
		Auth:     auth,
		User:     user,
		Category: category,
		Schedule: schedule,
		Habit:    habit,
		Chart:    chart,
	}, nil
}
