package app

import (
	httpH "github.com/yungbote/dayplanner-backend/internal/http/handlers"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Auth     *httpH.AuthHandler
	User     *httpH.UserHandler
	Category *httpH.CategoryHandler
	Schedule *httpH.ScheduleHandler
	Habit    *httpH.HabitHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services, db httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(db),
		Auth: httpH.NewAuthHandler(log, services.Auth, httpH.AuthCookieConfig{
			Name:   cfg.AuthCookieName,
			Secure: cfg.AuthCookieSecure,
		}),
		User:     httpH.NewUserHandler(log, services.User),
		Category: httpH.NewCategoryHandler(log, services.Category),
		Schedule: httpH.NewScheduleHandler(log, services.Schedule, services.Chart),
		Habit:    httpH.NewHabitHandler(log, services.Habit),
	}
}
