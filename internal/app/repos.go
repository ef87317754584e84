package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type Repos struct {
	User      repos.UserRepo
	UserToken repos.UserTokenRepo

	ActCategory repos.ActCategoryRepo
	Schedule    repos.ScheduleRepo
	HabitGoal   repos.HabitGoalRepo
	HabitLog    repos.HabitLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      repos.NewUserRepo(db, log),
		UserToken: repos.NewUserTokenRepo(db, log),

		ActCategory: repos.NewActCategoryRepo(db, log),
		Schedule:    repos.NewScheduleRepo(db, log),
		HabitGoal:   repos.NewHabitGoalRepo(db, log),
		HabitLog:    repos.NewHabitLogRepo(db, log),
	}
}
