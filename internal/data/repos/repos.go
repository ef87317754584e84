package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/data/repos/auth"
	"github.com/yungbote/dayplanner-backend/internal/data/repos/planner"
	"github.com/yungbote/dayplanner-backend/internal/data/repos/user"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type ActCategoryRepo = planner.ActCategoryRepo
type ScheduleRepo = planner.ScheduleRepo
type HabitGoalRepo = planner.HabitGoalRepo
type HabitLogRepo = planner.HabitLogRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewActCategoryRepo(db *gorm.DB, baseLog *logger.Logger) ActCategoryRepo {
	return planner.NewActCategoryRepo(db, baseLog)
}
func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	return planner.NewScheduleRepo(db, baseLog)
}
func NewHabitGoalRepo(db *gorm.DB, baseLog *logger.Logger) HabitGoalRepo {
	return planner.NewHabitGoalRepo(db, baseLog)
}
func NewHabitLogRepo(db *gorm.DB, baseLog *logger.Logger) HabitLogRepo {
	return planner.NewHabitLogRepo(db, baseLog)
}
