package domain

import (
	"github.com/yungbote/dayplanner-backend/internal/domain/auth"
	"github.com/yungbote/dayplanner-backend/internal/domain/planner"
	"github.com/yungbote/dayplanner-backend/internal/domain/user"
)

type (
	User      = user.User
	UserToken = auth.UserToken

	ActCategory = planner.ActCategory
	Schedule    = planner.Schedule
	HabitGoal   = planner.HabitGoal
	HabitLog    = planner.HabitLog
)
