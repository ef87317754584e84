package db

import (
	"fmt"

	types "github.com/yungbote/dayplanner-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// identity + auth
		&types.User{},
		&types.UserToken{},

		// planner
		&types.ActCategory{},
		&types.Schedule{},
		&types.HabitGoal{},
		&types.HabitLog{},
	)
}

// EnsurePlannerIndexes creates partial indexes gorm tags cannot express. The
// statements are valid on both postgres and sqlite.
func EnsurePlannerIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_act_category_user_hex",
			sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_act_category_user_hex
				ON act_category(user_id, hex_color_code)
				WHERE deleted_at IS NULL;`,
		},
		{
			name: "idx_habit_goal_user_linked_category",
			sql: `CREATE UNIQUE INDEX IF NOT EXISTS idx_habit_goal_user_linked_category
				ON habit_goal(user_id, act_category_id)
				WHERE deleted_at IS NULL AND is_linked = TRUE;`,
		},
		{
			name: "idx_habit_log_goal_time",
			sql: `CREATE INDEX IF NOT EXISTS idx_habit_log_goal_time
				ON habit_log(habit_goal_id, log_time);`,
		},
	}
	for _, st := range stmts {
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}
