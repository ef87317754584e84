package planner

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/dayplanner-backend/internal/domain"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type HabitLogRepo interface {
	Create(dbc dbctx.Context, logs []*types.HabitLog) ([]*types.HabitLog, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.HabitLog, error)
	GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.HabitLog, error)
	CountByGoalIDs(dbc dbctx.Context, goalIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type habitLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHabitLogRepo(db *gorm.DB, baseLog *logger.Logger) HabitLogRepo {
	repoLog := baseLog.With("repo", "HabitLogRepo")
	return &habitLogRepo{db: db, log: repoLog}
}

func (r *habitLogRepo) Create(dbc dbctx.Context, logs []*types.HabitLog) ([]*types.HabitLog, error) {
	if len(logs) == 0 {
		return []*types.HabitLog{}, nil
	}
	if err := dbc.DB(r.db).Create(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *habitLogRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.HabitLog, error) {
	var results []*types.HabitLog
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("log_time ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *habitLogRepo) GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.HabitLog, error) {
	var results []*types.HabitLog
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

type goalLogCount struct {
	HabitGoalID uuid.UUID
	Total       int64
}

// CountByGoalIDs returns live log counts per goal in one grouped query.
// Goals without logs are absent from the map.
func (r *habitLogRepo) CountByGoalIDs(dbc dbctx.Context, goalIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := map[uuid.UUID]int64{}
	goalIDs = uniqueIDs(goalIDs)
	if len(goalIDs) == 0 {
		return out, nil
	}
	var rows []goalLogCount
	if err := dbc.DB(r.db).
		Model(&types.HabitLog{}).
		Select("habit_goal_id, COUNT(*) AS total").
		Where("habit_goal_id IN ?", goalIDs).
		Group("habit_goal_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.HabitGoalID] = row.Total
	}
	return out, nil
}
