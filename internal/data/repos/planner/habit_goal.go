package planner

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/dayplanner-backend/internal/domain"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type HabitGoalRepo interface {
	Create(dbc dbctx.Context, goals []*types.HabitGoal) ([]*types.HabitGoal, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.HabitGoal, error)
	ListIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.HabitGoal, error)
	UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]interface{}) (bool, error)
	SoftDeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) error
	CategoryIDsInUse(dbc dbctx.Context, categoryIDs []uuid.UUID) ([]uuid.UUID, error)
}

type habitGoalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHabitGoalRepo(db *gorm.DB, baseLog *logger.Logger) HabitGoalRepo {
	repoLog := baseLog.With("repo", "HabitGoalRepo")
	return &habitGoalRepo{db: db, log: repoLog}
}

func (r *habitGoalRepo) Create(dbc dbctx.Context, goals []*types.HabitGoal) ([]*types.HabitGoal, error) {
	if len(goals) == 0 {
		return []*types.HabitGoal{}, nil
	}
	if err := dbc.DB(r.db).Omit("ActCategory").Create(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// ListByUser returns the user's goals with linked categories preloaded.
func (r *habitGoalRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.HabitGoal, error) {
	var results []*types.HabitGoal
	if err := dbc.DB(r.db).
		Preload("ActCategory").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *habitGoalRepo) ListIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.HabitGoal{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *habitGoalRepo) GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.HabitGoal, error) {
	var results []*types.HabitGoal
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).
		Preload("ActCategory").
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *habitGoalRepo) UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.HabitGoal{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *habitGoalRepo) SoftDeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&types.HabitGoal{}).Error
}

func (r *habitGoalRepo) CategoryIDsInUse(dbc dbctx.Context, categoryIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	categoryIDs = uniqueIDs(categoryIDs)
	if len(categoryIDs) == 0 {
		return ids, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.HabitGoal{}).
		Where("act_category_id IN ?", categoryIDs).
		Distinct().
		Pluck("act_category_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
