package planner

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/dayplanner-backend/internal/domain"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type ActCategoryRepo interface {
	Create(dbc dbctx.Context, categories []*types.ActCategory) ([]*types.ActCategory, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ActCategory, error)
	ListIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error)
	GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.ActCategory, error)
	UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]interface{}) (bool, error)
	SoftDeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) error
}

type actCategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActCategoryRepo(db *gorm.DB, baseLog *logger.Logger) ActCategoryRepo {
	repoLog := baseLog.With("repo", "ActCategoryRepo")
	return &actCategoryRepo{db: db, log: repoLog}
}

func (r *actCategoryRepo) Create(dbc dbctx.Context, categories []*types.ActCategory) ([]*types.ActCategory, error) {
	if len(categories) == 0 {
		return []*types.ActCategory{}, nil
	}
	if err := dbc.DB(r.db).Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *actCategoryRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.ActCategory, error) {
	var results []*types.ActCategory
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *actCategoryRepo) ListIDsByUser(dbc dbctx.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.ActCategory{}).
		Where("user_id = ?", userID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *actCategoryRepo) GetByUserAndIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) ([]*types.ActCategory, error) {
	var results []*types.ActCategory
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

// UpdateFields reports false when no live row matched (userID, id).
func (r *actCategoryRepo) UpdateFields(dbc dbctx.Context, userID, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.ActCategory{}).
		Where("user_id = ? AND id = ?", userID, id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *actCategoryRepo) SoftDeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&types.ActCategory{}).Error
}
