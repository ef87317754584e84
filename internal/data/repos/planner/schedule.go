package planner

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/dayplanner-backend/internal/domain"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type ScheduleRepo interface {
	Create(dbc dbctx.Context, schedules []*types.Schedule) ([]*types.Schedule, error)
	ListByUserAndDate(dbc dbctx.Context, userID uuid.UUID, date time.Time) ([]*types.Schedule, error)
	ListIDsByUserAndDate(dbc dbctx.Context, userID uuid.UUID, date time.Time) ([]uuid.UUID, error)
	UpdateFields(dbc dbctx.Context, userID uuid.UUID, date time.Time, id uuid.UUID, updates map[string]interface{}) (bool, error)
	SoftDeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) error
	CategoryIDsInUse(dbc dbctx.Context, categoryIDs []uuid.UUID) ([]uuid.UUID, error)
}

type scheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduleRepo(db *gorm.DB, baseLog *logger.Logger) ScheduleRepo {
	repoLog := baseLog.With("repo", "ScheduleRepo")
	return &scheduleRepo{db: db, log: repoLog}
}

func dateKey(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func (r *scheduleRepo) Create(dbc dbctx.Context, schedules []*types.Schedule) ([]*types.Schedule, error) {
	if len(schedules) == 0 {
		return []*types.Schedule{}, nil
	}
	for _, s := range schedules {
		s.TargetDate = dateKey(time.Time(s.TargetDate))
	}
	if err := dbc.DB(r.db).Create(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}

// ListByUserAndDate returns the day's schedules with their category, earliest first.
func (r *scheduleRepo) ListByUserAndDate(dbc dbctx.Context, userID uuid.UUID, date time.Time) ([]*types.Schedule, error) {
	var results []*types.Schedule
	if err := dbc.DB(r.db).
		Preload("ActCategory").
		Where("user_id = ? AND target_date = ?", userID, dateKey(date)).
		Order("start_time ASC, id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scheduleRepo) ListIDsByUserAndDate(dbc dbctx.Context, userID uuid.UUID, date time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := dbc.DB(r.db).
		Model(&types.Schedule{}).
		Where("user_id = ? AND target_date = ?", userID, dateKey(date)).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *scheduleRepo) UpdateFields(dbc dbctx.Context, userID uuid.UUID, date time.Time, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.Schedule{}).
		Where("user_id = ? AND target_date = ? AND id = ?", userID, dateKey(date), id).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *scheduleRepo) SoftDeleteByIDs(dbc dbctx.Context, userID uuid.UUID, ids []uuid.UUID) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&types.Schedule{}).Error
}

// CategoryIDsInUse returns the subset of categoryIDs referenced by live schedules.
func (r *scheduleRepo) CategoryIDsInUse(dbc dbctx.Context, categoryIDs []uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	categoryIDs = uniqueIDs(categoryIDs)
	if len(categoryIDs) == 0 {
		return ids, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Schedule{}).
		Where("act_category_id IN ?", categoryIDs).
		Distinct().
		Pluck("act_category_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
