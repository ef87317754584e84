package auth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/dayplanner-backend/internal/domain"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

// UserTokenRepo stores issued access/refresh pairs. Rows are hard deleted:
// a revoked or rotated token must never match again.
type UserTokenRepo interface {
	Create(dbc dbctx.Context, t *types.UserToken) error
	FindByAccessToken(dbc dbctx.Context, access string) (*types.UserToken, error)
	FindByRefreshToken(dbc dbctx.Context, refresh string) (*types.UserToken, error)
	Delete(dbc dbctx.Context, ids ...uuid.UUID) error
	DeleteByAccessToken(dbc dbctx.Context, access string) (int64, error)
	PurgeExpired(dbc dbctx.Context, userID uuid.UUID, now time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) Create(dbc dbctx.Context, t *types.UserToken) error {
	if t == nil {
		return nil
	}
	return dbc.DB(r.db).Omit("User").Create(t).Error
}

func (r *userTokenRepo) FindByAccessToken(dbc dbctx.Context, access string) (*types.UserToken, error) {
	if access == "" {
		return nil, nil
	}
	return dbctx.First[types.UserToken](dbc.DB(r.db).Where("access_token = ?", access))
}

func (r *userTokenRepo) FindByRefreshToken(dbc dbctx.Context, refresh string) (*types.UserToken, error) {
	if refresh == "" {
		return nil, nil
	}
	return dbctx.First[types.UserToken](dbc.DB(r.db).Where("refresh_token = ?", refresh))
}

func (r *userTokenRepo) Delete(dbc dbctx.Context, ids ...uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Unscoped().Where("id IN ?", ids).Delete(&types.UserToken{}).Error
}

func (r *userTokenRepo) DeleteByAccessToken(dbc dbctx.Context, access string) (int64, error) {
	if access == "" {
		return 0, nil
	}
	res := dbc.DB(r.db).Unscoped().Where("access_token = ?", access).Delete(&types.UserToken{})
	return res.RowsAffected, res.Error
}

// PurgeExpired drops the user's tokens whose refresh window closed before now.
func (r *userTokenRepo) PurgeExpired(dbc dbctx.Context, userID uuid.UUID, now time.Time) (int64, error) {
	res := dbc.DB(r.db).Unscoped().
		Where("user_id = ? AND expires_at < ?", userID, now).
		Delete(&types.UserToken{})
	if res.RowsAffected > 0 {
		r.log.Debug("purged expired tokens", "user_id", userID, "count", res.RowsAffected)
	}
	return res.RowsAffected, res.Error
}
