package user

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/dayplanner-backend/internal/domain"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, u *types.User) error
	FindByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	FindByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

// NormalizeEmail is the stored form of an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepo) Create(dbc dbctx.Context, u *types.User) error {
	if u == nil {
		return nil
	}
	u.Email = NormalizeEmail(u.Email)
	return dbc.DB(r.db).Create(u).Error
}

func (r *userRepo) FindByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return dbctx.First[types.User](dbc.DB(r.db).Where("id = ?", id))
}

func (r *userRepo) FindByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	return dbctx.First[types.User](dbc.DB(r.db).Where("email = ?", email))
}

func (r *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.User{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&n).Error
	return n > 0, err
}
