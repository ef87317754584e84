package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	types "github.com/yungbote/dayplanner-backend/internal/domain"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{
		db:       db,
		log:      serviceLog,
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	const op = "User.GetMe"
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		us.log.Warn("User id not set in request data")
		return nil, domainagg.NewError(domainagg.CodeUnauthorized, op, "not authenticated", nil)
	}
	u, err := us.userRepo.FindByID(dbctx.Context{Ctx: ctx}, rd.UserID)
	if err != nil {
		us.log.Error("load user failed", "user_id", rd.UserID, "error", err)
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "load user", err)
	}
	if u == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "user does not exist", nil)
	}
	return u, nil
}
