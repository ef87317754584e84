package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/dayplanner-backend/internal/clients/redis"
	"github.com/yungbote/dayplanner-backend/internal/data/repos"
	types "github.com/yungbote/dayplanner-backend/internal/domain"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/observability"
	"github.com/yungbote/dayplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/dayplanner-backend/internal/platform/dbctx"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

const (
	minPasswordLength = 8
	maxNameLength     = 50
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenRevoked       = errors.New("token revoked or unknown")
	ErrEmailTaken         = errors.New("email already registered")
)

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (TokenPair, error)
	RefreshUser(ctx context.Context) (TokenPair, error)
	LogoutUser(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	cache         redis.TokenCache
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	bcryptCost    int
	now           func() time.Time
}

type AuthServiceConfig struct {
	JWTSecretKey string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	cache redis.TokenCache,
	cfg AuthServiceConfig,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if cache == nil {
		cache = redis.Disabled()
	}
	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = time.Hour
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 24 * time.Hour
	}
	return &authService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		cache:         cache,
		jwtSecretKey:  cfg.JWTSecretKey,
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		bcryptCost:    cost,
		now:           time.Now,
	}
}

func (as *authService) RegisterUser(ctx context.Context, in RegisterInput) (*types.User, error) {
	const op = "Auth.RegisterUser"
	ctx, span := observability.StartSpan(ctx, op)
	defer span.End()

	email := normalizeEmail(in.Email)
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if err := validateRegistration(email, in.Password, firstName, lastName); err != nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), as.bcryptCost)
	if err != nil {
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "hash password", err)
	}

	user := &types.User{
		Email:     email,
		Password:  string(hash),
		FirstName: firstName,
		LastName:  lastName,
	}
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := as.userRepo.EmailExists(dbc, email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return ErrEmailTaken
		}
		if err := as.userRepo.Create(dbc, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	}); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, domainagg.NewError(domainagg.CodeValidation, op, err.Error(), err)
		}
		as.log.Error("register failed", "error", err)
		return nil, domainagg.NewError(domainagg.CodeInternal, op, "register user", err)
	}
	observability.Current().IncAuthEvent("register")
	as.log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (TokenPair, error) {
	const op = "Auth.LoginUser"
	ctx, span := observability.StartSpan(ctx, op)
	defer span.End()

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return TokenPair{}, domainagg.NewError(domainagg.CodeValidation, op, "email and password are required", nil)
	}

	user, err := as.userRepo.FindByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return TokenPair{}, domainagg.NewError(domainagg.CodeInternal, op, "load user", err)
	}
	if user == nil {
		observability.Current().IncAuthEvent("login_failed")
		return TokenPair{}, domainagg.NewError(domainagg.CodeUnauthorized, op, ErrInvalidCredentials.Error(), ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		observability.Current().IncAuthEvent("login_failed")
		return TokenPair{}, domainagg.NewError(domainagg.CodeUnauthorized, op, ErrInvalidCredentials.Error(), ErrInvalidCredentials)
	}

	var pair TokenPair
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := as.userTokenRepo.PurgeExpired(dbc, user.ID, as.now().UTC()); err != nil {
			return fmt.Errorf("purge expired tokens: %w", err)
		}
		var err error
		pair, err = as.issueTokens(dbc, user.ID)
		return err
	}); err != nil {
		as.log.Error("login failed", "user_id", user.ID, "error", err)
		return TokenPair{}, domainagg.NewError(domainagg.CodeInternal, op, "issue tokens", err)
	}
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	observability.Current().IncAuthEvent("login")
	return pair, nil
}

func (as *authService) RefreshUser(ctx context.Context) (TokenPair, error) {
	const op = "Auth.RefreshUser"
	ctx, span := observability.StartSpan(ctx, op)
	defer span.End()

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" || rd.RefreshToken == "" {
		as.log.Warn("refresh without request data")
		return TokenPair{}, domainagg.NewError(domainagg.CodeUnauthorized, op, "not authenticated", nil)
	}

	var pair TokenPair
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		existing, err := as.userTokenRepo.FindByRefreshToken(dbc, rd.RefreshToken)
		if err != nil {
			return fmt.Errorf("load refresh token: %w", err)
		}
		if existing == nil {
			return ErrTokenRevoked
		}
		if existing.ExpiresAt.Before(as.now()) {
			if err := as.userTokenRepo.Delete(dbc, existing.ID); err != nil {
				return fmt.Errorf("delete expired token: %w", err)
			}
			return ErrTokenRevoked
		}
		pair, err = as.issueTokens(dbc, existing.UserID)
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.Delete(dbc, existing.ID); err != nil {
			return fmt.Errorf("remove old token: %w", err)
		}
		return nil
	})
	if errors.Is(err, ErrTokenRevoked) {
		return TokenPair{}, domainagg.NewError(domainagg.CodeUnauthorized, op, err.Error(), err)
	}
	if err != nil {
		as.log.Error("refresh failed", "error", err)
		return TokenPair{}, domainagg.NewError(domainagg.CodeInternal, op, "refresh tokens", err)
	}
	as.evict(ctx, rd.TokenString)
	observability.Current().IncAuthEvent("refresh")
	return pair, nil
}

func (as *authService) LogoutUser(ctx context.Context) error {
	const op = "Auth.LogoutUser"
	ctx, span := observability.StartSpan(ctx, op)
	defer span.End()

	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenString == "" {
		return domainagg.NewError(domainagg.CodeUnauthorized, op, "not authenticated", nil)
	}
	if _, err := as.userTokenRepo.DeleteByAccessToken(dbctx.Context{Ctx: ctx}, rd.TokenString); err != nil {
		as.log.Error("logout failed", "error", err)
		return domainagg.NewError(domainagg.CodeInternal, op, "delete token", err)
	}
	as.evict(ctx, rd.TokenString)
	observability.Current().IncAuthEvent("logout")
	return nil
}

// SetContextFromToken verifies the JWT and that its session row still
// exists, then attaches RequestData to the returned context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	const op = "Auth.SetContextFromToken"
	if tokenString == "" {
		return ctx, nil
	}
	userID, err := as.parseAccessToken(tokenString)
	if err != nil {
		return ctx, domainagg.NewError(domainagg.CodeUnauthorized, op, "invalid token", err)
	}

	if s, ok, err := as.cache.Lookup(ctx, tokenString); err != nil {
		as.log.Warn("token cache lookup failed", "error", err)
		observability.Current().IncTokenCache("error")
	} else if ok && s.UserID == userID {
		observability.Current().IncTokenCache("hit")
		return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
			TokenString:  tokenString,
			RefreshToken: s.RefreshToken,
			UserID:       userID,
		}), nil
	} else {
		observability.Current().IncTokenCache("miss")
	}

	row, err := as.userTokenRepo.FindByAccessToken(dbctx.Context{Ctx: ctx}, tokenString)
	if err != nil {
		return ctx, domainagg.NewError(domainagg.CodeInternal, op, "load token", err)
	}
	if row == nil || row.UserID != userID {
		return ctx, domainagg.NewError(domainagg.CodeUnauthorized, op, ErrTokenRevoked.Error(), ErrTokenRevoked)
	}

	ttl := min(as.accessTTL, row.ExpiresAt.Sub(as.now()))
	if err := as.cache.Put(ctx, tokenString, redis.Session{UserID: userID, RefreshToken: row.RefreshToken}, ttl); err != nil {
		as.log.Warn("token cache put failed", "error", err)
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString:  tokenString,
		RefreshToken: row.RefreshToken,
		UserID:       userID,
	}), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) issueTokens(dbc dbctx.Context, userID uuid.UUID) (TokenPair, error) {
	access, err := as.generateAccessToken(userID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}
	row := &types.UserToken{
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    as.now().Add(as.refreshTTL).UTC(),
	}
	if err := as.userTokenRepo.Create(dbc, row); err != nil {
		return TokenPair{}, fmt.Errorf("create user token: %w", err)
	}
	return TokenPair{
		AccessToken:  access,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    int(as.accessTTL / time.Second),
	}, nil
}

func (as *authService) generateAccessToken(userID uuid.UUID) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) parseAccessToken(tokenString string) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(as.now))
	if err != nil {
		return uuid.Nil, err
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("invalid or expired token")
	}
	return uuid.Parse(claims.Subject)
}

func (as *authService) evict(ctx context.Context, token string) {
	if err := as.cache.Evict(ctx, token); err != nil {
		as.log.Warn("token cache evict failed", "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(email, password, firstName, lastName string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return fmt.Errorf("email is invalid")
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len([]rune(firstName)) > maxNameLength || len([]rune(lastName)) > maxNameLength {
		return fmt.Errorf("names must be at most %d characters", maxNameLength)
	}
	return nil
}
