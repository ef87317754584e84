package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/http/response"
	"github.com/yungbote/dayplanner-backend/internal/platform/ctxutil"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
	"github.com/yungbote/dayplanner-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
	cookieName  string
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService, cookieName: cookieName}
}

// RequireAuth answers 401 for a missing, invalid or revoked token and 500
// when the session store could not be consulted.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := am.extractToken(c)
		if token == "" {
			am.reject(c, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), token)
		switch {
		case err == nil:
		case domainagg.IsCode(err, domainagg.CodeUnauthorized):
			am.reject(c, http.StatusUnauthorized, "missing or invalid token")
			return
		default:
			am.log.Error("token verification failed", "error", err)
			am.reject(c, http.StatusInternalServerError, "could not verify session")
			return
		}
		if rd := ctxutil.GetRequestData(ctx); rd == nil || rd.UserID == uuid.Nil {
			response.AbortNG(c, http.StatusForbidden, response.Failure("Permission error", "forbidden"))
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) reject(c *gin.Context, status int, detail string) {
	response.AbortNG(c, status, response.Failure("Authentication error", detail))
}

// extractToken checks the bearer header, then the session cookie, then ?token=.
func (am *AuthMiddleware) extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); len(h) > len("Bearer ") && strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if am.cookieName != "" {
		if v, err := c.Cookie(am.cookieName); err == nil && v != "" {
			return v
		}
	}
	return c.Query("token")
}
