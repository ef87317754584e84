package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/dayplanner-backend/internal/http/response"
	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
	"github.com/yungbote/dayplanner-backend/internal/services"
)

type AuthCookieConfig struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
	cookie      AuthCookieConfig
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService, cookie AuthCookieConfig) *AuthHandler {
	return &AuthHandler{
		log:         log.With("handler", "AuthHandler"),
		authService: authService,
		cookie:      cookie,
	}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	const op = "AuthHandler.Register"
	var req struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Password  string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, ah.log, badRequest(op, err), nil)
		return
	}
	user, err := ah.authService.RegisterUser(c.Request.Context(), services.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.RespondError(c, ah.log, err, nil)
		return
	}
	response.RespondOK(c, response.Payload{"user": user}, response.Success("Registered", "Account created."))
}

func (ah *AuthHandler) Login(c *gin.Context) {
	const op = "AuthHandler.Login"
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, ah.log, badRequest(op, err), nil)
		return
	}
	pair, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondError(c, ah.log, err, nil)
		return
	}
	ah.setCookie(c, pair.AccessToken)
	response.RespondOK(c, tokenPayload(pair))
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	pair, err := ah.authService.RefreshUser(c.Request.Context())
	if err != nil {
		response.RespondError(c, ah.log, err, nil)
		return
	}
	ah.setCookie(c, pair.AccessToken)
	response.RespondOK(c, tokenPayload(pair))
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
		response.RespondError(c, ah.log, err, nil)
		return
	}
	ah.clearCookie(c)
	response.RespondOK(c, nil)
}

func tokenPayload(pair services.TokenPair) response.Payload {
	return response.Payload{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"expires_in":    pair.ExpiresIn,
	}
}

func (ah *AuthHandler) setCookie(c *gin.Context, token string) {
	if ah.cookie.Name == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ah.cookie.Name, token, int(ah.authService.GetAccessTTL().Seconds()), "/", "", ah.cookie.Secure, true)
}

func (ah *AuthHandler) clearCookie(c *gin.Context) {
	if ah.cookie.Name == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ah.cookie.Name, "", -1, "/", "", ah.cookie.Secure, true)
}
