package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lipish/corexia/internal/http/response"
	"github.com/lipish/corexia/internal/platform/logger"
	"github.com/lipish/corexia/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

type loginUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, gin.H{
		"token":      res.Token,
		"expires_in": int(ah.authService.GetAccessTTL().Seconds()),
		"user":       loginUser{Name: res.Name, Email: res.Email},
	})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context()); err != nil {
		response.RespondAPIError(c, apiError(err))
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
