package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/deploydash/internal/application"
	"github.com/oksasatya/deploydash/internal/interface/middleware"
	"github.com/oksasatya/deploydash/pkg/response"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type googleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// Google exchanges a Google ID token for a session token.
func (h *AuthHandler) Google(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
		return
	}

	res, err := h.Svc.LoginWithGoogle(c.Request.Context(), req.Token)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Warn("google login rejected")
		}
		respondError(c, h.Logger, err, "")
		return
	}
	response.Message(c, http.StatusOK, "Login successful", gin.H{
		"user":  presentUser(res.User),
		"token": res.Token,
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Logger, err, "")
		return
	}
	response.Success(c, http.StatusOK, presentUser(u))
}
