package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/deploydash/internal/container"
	handlers "github.com/oksasatya/deploydash/internal/interface/http"
	"github.com/oksasatya/deploydash/internal/interface/middleware"
	"github.com/oksasatya/deploydash/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public login, limited per IP
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/auth/google", loginLimiter, m.Handler.Google)

	auth := rg.Group("/auth")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/profile", m.Handler.Profile)
	}
}
