package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/deploydash/internal/container"
	handlers "github.com/oksasatya/deploydash/internal/interface/http"
	"github.com/oksasatya/deploydash/internal/interface/middleware"
	"github.com/oksasatya/deploydash/pkg/helpers"
)

type TeamModule struct {
	Handler *handlers.TeamHandler
	JWT     *helpers.JWTManager
}

func NewTeamModule(h *handlers.TeamHandler, jwt *helpers.JWTManager) *TeamModule {
	return &TeamModule{Handler: h, JWT: jwt}
}

func (m *TeamModule) Register(rg *gin.RouterGroup) {
	team := rg.Group("/team")
	team.Use(middleware.Auth(m.JWT))
	team.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))

	// invitations fan out emails, keep them tighter
	inviteLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByUserID(), nil)
	{
		team.POST("/create", inviteLimiter, m.Handler.Create)
		team.GET("/my-team", m.Handler.MyTeam)
		team.GET("/search-users", m.Handler.SearchUsers)
		team.POST("/invite", inviteLimiter, m.Handler.Invite)
		team.PUT("/update", m.Handler.Update)
		team.GET("/my-invitations", m.Handler.MyInvitations)
		team.POST("/accept-invitation/:token", m.Handler.AcceptInvitation)
		team.POST("/reject-invitation/:token", m.Handler.RejectInvitation)
		team.DELETE("/delete", m.Handler.Delete)
		team.POST("/leave", m.Handler.Leave)
	}
}
