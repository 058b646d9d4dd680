package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/deploydash/internal/container"
	handlers "github.com/oksasatya/deploydash/internal/interface/http"
	"github.com/oksasatya/deploydash/internal/interface/middleware"
	"github.com/oksasatya/deploydash/pkg/helpers"
)

type ProjectModule struct {
	Handler *handlers.ProjectHandler
	JWT     *helpers.JWTManager
}

func NewProjectModule(h *handlers.ProjectHandler, jwt *helpers.JWTManager) *ProjectModule {
	return &ProjectModule{Handler: h, JWT: jwt}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	project := rg.Group("/project")
	project.Use(middleware.Auth(m.JWT))
	project.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))

	deployLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByUserID(), nil)
	{
		project.POST("/record", m.Handler.Record)
		project.GET("", m.Handler.List)
		project.POST("/deploy", deployLimiter, m.Handler.Deploy)
	}
}
