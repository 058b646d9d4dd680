package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/deploydash/internal/interface/http"
)

type HealthModule struct {
	Now func() time.Time
}

func NewHealthModule() *HealthModule { return &HealthModule{Now: time.Now} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", handlers.Health(m.Now))
}
