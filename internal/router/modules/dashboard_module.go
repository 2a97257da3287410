package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/appdotbuilder/attendance-tracker/internal/container"
	handlers "github.com/appdotbuilder/attendance-tracker/internal/interface/http"
	"github.com/appdotbuilder/attendance-tracker/internal/interface/middleware"
	"github.com/appdotbuilder/attendance-tracker/pkg/helpers"
)

// DashboardModule wires the landing-page aggregate route
// Protected: GET /api/dashboard
type DashboardModule struct {
	Handler *handlers.DashboardHandler
	JWT     *helpers.JWTManager
}

func NewDashboardModule(h *handlers.DashboardHandler, jwt *helpers.JWTManager) *DashboardModule {
	return &DashboardModule{Handler: h, JWT: jwt}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/dashboard")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("", m.Handler.Show)
	}
}
