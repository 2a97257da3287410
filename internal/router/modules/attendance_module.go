package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/appdotbuilder/attendance-tracker/internal/container"
	handlers "github.com/appdotbuilder/attendance-tracker/internal/interface/http"
	"github.com/appdotbuilder/attendance-tracker/internal/interface/middleware"
	"github.com/appdotbuilder/attendance-tracker/pkg/helpers"
)

// AttendanceModule wires the attendance routes
// Protected: POST /api/attendance, GET /api/attendance
type AttendanceModule struct {
	Handler *handlers.AttendanceHandler
	JWT     *helpers.JWTManager
}

func NewAttendanceModule(h *handlers.AttendanceHandler, jwt *helpers.JWTManager) *AttendanceModule {
	return &AttendanceModule{Handler: h, JWT: jwt}
}

func (m *AttendanceModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/attendance")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Handler.Submit)
		auth.GET("", m.Handler.List)
	}
}
