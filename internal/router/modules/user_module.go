package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/appdotbuilder/attendance-tracker/internal/container"
	handlers "github.com/appdotbuilder/attendance-tracker/internal/interface/http"
	"github.com/appdotbuilder/attendance-tracker/internal/interface/middleware"
	"github.com/appdotbuilder/attendance-tracker/pkg/helpers"
)

// UserModule wires the account-management routes. The role check itself
// lives in the application policy; routes here only require a session.
// Protected: GET/POST /api/users, GET /api/users/search,
// GET/PUT/DELETE /api/users/:id
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/users")
	auth.Use(middleware.Auth(container.GetRedis(), m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("", m.Handler.List)
		auth.POST("", m.Handler.Create)
		auth.GET("/search", m.Handler.Search)
		auth.GET("/:id", m.Handler.Get)
		auth.PUT("/:id", m.Handler.Update)
		auth.DELETE("/:id", m.Handler.Delete)
	}
}
