package router

import (
	"github.com/appdotbuilder/attendance-tracker/internal/application"
	"github.com/appdotbuilder/attendance-tracker/internal/container"
	pginfra "github.com/appdotbuilder/attendance-tracker/internal/infrastructure/postgres"
	handlers "github.com/appdotbuilder/attendance-tracker/internal/interface/http"
	"github.com/appdotbuilder/attendance-tracker/internal/router/modules"
)

type Deps struct {
	Users      *application.UserService
	Attendance *application.AttendanceService
	Dashboard  *application.DashboardService

	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	AttendanceHandler *handlers.AttendanceHandler
	DashboardHandler  *handlers.DashboardHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	userRepo := pginfra.NewUserRepository(container.GetPGPool())
	attRepo := pginfra.NewAttendanceRepository(container.GetPGPool())

	users := application.NewUserService(userRepo, attRepo, container.GetJWT(), container.GetRedis(), logger)
	users.GCS = container.GetGCS()
	users.GCSBucket = cfg.GCSBucket
	users.ES = container.GetES()
	users.ESUsersIndex = cfg.ESUsersIndex
	users.Pub = container.GetRabbitPub()
	users.AppName = cfg.AppName

	attendance := application.NewAttendanceService(attRepo, logger)
	dashboard := application.NewDashboardService(userRepo, attRepo)

	return Deps{
		Users:      users,
		Attendance: attendance,
		Dashboard:  dashboard,

		AuthHandler:       handlers.NewAuthHandler(users, logger, cfg.CookieDomain, cfg.CookieSecure),
		UserHandler:       handlers.NewUserHandler(users, logger),
		AttendanceHandler: handlers.NewAttendanceHandler(attendance, logger),
		DashboardHandler:  handlers.NewDashboardHandler(dashboard, logger),
	}
}

// InitModules wires every feature module into the registry. Called once
// during startup.
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewAuthModule(deps.AuthHandler, container.GetJWT()))
	r.Add(modules.NewAttendanceModule(deps.AttendanceHandler, container.GetJWT()))
	r.Add(modules.NewDashboardModule(deps.DashboardHandler, container.GetJWT()))
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
