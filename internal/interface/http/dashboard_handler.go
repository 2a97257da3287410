package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/attendance-tracker/internal/application"
	"github.com/appdotbuilder/attendance-tracker/pkg/response"
)

// DashboardHandler serves the landing-page aggregates, shaped per role.
type DashboardHandler struct {
	Svc    *application.DashboardService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

func (h *DashboardHandler) Show(c *gin.Context) {
	actor := actorFrom(c)

	if actor.IsAdmin() {
		d, err := h.Svc.Admin(c.Request.Context())
		if err != nil {
			if h.Logger != nil {
				h.Logger.WithError(err).Error("admin dashboard failed")
			}
			response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
			return
		}
		response.Success(c, http.StatusOK, gin.H{
			"role":              "admin",
			"total_employees":   d.TotalEmployees,
			"total_admins":      d.TotalAdmins,
			"today_attendance":  d.TodayAttendance,
			"total_records":     d.TotalRecords,
			"recent_attendance": recordPayloads(d.RecentAttendance, true),
			"today_check_ins":   recordPayloads(d.TodayCheckIns, true),
		}, "dashboard", nil)
		return
	}

	d, err := h.Svc.Employee(c.Request.Context(), actor)
	if err != nil {
		if h.Logger != nil {
			h.Logger.WithError(err).Error("employee dashboard failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"role":              "employee",
		"has_checked_in":    d.HasCheckedIn,
		"has_checked_out":   d.HasCheckedOut,
		"check_in_time":     d.CheckInTime,
		"check_out_time":    d.CheckOutTime,
		"monthly_check_ins": d.MonthlyCheckIns,
		"total_records":     d.TotalRecords,
		"recent_attendance": recordPayloads(d.RecentAttendance, false),
	}, "dashboard", nil)
}
