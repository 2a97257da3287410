package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/appdotbuilder/attendance-tracker/internal/application"
	"github.com/appdotbuilder/attendance-tracker/internal/domain/entity"
	"github.com/appdotbuilder/attendance-tracker/pkg/response"
	"github.com/appdotbuilder/attendance-tracker/pkg/validation"
)

// AttendanceHandler serves event submission and the attendance listing.
type AttendanceHandler struct {
	Svc    *application.AttendanceService
	Logger *logrus.Logger
}

func NewAttendanceHandler(svc *application.AttendanceService, logger *logrus.Logger) *AttendanceHandler {
	return &AttendanceHandler{Svc: svc, Logger: logger}
}

type submitRequest struct {
	Type            string   `json:"type" binding:"required,oneof=check_in check_out"`
	Latitude        *float64 `json:"latitude" binding:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude" binding:"omitempty,longitude"`
	LocationAddress *string  `json:"location_address" binding:"omitempty,max=500"`
}

// Submit records a check-in or check-out. A rejection by the admission
// rule is reported as 422 with a machine-readable reason, not as a server
// fault.
func (h *AttendanceHandler) Submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	dec, err := h.Svc.Submit(c.Request.Context(), actorFrom(c), application.SubmitInput{
		Type:            entity.EventType(req.Type),
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		LocationAddress: req.LocationAddress,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrForbidden):
			response.Error[any](c, http.StatusForbidden, "forbidden", nil)
		case errors.Is(err, application.ErrInvalidEventType):
			response.Error[any](c, http.StatusUnprocessableEntity, "invalid event type", nil)
		default:
			if h.Logger != nil {
				h.Logger.WithError(err).Error("attendance submission failed")
			}
			response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		}
		return
	}
	if !dec.Accepted {
		response.Error[any](c, http.StatusUnprocessableEntity, dec.Reason.Message(), gin.H{"reason": dec.Reason})
		return
	}
	response.Success(c, http.StatusCreated, recordPayload(dec.Record, false), "attendance recorded", nil)
}

// List returns one page of attendance records. Admins may pass user_id to
// scope to one user or omit it to see everyone; employees always see their
// own records.
func (h *AttendanceHandler) List(c *gin.Context) {
	actor := actorFrom(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	target := c.Query("user_id")
	if target == "all" {
		target = ""
	}

	res, err := h.Svc.List(c.Request.Context(), actor, target, page)
	if err != nil {
		if errors.Is(err, application.ErrForbidden) {
			response.Error[any](c, http.StatusForbidden, "forbidden", nil)
			return
		}
		if h.Logger != nil {
			h.Logger.WithError(err).Error("attendance listing failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		return
	}
	response.Success(c, http.StatusOK, recordPayloads(res.Records, actor.IsAdmin()), "attendance records", pageMeta(res.Page, res.PerPage, res.Total))
}
