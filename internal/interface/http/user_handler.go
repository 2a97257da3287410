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

// UserHandler serves the admin account-management endpoints.
type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"required,oneof=employee admin"`
}

type updateUserRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,pwd"`
	Role     string `json:"role" binding:"required,oneof=employee admin"`
}

func userErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, application.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, application.ErrEmailTaken):
		return http.StatusConflict, "email already in use"
	case errors.Is(err, application.ErrInvalidRole):
		return http.StatusUnprocessableEntity, "invalid role"
	}
	return http.StatusInternalServerError, "internal error"
}

func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	res, err := h.Svc.ListUsers(c.Request.Context(), actorFrom(c), page)
	if err != nil {
		status, msg := userErrStatus(err)
		response.Error[any](c, status, msg, nil)
		return
	}
	out := make([]gin.H, 0, len(res.Users))
	for i := range res.Users {
		out = append(out, userPayload(&res.Users[i]))
	}
	response.Success(c, http.StatusOK, out, "users", pageMeta(res.Page, res.PerPage, res.Total))
}

func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchUsers(c.Request.Context(), actorFrom(c), q, size)
	if err != nil {
		status, msg := userErrStatus(err)
		response.Error[any](c, status, msg, nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}

func (h *UserHandler) Get(c *gin.Context) {
	detail, err := h.Svc.GetUser(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		status, msg := userErrStatus(err)
		response.Error[any](c, status, msg, nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"user":              userPayload(detail.User),
		"recent_attendance": recordPayloads(detail.RecentAttendance, false),
	}, "user", nil)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.CreateUser(c.Request.Context(), actorFrom(c), application.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		status, msg := userErrStatus(err)
		response.Error[any](c, status, msg, nil)
		return
	}
	response.Success(c, http.StatusCreated, userPayload(u), "user created", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateUser(c.Request.Context(), actorFrom(c), c.Param("id"), application.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     entity.Role(req.Role),
	})
	if err != nil {
		status, msg := userErrStatus(err)
		response.Error[any](c, status, msg, nil)
		return
	}
	response.Success(c, http.StatusOK, userPayload(u), "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor := actorFrom(c)
	id := c.Param("id")
	if err := h.Svc.DeleteUser(c.Request.Context(), actor, id); err != nil {
		status, msg := userErrStatus(err)
		if errors.Is(err, application.ErrForbidden) && actor.ID == id {
			msg = "you cannot delete your own account"
		}
		response.Error[any](c, status, msg, nil)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "user deleted", nil)
}
