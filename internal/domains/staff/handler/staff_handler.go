package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/staff/model"
	"fitstudio-backend/internal/domains/staff/service"
	"fitstudio-backend/internal/shared/response"
)

type StaffHandler struct {
	service service.ServiceInterface
}

func NewStaffHandler(svc service.ServiceInterface) *StaffHandler {
	return &StaffHandler{service: svc}
}

// Login handles POST /api/v1/auth/login
func (h *StaffHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		respondStaffError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// RefreshToken handles POST /api/v1/auth/refresh
func (h *StaffHandler) RefreshToken(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		respondStaffError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// GetProfile handles GET /api/v1/auth/me
func (h *StaffHandler) GetProfile(c *gin.Context) {
	id, ok := staffIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Missing staff identity")
		return
	}

	dto, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondStaffError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// ChangePassword handles POST /api/v1/auth/change-password
func (h *StaffHandler) ChangePassword(c *gin.Context) {
	id, ok := staffIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Missing staff identity")
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), id, &req); err != nil {
		respondStaffError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password updated"})
}

// CreateStaff handles POST /api/v1/admin/staff
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	dto, err := h.service.CreateStaff(c.Request.Context(), &req)
	if err != nil {
		respondStaffError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, dto)
}

// ListStaff handles GET /api/v1/admin/staff
func (h *StaffHandler) ListStaff(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)

	members, total, err := h.service.ListStaff(c.Request.Context(), page, limit)
	if err != nil {
		respondStaffError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, members, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// UpdateRole handles PUT /api/v1/admin/staff/:id/role
func (h *StaffHandler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid staff ID")
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	dto, err := h.service.UpdateRole(c.Request.Context(), id, &req)
	if err != nil {
		respondStaffError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// UpdateStatus handles PUT /api/v1/admin/staff/:id/status
func (h *StaffHandler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid staff ID")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	dto, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		respondStaffError(c, err)
		return
	}

	response.Success(c, http.StatusOK, dto)
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

func respondStaffError(c *gin.Context, err error) {
	response.ErrorResponse(c, model.GetHTTPStatusCode(err), model.GetErrorCode(err), err.Error())
}

func staffIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
