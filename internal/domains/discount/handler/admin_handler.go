package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/discount/model"
	"fitstudio-backend/internal/domains/discount/service"
	"fitstudio-backend/internal/shared/response"
)

// AdminHandler serves the back-office discount catalog endpoints
type AdminHandler struct {
	service       service.ServiceInterface
	reportService service.ReportServiceInterface
}

func NewAdminHandler(svc service.ServiceInterface, reportSvc service.ReportServiceInterface) *AdminHandler {
	return &AdminHandler{
		service:       svc,
		reportService: reportSvc,
	}
}

// CreateDiscount handles POST /api/v1/admin/discounts
func (h *AdminHandler) CreateDiscount(c *gin.Context) {
	var req model.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	createdBy, ok := getStaffIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Missing staff identity")
		return
	}

	discount, err := h.service.CreateDiscount(c.Request.Context(), &req, createdBy)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, discount)
}

// GetDiscount handles GET /api/v1/admin/discounts/:id
func (h *AdminHandler) GetDiscount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	discount, err := h.service.GetDiscountByID(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, discount)
}

// ListDiscounts handles GET /api/v1/admin/discounts
func (h *AdminHandler) ListDiscounts(c *gin.Context) {
	var filter model.ListDiscountsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter.SetDefaults()
	if err := filter.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	discounts, total, err := h.service.ListDiscounts(c.Request.Context(), &filter)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, discounts, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// UpdateDiscount handles PUT /api/v1/admin/discounts/:id
func (h *AdminHandler) UpdateDiscount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	var req model.UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	discount, err := h.service.UpdateDiscount(c.Request.Context(), id, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, discount)
}

// EnableDiscount handles POST /api/v1/admin/discounts/:id/enable
func (h *AdminHandler) EnableDiscount(c *gin.Context) {
	h.setEnabled(c, true)
}

// DisableDiscount handles POST /api/v1/admin/discounts/:id/disable
func (h *AdminHandler) DisableDiscount(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *AdminHandler) setEnabled(c *gin.Context, enabled bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	discount, err := h.service.SetDiscountEnabled(c.Request.Context(), id, enabled)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, discount)
}

// DeleteDiscount handles DELETE /api/v1/admin/discounts/:id
func (h *AdminHandler) DeleteDiscount(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	outcome, err := h.service.DeleteDiscount(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, outcome)
}

// ListRedemptions handles GET /api/v1/admin/discounts/:id/redemptions
func (h *AdminHandler) ListRedemptions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 20)

	records, total, err := h.service.ListRedemptions(c.Request.Context(), id, page, limit)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, records, &response.Meta{
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

// GetStats handles GET /api/v1/admin/discounts/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// ExportRedemptions handles POST /api/v1/admin/discounts/export
func (h *AdminHandler) ExportRedemptions(c *gin.Context) {
	url, err := h.reportService.ExportRedemptions(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report_url": url})
}

// -------------------------------------------------------------------
// HELPERS
// -------------------------------------------------------------------

func respondDomainError(c *gin.Context, err error) {
	response.ErrorResponse(c, model.GetHTTPStatusCode(err), model.GetErrorCode(err), err.Error())
}

func getStaffIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := raw.(uuid.UUID)
	return id, ok
}

func getStaffNameFromContext(c *gin.Context) string {
	if raw, exists := c.Get("userName"); exists {
		if name, ok := raw.(string); ok {
			return name
		}
	}
	return ""
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
