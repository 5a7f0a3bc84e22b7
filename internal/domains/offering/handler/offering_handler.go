package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fitstudio-backend/internal/domains/offering/model"
	"fitstudio-backend/internal/domains/offering/service"
	"fitstudio-backend/internal/shared/response"
)

type OfferingHandler struct {
	service service.ServiceInterface
}

func NewOfferingHandler(svc service.ServiceInterface) *OfferingHandler {
	return &OfferingHandler{service: svc}
}

// ListOfferings handles GET /api/v1/offerings
func (h *OfferingHandler) ListOfferings(c *gin.Context) {
	var filter model.ListOfferingsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	filter.SetDefaults()
	if err := filter.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	offerings, total, err := h.service.ListOfferings(c.Request.Context(), &filter)
	if err != nil {
		respondOfferingError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, offerings, &response.Meta{
		Page:  filter.Page,
		Limit: filter.Limit,
		Total: total,
	})
}

// GetOffering handles GET /api/v1/offerings/:idOrSlug
func (h *OfferingHandler) GetOffering(c *gin.Context) {
	param := c.Param("id")

	var (
		offering *model.Offering
		err      error
	)
	if id, parseErr := uuid.Parse(param); parseErr == nil {
		offering, err = h.service.GetOfferingByID(c.Request.Context(), id)
	} else {
		offering, err = h.service.GetOfferingBySlug(c.Request.Context(), param)
	}
	if err != nil {
		respondOfferingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, offering)
}

// CreateOffering handles POST /api/v1/admin/offerings
func (h *OfferingHandler) CreateOffering(c *gin.Context) {
	var req model.CreateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	offering, err := h.service.CreateOffering(c.Request.Context(), &req)
	if err != nil {
		respondOfferingError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, offering)
}

// UpdateOffering handles PUT /api/v1/admin/offerings/:id
func (h *OfferingHandler) UpdateOffering(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid offering ID")
		return
	}

	var req model.UpdateOfferingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	offering, err := h.service.UpdateOffering(c.Request.Context(), id, &req)
	if err != nil {
		respondOfferingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, offering)
}

// DeleteOffering handles DELETE /api/v1/admin/offerings/:id
func (h *OfferingHandler) DeleteOffering(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid offering ID")
		return
	}

	if err := h.service.DeleteOffering(c.Request.Context(), id); err != nil {
		respondOfferingError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "offering deleted"})
}

// AttachImages handles POST /api/v1/admin/offerings/:id/images
func (h *OfferingHandler) AttachImages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid offering ID")
		return
	}

	var req model.AttachImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	images, err := h.service.AttachImages(c.Request.Context(), id, &req)
	if err != nil {
		respondOfferingError(c, err)
		return
	}

	response.Success(c, http.StatusAccepted, images)
}

func respondOfferingError(c *gin.Context, err error) {
	response.ErrorResponse(c, model.GetHTTPStatusCode(err), model.GetErrorCode(err), err.Error())
}
