package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fitstudio-backend/internal/domains/discount/model"
	"fitstudio-backend/internal/domains/discount/service"
	"fitstudio-backend/internal/shared/response"
)

// POSHandler serves the point-of-sale endpoints used by front desk staff
type POSHandler struct {
	service service.ServiceInterface
}

func NewPOSHandler(svc service.ServiceInterface) *POSHandler {
	return &POSHandler{service: svc}
}

// ValidateDiscount handles POST /api/v1/discounts/validate
//
// Evaluation is read-only, so the POS calls this for a live preview
// before the sale is finalized. A rejected code is a 200 with
// eligible=false; only infrastructure failures produce error statuses.
func (h *POSHandler) ValidateDiscount(c *gin.Context) {
	var req model.EligibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	result, err := h.service.Evaluate(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// RedeemDiscount handles POST /api/v1/discounts/redeem
//
// On success the redemption is committed and the ledger entry returned.
// A rejection is still a 200 with eligible=false. A concurrent loss of
// the last use comes back as a 409 so the POS can re-validate.
func (h *POSHandler) RedeemDiscount(c *gin.Context) {
	var req model.RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err)
		return
	}

	staffID, ok := getStaffIDFromContext(c)
	if !ok {
		response.Unauthorized(c, "Missing staff identity")
		return
	}
	staffName := getStaffNameFromContext(c)

	outcome, err := h.service.Redeem(c.Request.Context(), &req, staffID, staffName)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	status := http.StatusOK
	if outcome.Redemption != nil {
		status = http.StatusCreated
	}
	response.Success(c, status, outcome)
}
