package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/vitality-backend/internal/domain"
	"github.com/yungbote/vitality-backend/internal/http/response"
	"github.com/yungbote/vitality-backend/internal/services"
)

type CorrelationHandler struct {
	correlations services.CorrelationService
}

func NewCorrelationHandler(correlations services.CorrelationService) *CorrelationHandler {
	return &CorrelationHandler{correlations: correlations}
}

// GET /correlations/:id?significance=strong,very-strong&validation_status=confirmed&limit=N
func (h *CorrelationHandler) List(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	filter := types.CorrelationFilter{
		ValidationStatus: types.ValidationStatus(strings.TrimSpace(c.Query("validation_status"))),
		Limit:            limit,
	}
	for _, s := range strings.Split(c.Query("significance"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			filter.Significance = append(filter.Significance, types.Significance(s))
		}
	}
	rows, err := h.correlations.List(c.Request.Context(), userID, filter)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"correlations": listOrEmpty(rows)})
}

// GET /insights/:id
func (h *CorrelationHandler) Insights(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	insights, err := h.correlations.DeriveInsights(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"insights": listOrEmpty(insights)})
}

type setValidationRequest struct {
	Status types.ValidationStatus `json:"status" binding:"required"`
}

// PATCH /correlations/:id/validation
func (h *CorrelationHandler) SetValidation(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_correlation_id")
	if !ok {
		return
	}
	var req setValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.correlations.SetValidation(c.Request.Context(), id, req.Status)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"correlation": row})
}
