package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vitality-backend/internal/http/response"
	"github.com/yungbote/vitality-backend/internal/services"
)

type MicroMomentHandler struct {
	moments services.MicroMomentService
}

func NewMicroMomentHandler(moments services.MicroMomentService) *MicroMomentHandler {
	return &MicroMomentHandler{moments: moments}
}

// GET /micro-moments/:id?days=N
func (h *MicroMomentHandler) List(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", 0)
	if !ok {
		return
	}
	rows, err := h.moments.List(c.Request.Context(), userID, days)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"micro_moments": listOrEmpty(rows)})
}

// POST /micro-moments/:id/response
func (h *MicroMomentHandler) RecordResponse(c *gin.Context) {
	id, ok := uuidParam(c, "id", "invalid_moment_id")
	if !ok {
		return
	}
	var in services.MomentResponseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	row, err := h.moments.RecordResponse(c.Request.Context(), id, in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"micro_moment": row})
}
