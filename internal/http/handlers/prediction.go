package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/vitality-backend/internal/http/response"
	"github.com/yungbote/vitality-backend/internal/services"
)

type PredictionHandler struct {
	predictions services.PredictionService
}

func NewPredictionHandler(predictions services.PredictionService) *PredictionHandler {
	return &PredictionHandler{predictions: predictions}
}

// GET /predictions/:id?limit=N
func (h *PredictionHandler) ListRecent(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}
	rows, err := h.predictions.ListRecent(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"predictions": listOrEmpty(rows)})
}
