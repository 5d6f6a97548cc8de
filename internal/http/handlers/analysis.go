package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vitality-backend/internal/http/response"
	"github.com/yungbote/vitality-backend/internal/services"
)

type AnalysisHandler struct {
	correlations services.CorrelationService
	predictions  services.PredictionService
	moments      services.MicroMomentService
}

func NewAnalysisHandler(correlations services.CorrelationService, predictions services.PredictionService, moments services.MicroMomentService) *AnalysisHandler {
	return &AnalysisHandler{correlations: correlations, predictions: predictions, moments: moments}
}

type analyzeCorrelationsRequest struct {
	LookbackDays int `json:"lookback_days"`
}

// POST /analyze/correlations/:id
func (h *AnalysisHandler) AnalyzeCorrelations(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	var req analyzeCorrelationsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.LookbackDays < 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("lookback_days must not be negative"))
		return
	}
	rows, err := h.correlations.Analyze(c.Request.Context(), userID, req.LookbackDays)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"correlations": listOrEmpty(rows)})
}

// POST /analyze/predictions/:id
func (h *AnalysisHandler) AnalyzePredictions(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	rows, err := h.predictions.Predict(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"predictions": listOrEmpty(rows)})
}

// POST /schedule/micro-moments/:id
func (h *AnalysisHandler) ScheduleMicroMoments(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	rows, err := h.moments.Schedule(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"micro_moments": listOrEmpty(rows)})
}
