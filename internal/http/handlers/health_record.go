package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vitality-backend/internal/http/response"
	"github.com/yungbote/vitality-backend/internal/services"
)

type HealthRecordHandler struct {
	records services.HealthRecordService
}

func NewHealthRecordHandler(records services.HealthRecordService) *HealthRecordHandler {
	return &HealthRecordHandler{records: records}
}

type ingestRecordsRequest struct {
	Records []services.HealthRecordInput `json:"records"`
}

// POST /health-records/:id
func (h *HealthRecordHandler) Ingest(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	var req ingestRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	rows, err := h.records.Ingest(c.Request.Context(), userID, req.Records)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"records": listOrEmpty(rows)})
}

// GET /health-records/:id?days=N
func (h *HealthRecordHandler) List(c *gin.Context) {
	userID, ok := uuidParam(c, "id", "invalid_user_id")
	if !ok {
		return
	}
	days, ok := intQuery(c, "days", 0)
	if !ok {
		return
	}
	rows, err := h.records.List(c.Request.Context(), userID, days)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"records": listOrEmpty(rows)})
}
