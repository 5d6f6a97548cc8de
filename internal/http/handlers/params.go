package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/vitality-backend/internal/http/response"
)

func uuidParam(c *gin.Context, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, fmt.Errorf("%s: %w", name, err))
		return uuid.Nil, false
	}
	return id, true
}

// intQuery reads an optional integer query parameter; absent means def.
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", fmt.Errorf("%s must be a non-negative integer", name))
		return 0, false
	}
	return n, true
}

func listOrEmpty[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
