package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	library Pinger
	export  ExportStatus
	version string
}

func NewHealthController(library Pinger, export ExportStatus, version string) *HealthController {
	return &HealthController{
		library: library,
		export:  export,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.library != nil {
		if err := h.library.Ping(); err != nil {
			checks["library"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["library"] = "ok"
		}
	} else {
		checks["library"] = "not configured"
	}

	// A failed export is reported but does not make the server unhealthy
	if h.export != nil {
		checks["export"] = exportCheck(h.export)
	} else {
		checks["export"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func exportCheck(status ExportStatus) string {
	if !status.IsRunning() {
		return "disabled"
	}

	check := "scheduled"
	if next := status.GetNextRunTime(); next != nil {
		check += ", next run " + next.Format(time.RFC3339)
	}

	result, err := status.LastResult()
	switch {
	case err != nil:
		check += ", last run failed: " + err.Error()
	case result != nil:
		check += fmt.Sprintf(", last run: %d processed, %d skipped", result.Processed, result.Skipped)
	default:
		check += ", no run yet"
	}
	return check
}
