package handler

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/davitra/fleetboard/internal/service"
	"github.com/davitra/fleetboard/pkg/response"
)

// ReportBuilder produces a cycle-fresh report.
type ReportBuilder interface {
	BuildReport(ctx context.Context) (*service.Report, error)
}

// ReportHandler serves the leaderboard page.
type ReportHandler struct {
	reports ReportBuilder
}

// NewReportHandler creates a report handler.
func NewReportHandler(reports ReportBuilder) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// GetLeaderboard handles GET /. Each request runs a full cycle; any auth or
// fetch failure aborts the request with no partial leaderboard.
func (h *ReportHandler) GetLeaderboard(c *gin.Context) {
	report, err := h.reports.BuildReport(c.Request.Context())
	if err != nil {
		log.Printf("report cycle failed: %v", err)
		response.BadGateway(c, err.Error())
		return
	}

	page := pageData{
		TotalKm: fmt.Sprintf("%.2f", report.Board.TotalDistanceKm),
	}
	for _, e := range report.Board.Entries {
		page.Rows = append(page.Rows, pageRow{
			Rank:       e.Rank,
			DeviceName: e.DeviceName,
			DistanceKm: fmt.Sprintf("%.2f", e.TotalDistanceKm),
			SpeedKmh:   fmt.Sprintf("%.2f", e.AverageSpeedKmh),
			Winner:     e.Rank == 1,
			MapURL:     report.MapURL[e.DeviceName],
		})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, page); err != nil {
		log.Printf("failed to render leaderboard page: %v", err)
		response.InternalError(c, "failed to render page")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Health handles GET /health.
func (h *ReportHandler) Health(c *gin.Context) {
	response.OK(c, gin.H{"status": "ok"})
}
