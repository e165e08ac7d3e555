package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReportLister renders the recorded sanction hits
type ReportLister interface {
	ListReports(ctx context.Context) (string, error)
}

// ReportHandler serves the public report page
type ReportHandler struct {
	reports ReportLister
}

func NewReportHandler(reports ReportLister) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// List renders every recorded sanction hit as HTML
func (h *ReportHandler) List(c *gin.Context) {
	page, err := h.reports.ListReports(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

// Health reports that the process is serving requests
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
