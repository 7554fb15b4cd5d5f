package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jengzang/fleet-activity-go/internal/export"
	"github.com/jengzang/fleet-activity-go/internal/models"
	"github.com/jengzang/fleet-activity-go/internal/report"
	"github.com/jengzang/fleet-activity-go/pkg/response"
)

// ReportHandler serves activity-report generation and export.
type ReportHandler struct {
	generator *report.Generator
	loc       *time.Location
}

// NewReportHandler creates a new report handler
func NewReportHandler(g *report.Generator, loc *time.Location) *ReportHandler {
	return &ReportHandler{generator: g, loc: loc}
}

// Generate handles POST /reports/activity
func (h *ReportHandler) Generate(c *gin.Context) {
	rep, ok := h.run(c)
	if !ok {
		return
	}
	response.Success(c, rep)
}

// Export handles GET /reports/activity/export, streaming the report as a
// CSV attachment.
func (h *ReportHandler) Export(c *gin.Context) {
	rep, ok := h.run(c)
	if !ok {
		return
	}

	filename := export.Filename(rep.From, rep.To)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	if err := export.WriteCSV(c.Writer, rep); err != nil {
		log.Printf("[handler] csv export failed: %v", err)
	}
}

func (h *ReportHandler) run(c *gin.Context) (*models.ActivityReport, bool) {
	var filter models.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "invalid report filter: "+err.Error())
		return nil, false
	}

	from, to, err := resolveDateRange(filter, h.loc)
	if err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}

	rep, err := h.generator.Generate(c.Request.Context(), from, to)
	if err != nil {
		var refErr *report.ReferenceFetchError
		var devErr *report.DeviceFetchError
		switch {
		case errors.As(err, &refErr), errors.As(err, &devErr):
			response.BadGateway(c, err.Error())
		default:
			response.InternalError(c, err.Error())
		}
		return nil, false
	}
	return rep, true
}

// resolveDateRange turns a filter into an inclusive calendar-date range.
// Presets: thisMonth (default) runs from the 1st to today, lastMonth
// covers the full previous month, custom uses explicit from/to dates.
func resolveDateRange(filter models.ReportFilter, loc *time.Location) (time.Time, time.Time, error) {
	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch filter.Preset {
	case "custom":
		from, err := time.ParseInLocation("2006-01-02", filter.From, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q", filter.From)
		}
		to, err := time.ParseInLocation("2006-01-02", filter.To, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q", filter.To)
		}
		if from.After(to) {
			return time.Time{}, time.Time{}, fmt.Errorf("start date must be before end date")
		}
		return from, to, nil
	case "lastMonth":
		firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		from := firstOfThis.AddDate(0, -1, 0)
		to := firstOfThis.AddDate(0, 0, -1)
		return from, to, nil
	default:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return from, today, nil
	}
}
