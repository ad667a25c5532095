package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/core/ports"
)

type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Report handles GET /api/v1/reports.
//
// @Summary      Time report
// @Description  Entries with clock_in inside [start_date, end_date], end inclusive.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        start_date  query     string  false  "YYYY-MM-DD"
// @Param        end_date    query     string  false  "YYYY-MM-DD"
// @Param        trn         query     string  false  "Workman TRN"
// @Success      200         {object}  reportResponse
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Router       /api/v1/reports [get]
func (h *ReportHandler) Report(c echo.Context) error {
	report, err := h.service.Report(c.Request().Context(), actor(c), ports.ReportFilter{
		StartDate: c.QueryParam("start_date"),
		EndDate:   c.QueryParam("end_date"),
		TRN:       c.QueryParam("trn"),
	})
	if err != nil {
		return err
	}

	resp := reportResponse{
		Filter:    report.Filter,
		Entries:   make([]reportEntryResponse, len(report.Entries)),
		Summary:   report.Summary,
		ByWorkman: report.ByWorkman,
	}
	for i := range report.Entries {
		row := &report.Entries[i]
		resp.Entries[i] = reportEntryResponse{
			timeEntryResponse: toTimeEntryResponse(&row.TimeEntry),
			WorkmanName:       row.WorkmanName,
		}
	}
	if resp.ByWorkman == nil {
		resp.ByWorkman = []ports.WorkmanStats{}
	}
	return c.JSON(http.StatusOK, resp)
}
