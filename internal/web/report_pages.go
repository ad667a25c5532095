package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

type reportsPage struct {
	Report  *ports.Report
	Filter  ports.ReportFilter
	Workmen []ports.WorkmanView
}

// Reports renders the report filter and, when the filter is valid, its result.
func (p *Pages) Reports(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	filter := ports.ReportFilter{
		StartDate: c.QueryParam("start_date"),
		EndDate:   c.QueryParam("end_date"),
		TRN:       c.QueryParam("workman"),
	}

	workmen, err := p.workmen.Search(ctx, user, "")
	if err != nil {
		return p.fail(c, err, "/dashboard")
	}

	page := reportsPage{Filter: filter, Workmen: workmen}
	report, err := p.reports.Report(ctx, user, filter)
	switch {
	case err == nil:
		page.Report = report
	case errors.Is(err, domain.ErrValidation):
		// Show the form again with the message instead of redirecting.
		flash(c, flashError, sentence(err.Error()))
	default:
		return p.fail(c, err, "/reports")
	}
	return render(c, http.StatusOK, "reports.html", "Reports", page)
}
