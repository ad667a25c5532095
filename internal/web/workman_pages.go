package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/metrics"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

func workmanURL(trn string) string {
	return "/workman/" + url.PathEscape(trn)
}

type dashboardPage struct {
	Search  string
	Workmen []ports.WorkmanView
}

// Dashboard lists workmen, filtered by the search query.
func (p *Pages) Dashboard(c echo.Context) error {
	search := strings.TrimSpace(c.QueryParam("search"))
	workmen, err := p.workmen.Search(c.Request().Context(), currentUser(c), search)
	if err != nil {
		return p.fail(c, err, "/dashboard")
	}
	return render(c, http.StatusOK, "dashboard.html", "Dashboard", dashboardPage{Search: search, Workmen: workmen})
}

type workmanFormPage struct {
	Editing bool
	Action  string
	Workman domain.Workman
}

func (p *Pages) NewWorkmanForm(c echo.Context) error {
	return render(c, http.StatusOK, "workman_form.html", "Register Workman", workmanFormPage{Action: "/register"})
}

// CreateWorkman registers a workman from the form.
func (p *Pages) CreateWorkman(c echo.Context) error {
	w, err := p.workmen.Create(c.Request().Context(), currentUser(c), ports.CreateWorkmanInput{
		TRN:      c.FormValue("trn"),
		Name:     c.FormValue("name"),
		Company:  c.FormValue("company"),
		Location: c.FormValue("location"),
	})
	if err != nil {
		return p.fail(c, err, "/register")
	}
	metrics.WorkmenChangesTotal.WithLabelValues("create").Inc()

	flash(c, flashSuccess, fmt.Sprintf("Workman %s registered successfully with TRN %s", w.Name, w.TRN))
	return redirect(c, "/dashboard")
}

// WorkmanDetail shows one workman with its clock controls.
func (p *Pages) WorkmanDetail(c echo.Context) error {
	detail, err := p.workmen.Get(c.Request().Context(), currentUser(c), c.Param("trn"))
	if err != nil {
		return p.fail(c, err, "/dashboard")
	}
	return render(c, http.StatusOK, "workman_detail.html", detail.Name, detail)
}

func (p *Pages) EditWorkmanForm(c echo.Context) error {
	detail, err := p.workmen.Get(c.Request().Context(), currentUser(c), c.Param("trn"))
	if err != nil {
		return p.fail(c, err, "/dashboard")
	}
	return render(c, http.StatusOK, "workman_form.html", "Edit "+detail.Name, workmanFormPage{
		Editing: true,
		Action:  workmanURL(detail.TRN) + "/edit",
		Workman: detail.Workman,
	})
}

// UpdateWorkman saves the edit form. The form always posts every field, so
// blank values are rejected by the registry.
func (p *Pages) UpdateWorkman(c echo.Context) error {
	trn := c.Param("trn")
	name, company, location := c.FormValue("name"), c.FormValue("company"), c.FormValue("location")

	w, err := p.workmen.Update(c.Request().Context(), currentUser(c), trn, domain.WorkmanPatch{
		Name:     &name,
		Company:  &company,
		Location: &location,
	})
	if err != nil {
		return p.fail(c, err, workmanURL(trn)+"/edit")
	}
	metrics.WorkmenChangesTotal.WithLabelValues("update").Inc()

	flash(c, flashSuccess, fmt.Sprintf("Workman %s updated successfully", w.Name))
	return redirect(c, workmanURL(trn))
}

// DeleteWorkman removes the workman and its time entries.
func (p *Pages) DeleteWorkman(c echo.Context) error {
	trn := c.Param("trn")
	if err := p.workmen.Delete(c.Request().Context(), currentUser(c), trn); err != nil {
		return p.fail(c, err, workmanURL(trn))
	}
	metrics.WorkmenChangesTotal.WithLabelValues("delete").Inc()

	flash(c, flashSuccess, fmt.Sprintf("Workman %s deleted successfully", trn))
	return redirect(c, "/dashboard")
}

// Locations groups workmen by site.
func (p *Pages) Locations(c echo.Context) error {
	groups, err := p.workmen.Locations(c.Request().Context(), currentUser(c))
	if err != nil {
		return p.fail(c, err, "/dashboard")
	}
	return render(c, http.StatusOK, "locations.html", "Locations", groups)
}
