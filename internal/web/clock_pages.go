package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/metrics"
	"github.com/sitecrew/timeclock/internal/core/domain"
)

// ClockIn opens a session for the workman. The workman is loaded first so
// the flash can name them.
func (p *Pages) ClockIn(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	w, err := p.workmen.Get(ctx, user, c.Param("trn"))
	if err != nil {
		return p.fail(c, err, "/dashboard")
	}
	back := workmanURL(w.TRN)

	_, err = p.clock.ClockIn(ctx, user, w.TRN, c.FormValue("notes"))
	metrics.ObserveClock("clock_in", err)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyClockedIn):
		flash(c, flashWarning, fmt.Sprintf("%s is already clocked in", w.Name))
		return redirect(c, back)
	default:
		return p.fail(c, err, back)
	}
	flash(c, flashSuccess, fmt.Sprintf("%s clocked in successfully", w.Name))
	return redirect(c, back)
}

func (p *Pages) ClockOut(c echo.Context) error {
	ctx := c.Request().Context()
	user := currentUser(c)
	w, err := p.workmen.Get(ctx, user, c.Param("trn"))
	if err != nil {
		return p.fail(c, err, "/dashboard")
	}
	back := workmanURL(w.TRN)

	_, err = p.clock.ClockOut(ctx, user, w.TRN, c.FormValue("notes"))
	metrics.ObserveClock("clock_out", err)
	if err != nil {
		return p.fail(c, err, back)
	}
	flash(c, flashSuccess, fmt.Sprintf("%s clocked out successfully", w.Name))
	return redirect(c, back)
}

// TimeHistory lists every session of a workman, newest first, with totals.
func (p *Pages) TimeHistory(c echo.Context) error {
	hist, err := p.clock.History(c.Request().Context(), currentUser(c), c.Param("trn"))
	if err != nil {
		return p.fail(c, err, "/dashboard")
	}
	return render(c, http.StatusOK, "time_history.html", "Time history: "+hist.Workman.Name, hist)
}
