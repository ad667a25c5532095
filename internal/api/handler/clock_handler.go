package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/metrics"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// ClockHandler exposes the clock-in / clock-out state machine.
type ClockHandler struct {
	service ports.ClockService
}

func NewClockHandler(service ports.ClockService) *ClockHandler {
	return &ClockHandler{service: service}
}

// ClockIn handles POST /api/v1/workmen/:trn/clock-in.
//
// @Summary      Clock a workman in
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trn   path      string        true   "Tax registration number"
// @Param        body  body      clockRequest  false  "Optional notes"
// @Success      200   {object}  clockResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/workmen/{trn}/clock-in [post]
func (h *ClockHandler) ClockIn(c echo.Context) error {
	var req clockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.service.ClockIn(c.Request().Context(), actor(c), c.Param("trn"), req.Notes)
	metrics.ObserveClock("clock_in", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, clockResponse{
		Message:   "Clocked in successfully",
		Status:    domain.StatusClockedIn,
		TimeEntry: toTimeEntryResponse(entry),
	})
}

// ClockOut handles POST /api/v1/workmen/:trn/clock-out.
//
// @Summary      Clock a workman out
// @Description  Notes are appended to the clock-in notes with " | ".
// @Tags         time-entries
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trn   path      string        true   "Tax registration number"
// @Param        body  body      clockRequest  false  "Optional notes"
// @Success      200   {object}  clockResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/workmen/{trn}/clock-out [post]
func (h *ClockHandler) ClockOut(c echo.Context) error {
	var req clockRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	entry, err := h.service.ClockOut(c.Request().Context(), actor(c), c.Param("trn"), req.Notes)
	metrics.ObserveClock("clock_out", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, clockResponse{
		Message:   "Clocked out successfully",
		Status:    domain.StatusClockedOut,
		TimeEntry: toTimeEntryResponse(entry),
	})
}

// History handles GET /api/v1/workmen/:trn/time-entries.
//
// @Summary      Time entry history
// @Tags         time-entries
// @Produce      json
// @Security     BearerAuth
// @Param        trn  path      string  true  "Tax registration number"
// @Success      200  {object}  historyResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/workmen/{trn}/time-entries [get]
func (h *ClockHandler) History(c echo.Context) error {
	hist, err := h.service.History(c.Request().Context(), actor(c), c.Param("trn"))
	if err != nil {
		return err
	}

	entries := make([]timeEntryResponse, len(hist.Entries))
	for i := range hist.Entries {
		entries[i] = toTimeEntryResponse(&hist.Entries[i])
	}
	return c.JSON(http.StatusOK, historyResponse{
		Workman:     workmanRef{TRN: hist.Workman.TRN, Name: hist.Workman.Name},
		TimeEntries: entries,
		Summary:     hist.Summary,
	})
}
