package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/metrics"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// WorkmanHandler handles HTTP requests for the workman registry.
type WorkmanHandler struct {
	service ports.WorkmanService
}

func NewWorkmanHandler(service ports.WorkmanService) *WorkmanHandler {
	return &WorkmanHandler{service: service}
}

// List handles GET /api/v1/workmen.
//
// @Summary      List workmen
// @Description  Case-insensitive substring search on name, ordered by name.
// @Tags         workmen
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Name filter"
// @Success      200     {object}  workmenResponse
// @Failure      401     {object}  errorResponse
// @Router       /api/v1/workmen [get]
func (h *WorkmanHandler) List(c echo.Context) error {
	views, err := h.service.Search(c.Request().Context(), actor(c), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workmenResponse{Workmen: views})
}

// Create handles POST /api/v1/workmen.
//
// @Summary      Register a workman
// @Tags         workmen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createWorkmanRequest  true  "Workman"
// @Success      201   {object}  workmanResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/workmen [post]
func (h *WorkmanHandler) Create(c echo.Context) error {
	var req createWorkmanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	w, err := h.service.Create(c.Request().Context(), actor(c), ports.CreateWorkmanInput{
		TRN:      req.TRN,
		Name:     req.Name,
		Company:  req.Company,
		Location: req.Location,
	})
	if err != nil {
		return err
	}
	metrics.WorkmenChangesTotal.WithLabelValues("create").Inc()

	return c.JSON(http.StatusCreated, workmanResponse{
		Message: "Workman created successfully",
		Workman: ports.WorkmanView{Workman: *w, Status: domain.StatusClockedOut},
	})
}

// Get handles GET /api/v1/workmen/:trn.
//
// @Summary      Get a workman
// @Tags         workmen
// @Produce      json
// @Security     BearerAuth
// @Param        trn  path      string  true  "Tax registration number"
// @Success      200  {object}  ports.WorkmanDetail
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/workmen/{trn} [get]
func (h *WorkmanHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), actor(c), c.Param("trn"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// Update handles PUT /api/v1/workmen/:trn. Absent fields are left unchanged.
//
// @Summary      Update a workman
// @Tags         workmen
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        trn   path      string                true  "Tax registration number"
// @Param        body  body      updateWorkmanRequest  true  "Fields to change"
// @Success      200   {object}  workmanResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/workmen/{trn} [put]
func (h *WorkmanHandler) Update(c echo.Context) error {
	var req updateWorkmanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	w, err := h.service.Update(ctx, actor(c), c.Param("trn"), domain.WorkmanPatch{
		Name:     req.Name,
		Company:  req.Company,
		Location: req.Location,
	})
	if err != nil {
		return err
	}
	metrics.WorkmenChangesTotal.WithLabelValues("update").Inc()

	detail, err := h.service.Get(ctx, actor(c), w.TRN)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workmanResponse{
		Message: "Workman updated successfully",
		Workman: detail.WorkmanView,
	})
}

// Delete handles DELETE /api/v1/workmen/:trn together with its time entries.
//
// @Summary      Delete a workman
// @Tags         workmen
// @Produce      json
// @Security     BearerAuth
// @Param        trn  path      string  true  "Tax registration number"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/workmen/{trn} [delete]
func (h *WorkmanHandler) Delete(c echo.Context) error {
	trn := c.Param("trn")
	if err := h.service.Delete(c.Request().Context(), actor(c), trn); err != nil {
		return err
	}
	metrics.WorkmenChangesTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: fmt.Sprintf("Workman %s deleted successfully", trn)})
}

// Locations handles GET /api/v1/locations.
//
// @Summary      Workmen grouped by location
// @Tags         workmen
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  locationsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/locations [get]
func (h *WorkmanHandler) Locations(c echo.Context) error {
	groups, err := h.service.Locations(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, locationsResponse{Locations: groups})
}
