package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/metrics"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

// AdminHandler serves account administration. Routes are mounted behind the
// admin capability and the service checks it again.
type AdminHandler struct {
	users ports.UserService
}

func NewAdminHandler(users ports.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers handles GET /api/v1/admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/v1/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), actor(c))
	if err != nil {
		return err
	}
	resp := usersResponse{Users: make([]userResponse, len(users))}
	for i := range users {
		resp.Users[i] = toUserResponse(&users[i])
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateUser handles POST /api/v1/admin/users.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account"
// @Success      201   {object}  userMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/v1/admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.Request().Context(), actor(c), ports.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userMessageResponse{Message: "User created successfully", User: toUserResponse(user)})
}

// UpdateUser handles PATCH /api/v1/admin/users/:id.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  userMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/admin/users/{id} [patch]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	patch := domain.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		IsActive: req.IsActive,
		Password: req.Password,
	}
	if req.Role != nil {
		role, err := domain.ParseRole(*req.Role)
		if err != nil {
			return err
		}
		patch.Role = &role
	}

	user, err := h.users.Update(c.Request().Context(), actor(c), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userMessageResponse{Message: "User updated successfully", User: toUserResponse(user)})
}

// DeleteUser handles DELETE /api/v1/admin/users/:id.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), actor(c), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User deleted successfully"})
}

// IssueToken handles POST /api/v1/admin/users/:id/token. The raw token is
// returned only in this response.
//
// @Summary      Generate an API token for a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      201  {object}  issuedTokenResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/admin/users/{id}/token [post]
func (h *AdminHandler) IssueToken(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	token, err := h.users.IssueTokenFor(c.Request().Context(), actor(c), id)
	if err != nil {
		return err
	}
	metrics.TokensTotal.WithLabelValues("issued").Inc()
	return c.JSON(http.StatusCreated, issuedTokenResponse{Token: token, UserID: id})
}

// RevokeToken handles DELETE /api/v1/admin/users/:id/token.
//
// @Summary      Revoke a user's API token
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/admin/users/{id}/token [delete]
func (h *AdminHandler) RevokeToken(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.users.RevokeTokenFor(c.Request().Context(), actor(c), id); err != nil {
		return err
	}
	metrics.TokensTotal.WithLabelValues("revoked").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Token revoked successfully"})
}

// Audit handles GET /api/v1/admin/audit.
//
// @Summary      Audit trail
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        trn    query     string  false  "Workman TRN"
// @Param        limit  query     int     false  "Maximum events (default 50, max 500)"
// @Success      200    {object}  auditResponse
// @Failure      400    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Router       /api/v1/admin/audit [get]
func (h *AdminHandler) Audit(c echo.Context) error {
	filter := ports.AuditFilter{TRN: c.QueryParam("trn")}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return &domain.ValidationError{Field: "limit", Reason: "must be an integer"}
		}
		filter.Limit = n
	}

	events, err := h.users.Audit(c.Request().Context(), actor(c), filter)
	if err != nil {
		return err
	}
	if events == nil {
		events = []domain.AuditEvent{}
	}
	return c.JSON(http.StatusOK, auditResponse{Events: events})
}
