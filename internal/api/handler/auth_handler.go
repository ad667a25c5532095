package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/metrics"
	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/domain"
	"github.com/sitecrew/timeclock/internal/core/ports"
)

type AuthHandler struct {
	identity ports.IdentityService
}

func NewAuthHandler(identity ports.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// Token exchanges credentials for a new API token, replacing any previous one.
//
// @Summary      Issue an API token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      tokenRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api/v1/auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	var req tokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.identity.Authenticate(ctx, req.Username, req.Password)
	metrics.ObserveAuth(err)
	if err != nil {
		return err
	}

	token, err := h.identity.IssueToken(ctx, user)
	if err != nil {
		return err
	}
	metrics.TokensTotal.WithLabelValues("issued").Inc()

	return c.JSON(http.StatusOK, tokenResponse{Token: token, User: toUserResponse(user)})
}

// Register creates an employee account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account details"
// @Success      201   {object}  userMessageResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.identity.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, userMessageResponse{
		Message: "Registration successful",
		User:    toUserResponse(user),
	})
}

// Revoke clears the caller's API token.
//
// @Summary      Revoke the current API token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/auth/revoke [post]
func (h *AuthHandler) Revoke(c echo.Context) error {
	user := actor(c)
	if user == nil {
		return domain.ErrUnauthenticated
	}
	if err := h.identity.RevokeToken(c.Request().Context(), user); err != nil {
		return err
	}
	metrics.TokensTotal.WithLabelValues("revoked").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Token revoked successfully"})
}

// Me returns the caller with its capability flags.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user := actor(c)
	if err := authz.Authenticated(user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{
		userResponse: toUserResponse(user),
		Permissions:  authz.PermissionsFor(user.Role),
	})
}
