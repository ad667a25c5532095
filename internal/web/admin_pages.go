package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/api/metrics"
	"github.com/sitecrew/timeclock/internal/core/domain"
)

const adminUsersURL = "/admin/users"

func userEditURL(id int64) string {
	return fmt.Sprintf("%s/%d/edit", adminUsersURL, id)
}

func userID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrUserNotFound
	}
	return id, nil
}

// AdminUsers lists every account.
func (p *Pages) AdminUsers(c echo.Context) error {
	users, err := p.users.List(c.Request().Context(), currentUser(c))
	if err != nil {
		return p.fail(c, err, "/dashboard")
	}
	return render(c, http.StatusOK, "admin_users.html", "Users", users)
}

type editUserPage struct {
	Account *domain.User
	Roles   []domain.Role
}

func (p *Pages) AdminEditUserForm(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return p.fail(c, err, adminUsersURL)
	}
	user, err := p.users.Get(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return p.fail(c, err, adminUsersURL)
	}
	return render(c, http.StatusOK, "admin_user_edit.html", "Edit "+user.Username, editUserPage{Account: user, Roles: domain.Roles})
}

// AdminUpdateUser applies the edit form. A blank password keeps the current one.
func (p *Pages) AdminUpdateUser(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return p.fail(c, err, adminUsersURL)
	}

	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	active := c.FormValue("is_active") != ""
	role, err := domain.ParseRole(c.FormValue("role"))
	if err != nil {
		return p.fail(c, err, userEditURL(id))
	}
	patch := domain.UserPatch{Username: &username, Email: &email, Role: &role, IsActive: &active}
	if pw := c.FormValue("password"); pw != "" {
		patch.Password = &pw
	}

	user, err := p.users.Update(c.Request().Context(), currentUser(c), id, patch)
	if err != nil {
		return p.fail(c, err, userEditURL(id))
	}
	flash(c, flashSuccess, fmt.Sprintf("User %s updated successfully", user.Username))
	return redirect(c, adminUsersURL)
}

func (p *Pages) AdminDeleteUser(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return p.fail(c, err, adminUsersURL)
	}
	if err := p.users.Delete(c.Request().Context(), currentUser(c), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			flash(c, flashError, "User not found")
			return redirect(c, adminUsersURL)
		}
		return p.fail(c, err, adminUsersURL)
	}
	flash(c, flashSuccess, "User deleted successfully")
	return redirect(c, adminUsersURL)
}

// AdminGenerateToken issues a token and shows it once in a flash.
func (p *Pages) AdminGenerateToken(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return p.fail(c, err, adminUsersURL)
	}
	token, err := p.users.IssueTokenFor(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return p.fail(c, err, adminUsersURL)
	}
	metrics.TokensTotal.WithLabelValues("issued").Inc()

	flash(c, flashSuccess, "API token generated: "+token)
	return redirect(c, userEditURL(id))
}

func (p *Pages) AdminRevokeToken(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return p.fail(c, err, adminUsersURL)
	}
	err = p.users.RevokeTokenFor(c.Request().Context(), currentUser(c), id)
	if errors.Is(err, domain.ErrNoActiveToken) {
		flash(c, flashWarning, "This user does not have an active API token")
		return redirect(c, userEditURL(id))
	}
	if err != nil {
		return p.fail(c, err, adminUsersURL)
	}
	metrics.TokensTotal.WithLabelValues("revoked").Inc()

	flash(c, flashSuccess, "API token revoked")
	return redirect(c, userEditURL(id))
}
