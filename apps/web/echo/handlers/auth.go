package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/resource"
	"github.com/trezcool/shule/session"
)

func (h adminHandler) loginPage(c echo.Context) error {
	if h.guard.IsAuthenticated(c) {
		return c.Redirect(http.StatusFound, "/admin")
	}
	data := newViewData("Sign in")
	data["Bare"] = true
	data["Flash"] = takeFlash(c)
	return c.Render(http.StatusOK, "admin_login.html", data)
}

func (h adminHandler) loginSubmit(c echo.Context) error {
	email := core.CleanString(c.FormValue("email"))
	password := c.FormValue("password")

	if err := h.guard.Login(c, email, password); err != nil {
		msg := session.ErrServer.Error()
		if errors.Is(err, session.ErrInvalidCredentials) {
			msg = err.Error()
		} else {
			h.logger.Error("admin login", err)
		}
		data := newViewData("Sign in")
		data["Bare"] = true
		data["Email"] = email
		data["Flash"] = &resource.Notification{Kind: "danger", Message: msg}
		return c.Render(http.StatusOK, "admin_login.html", data)
	}
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func (h adminHandler) logout(c echo.Context) error {
	h.guard.Logout(c)
	return c.Redirect(http.StatusSeeOther, "/admin/login")
}

func (h adminHandler) passwordPage(c echo.Context) error {
	return c.Render(http.StatusOK, "admin_password.html", h.data(c, "Change password", "password"))
}

func (h adminHandler) passwordSubmit(c echo.Context) error {
	current := c.FormValue("current_password")
	password := c.FormValue("password")
	confirmation := c.FormValue("password_confirmation")

	fail := func(msg string) error {
		data := h.data(c, "Change password", "password")
		data["Flash"] = &resource.Notification{Kind: "danger", Message: msg}
		return c.Render(http.StatusOK, "admin_password.html", data)
	}

	if current == "" || password == "" {
		return fail("this field is required")
	}
	if password != confirmation {
		return fail("The password confirmation does not match.")
	}

	if err := h.guard.Client(c).ChangePassword(c.Request().Context(), current, password, confirmation); err != nil {
		if backend.IsAuthFailure(err) {
			return err
		}
		h.logger.Error("changing password", err)
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && backend.IsValidationError(err) {
			return fail(apiErr.FirstFieldError())
		}
		return fail("Failed to change the password. Please try again.")
	}

	setFlash(c, &resource.Notification{Kind: "success", Message: "Password changed successfully!"})
	return c.Redirect(http.StatusSeeOther, "/admin/password")
}
