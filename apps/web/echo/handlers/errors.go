package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/session"
)

// AppHTTPErrorHandler converts stray errors into friendly pages. An
// authentication failure from any admin call drops the session and lands on
// the login screen.
func AppHTTPErrorHandler(guard *session.Guard, logger core.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if backend.IsAuthFailure(err) {
			guard.Expire(c)
			_ = c.Redirect(http.StatusFound, "/admin/login")
			return
		}

		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		if code >= http.StatusInternalServerError {
			logger.Error("unhandled error: "+c.Request().RequestURI, err)
		}

		data := newViewData(http.StatusText(code))
		data["Code"] = code
		if rErr := c.Render(code, "error.html", data); rErr != nil {
			_ = c.String(code, http.StatusText(code))
		}
	}
}
