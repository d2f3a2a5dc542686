package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/resource"
)

// Notifications survive the POST -> redirect -> GET boundary as a short-lived
// cookie. A new notification replaces any pending one; reading clears it.
const flashCookie = "shule_flash"

func setFlash(c echo.Context, n *resource.Notification) {
	if n == nil {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(time.Minute),
	})
}

func takeFlash(c echo.Context) *resource.Notification {
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	// expire it either way
	c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	n := new(resource.Notification)
	if err := json.Unmarshal(data, n); err != nil {
		return nil
	}
	return n
}
