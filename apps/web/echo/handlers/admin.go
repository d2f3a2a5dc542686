package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/resource"
	"github.com/trezcool/shule/session"
	"github.com/trezcool/shule/theme"
)

type AdminOptions struct {
	Guard  *session.Guard
	Theme  *theme.Store
	Logger core.Logger
}

type adminHandler struct {
	guard  *session.Guard
	theme  *theme.Store
	logger core.Logger
}

// RegisterAdmin mounts the dashboard. Only the login screen lives outside
// the session gate; everything else redirects anonymous visitors there.
// Authentication failures surfacing from backend calls are returned up to
// the error handler, which drops the session and redirects the same way.
func RegisterAdmin(e *echo.Echo, opts *AdminOptions) {
	h := adminHandler{guard: opts.Guard, theme: opts.Theme, logger: opts.Logger}

	e.GET("/admin/login", h.loginPage)
	e.POST("/admin/login", h.loginSubmit)

	g := e.Group("/admin", opts.Guard.Middleware())
	g.GET("", h.dashboard)
	g.POST("/logout", h.logout)
	g.GET("/password", h.passwordPage)
	g.POST("/password", h.passwordSubmit)

	g.GET("/school-info", h.schoolInfoPage)
	g.POST("/school-info", h.schoolInfoSubmit)
	g.GET("/about-school", h.aboutSchoolPage)
	g.POST("/about-school", h.aboutSchoolSubmit)
	g.GET("/principal-message", h.principalPage)
	g.POST("/principal-message", h.principalSubmit)
	g.GET("/theme", h.themePage)
	g.POST("/theme", h.themeSubmit)
	g.GET("/contact-messages", h.contactMessages)
	g.POST("/contact-messages/:id/read", h.contactMessageRead)
	g.POST("/contact-messages/:id/delete", h.contactMessageDelete)

	// generic content resources; static routes above win over the param
	g.GET("/:resource", h.resourceList)
	g.POST("/:resource/save", h.resourceSave)
	g.POST("/:resource/:id/delete", h.resourceDelete)
	g.POST("/:resource/:id/toggle", h.resourceToggle)
}

// data builds the dashboard view bag: sidebar entries, flash and the active
// section used to highlight the menu.
func (h adminHandler) data(c echo.Context, title, active string) viewData {
	data := newViewData(title)
	data["Resources"] = resource.Registry()
	data["Active"] = active
	data["Flash"] = takeFlash(c)
	return data
}

func (h adminHandler) controller(c echo.Context, name string) (*resource.Controller, error) {
	cfg, ok := resource.Lookup(name)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "unknown resource "+name)
	}
	return resource.NewController(cfg, h.guard.Client(c), h.logger), nil
}

func (h adminHandler) resourceList(c echo.Context) error {
	ctl, err := h.controller(c, c.Param("resource"))
	if err != nil {
		return err
	}

	if err := ctl.Load(c.Request().Context()); backend.IsAuthFailure(err) {
		return err
	}
	ctl.SetSearch(c.QueryParam("q"))

	// modal state travels in the query string
	if c.QueryParam("new") != "" {
		ctl.OpenCreate()
	} else if edit := c.QueryParam("edit"); edit != "" {
		if id, err := strconv.Atoi(edit); err == nil {
			if rec, ok := findRecord(ctl.Collection(), id); ok {
				ctl.OpenEdit(rec)
			}
		}
	}
	return h.renderResource(c, ctl, ctl.TakeNotification())
}

func (h adminHandler) renderResource(c echo.Context, ctl *resource.Controller, notif *resource.Notification) error {
	cfg := ctl.Config()
	data := h.data(c, cfg.Title, cfg.Name)
	data["Config"] = cfg
	data["Records"] = ctl.Filtered()
	data["Search"] = ctl.Search()
	data["Form"] = ctl.Form()
	if notif != nil {
		data["Flash"] = notif
	}
	return c.Render(http.StatusOK, "admin_resource.html", data)
}

// resourceSave handles both create and update: the presence of a record id
// in the submitted form decides the route. On rejection the list page is
// re-rendered with the draft still open so nothing typed is lost.
func (h adminHandler) resourceSave(c echo.Context) error {
	ctl, err := h.controller(c, c.Param("resource"))
	if err != nil {
		return err
	}
	cfg := ctl.Config()
	ctx := c.Request().Context()

	form := resource.BlankForm(cfg)
	if v := c.FormValue("id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
		}
		form.ID = &id
	}
	for _, f := range cfg.Fields {
		if f.Kind == resource.File {
			continue
		}
		form.SetField(f.Name, core.CleanString(c.FormValue(f.Name)))
	}
	if cfg.FileField != "" {
		if fh, err := c.FormFile(cfg.FileField); err == nil {
			src, err := fh.Open()
			if err != nil {
				return err
			}
			defer src.Close()
			form.SetFile(cfg.FileField, fh.Filename, src)
		}
	}
	ctl.SetForm(form)

	if err := ctl.Save(ctx); err != nil {
		if backend.IsAuthFailure(err) {
			return err
		}
		notif := ctl.TakeNotification()
		if lErr := ctl.Load(ctx); backend.IsAuthFailure(lErr) {
			return lErr
		}
		ctl.SetSearch(c.QueryParam("q"))
		return h.renderResource(c, ctl, notif)
	}

	setFlash(c, ctl.TakeNotification())
	return c.Redirect(http.StatusSeeOther, listURL(cfg.Name, c.QueryParam("q")))
}

// resourceDelete runs only with the confirmation flag the delete dialog
// sets; a bare POST is bounced back to the list.
func (h adminHandler) resourceDelete(c echo.Context) error {
	ctl, err := h.controller(c, c.Param("resource"))
	if err != nil {
		return err
	}
	cfg := ctl.Config()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if c.FormValue("confirm") != "1" {
		return c.Redirect(http.StatusSeeOther, listURL(cfg.Name, c.QueryParam("q")))
	}

	if err := ctl.Remove(c.Request().Context(), id); backend.IsAuthFailure(err) {
		return err
	}
	setFlash(c, ctl.TakeNotification())
	return c.Redirect(http.StatusSeeOther, listURL(cfg.Name, c.QueryParam("q")))
}

func (h adminHandler) resourceToggle(c echo.Context) error {
	ctl, err := h.controller(c, c.Param("resource"))
	if err != nil {
		return err
	}
	cfg := ctl.Config()
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := ctl.Load(ctx); backend.IsAuthFailure(err) {
		return err
	}
	if rec, ok := findRecord(ctl.Collection(), id); ok {
		if err := ctl.ToggleVisibility(ctx, rec); backend.IsAuthFailure(err) {
			return err
		}
	}
	setFlash(c, ctl.TakeNotification())
	return c.Redirect(http.StatusSeeOther, listURL(cfg.Name, c.QueryParam("q")))
}

func findRecord(records []resource.Record, id int) (resource.Record, bool) {
	for _, rec := range records {
		if rid, ok := rec.ID(); ok && rid == id {
			return rec, true
		}
	}
	return nil, false
}

func listURL(name, q string) string {
	u := "/admin/" + name
	if q != "" {
		u += "?q=" + url.QueryEscape(q)
	}
	return u
}
