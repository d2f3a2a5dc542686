package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/resource"
	"github.com/trezcool/shule/theme"
)

// dashboard greets the signed-in admin with headline counts. The user fetch
// doubles as the session probe: a stale token fails here first.
func (h adminHandler) dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	client := h.guard.Client(c)

	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}

	data := h.data(c, "Dashboard", "dashboard")
	data["User"] = user
	if news, err := client.News(ctx); err == nil {
		data["NewsCount"] = len(news)
	}
	if notices, err := client.Notices(ctx); err == nil {
		data["NoticeCount"] = len(notices)
	}
	if courses, err := client.Courses(ctx); err == nil {
		data["CourseCount"] = len(courses)
	}
	if msgs, err := client.ContactMessages(ctx); err == nil {
		unread := 0
		for _, m := range msgs {
			if !bool(m.Status) {
				unread++
			}
		}
		data["MessageCount"] = len(msgs)
		data["UnreadCount"] = unread
	}
	return c.Render(http.StatusOK, "admin_dashboard.html", data)
}

// school info

var schoolInfoFields = []string{
	"school_name", "contact_number", "email", "address", "about_us",
	"home_about_us1", "home_about_us2", "info_officer", "info_phone",
	"facebook", "instagram", "map_url",
}

func (h adminHandler) schoolInfoPage(c echo.Context) error {
	info, err := h.guard.Client(c).SchoolInfo(c.Request().Context())
	if err != nil {
		return err
	}
	data := h.data(c, "School Info", "school-info")
	data["Info"] = info
	return c.Render(http.StatusOK, "admin_school_info.html", data)
}

func (h adminHandler) schoolInfoSubmit(c echo.Context) error {
	fields := formFields(c, schoolInfoFields)
	files := []*backend.Upload{
		formUpload(c, "logo"),
		formUpload(c, "info_photo"),
		formUpload(c, "home_about_us_banner"),
	}
	defer closeUploads(files)

	err := h.guard.Client(c).SaveSchoolInfo(c.Request().Context(), fields, files...)
	return h.settingsOutcome(c, err, "/admin/school-info", "School info updated successfully!")
}

// about school

var aboutSchoolFields = []string{"history", "vision", "mission", "objective"}

func (h adminHandler) aboutSchoolPage(c echo.Context) error {
	about, err := h.guard.Client(c).About(c.Request().Context())
	if err != nil {
		return err
	}
	data := h.data(c, "About School", "about-school")
	data["About"] = about
	return c.Render(http.StatusOK, "admin_about.html", data)
}

func (h adminHandler) aboutSchoolSubmit(c echo.Context) error {
	fields := formFields(c, aboutSchoolFields)
	image := formUpload(c, "about_image")
	defer closeUploads([]*backend.Upload{image})

	err := h.guard.Client(c).SaveAboutSchool(c.Request().Context(), fields, image)
	return h.settingsOutcome(c, err, "/admin/about-school", "About school updated successfully!")
}

// principal message

var principalFields = []string{"name", "designation", "message", "short_message", "visibility"}

func (h adminHandler) principalPage(c echo.Context) error {
	pm, err := h.guard.Client(c).Principal(c.Request().Context())
	if err != nil {
		return err
	}
	data := h.data(c, "Principal Message", "principal-message")
	data["Principal"] = pm
	return c.Render(http.StatusOK, "admin_principal.html", data)
}

func (h adminHandler) principalSubmit(c echo.Context) error {
	fields := formFields(c, principalFields)
	photo := formUpload(c, "photo")
	defer closeUploads([]*backend.Upload{photo})

	err := h.guard.Client(c).SavePrincipalMessage(c.Request().Context(), fields, photo)
	return h.settingsOutcome(c, err, "/admin/principal-message", "Principal message updated successfully!")
}

// theme

func (h adminHandler) themePage(c echo.Context) error {
	data := h.data(c, "Theme", "theme")
	data["Palette"] = h.theme.Palette()
	data["Names"] = theme.Names
	return c.Render(http.StatusOK, "admin_theme.html", data)
}

// themeSubmit persists the palette on the backend first; the in-memory store
// is refreshed only after the write sticks, so a failed save never leaves
// the site styled with colors that vanish on restart.
func (h adminHandler) themeSubmit(c echo.Context) error {
	values := make(map[string]string, len(theme.Names))
	for _, name := range theme.Names {
		if v := c.FormValue(name); v != "" {
			values[name] = v
		}
	}

	if err := h.guard.Client(c).SaveTheme(c.Request().Context(), values); err != nil {
		if backend.IsAuthFailure(err) {
			return err
		}
		h.logger.Error("saving theme", err)
		data := h.data(c, "Theme", "theme")
		data["Palette"] = h.theme.Palette()
		data["Names"] = theme.Names
		data["Flash"] = &resource.Notification{Kind: "danger", Message: "Failed to save the theme. Please try again."}
		return c.Render(http.StatusOK, "admin_theme.html", data)
	}

	h.theme.Set(values)
	setFlash(c, &resource.Notification{Kind: "success", Message: "Theme updated successfully!"})
	return c.Redirect(http.StatusSeeOther, "/admin/theme")
}

// contact messages

func (h adminHandler) contactMessages(c echo.Context) error {
	msgs, err := h.guard.Client(c).ContactMessages(c.Request().Context())
	if err != nil {
		return err
	}
	data := h.data(c, "Contact Messages", "contact-messages")
	data["Messages"] = msgs
	return c.Render(http.StatusOK, "admin_contact_messages.html", data)
}

func (h adminHandler) contactMessageRead(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.guard.Client(c).MarkContactMessageRead(c.Request().Context(), id); err != nil {
		if backend.IsAuthFailure(err) {
			return err
		}
		h.logger.Error("marking contact message read", err)
		setFlash(c, &resource.Notification{Kind: "danger", Message: "Failed to update the message."})
	}
	return c.Redirect(http.StatusSeeOther, "/admin/contact-messages")
}

func (h adminHandler) contactMessageDelete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if c.FormValue("confirm") != "1" {
		return c.Redirect(http.StatusSeeOther, "/admin/contact-messages")
	}
	if err := h.guard.Client(c).DeleteContactMessage(c.Request().Context(), id); err != nil {
		if backend.IsAuthFailure(err) {
			return err
		}
		h.logger.Error("deleting contact message", err)
		msg := "Failed to delete the message."
		if backend.IsNotFound(err) {
			msg = "Message no longer exists."
		}
		setFlash(c, &resource.Notification{Kind: "danger", Message: msg})
		return c.Redirect(http.StatusSeeOther, "/admin/contact-messages")
	}
	setFlash(c, &resource.Notification{Kind: "success", Message: "Message deleted successfully!"})
	return c.Redirect(http.StatusSeeOther, "/admin/contact-messages")
}

// settingsOutcome folds the shared singleton-save epilogue: flash on
// success, flash on recoverable failure, bubble auth failures up.
func (h adminHandler) settingsOutcome(c echo.Context, err error, backTo, successMsg string) error {
	if err != nil {
		if backend.IsAuthFailure(err) {
			return err
		}
		h.logger.Error("saving "+backTo, err)
		msg := "Failed to save. Please try again."
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && backend.IsValidationError(err) {
			if first := apiErr.FirstFieldError(); first != "" {
				msg = first
			}
		}
		setFlash(c, &resource.Notification{Kind: "danger", Message: msg})
		return c.Redirect(http.StatusSeeOther, backTo)
	}
	setFlash(c, &resource.Notification{Kind: "success", Message: successMsg})
	return c.Redirect(http.StatusSeeOther, backTo)
}

// formFields collects the named values in declaration order, to mirror how
// the upstream validators report the first offending field.
func formFields(c echo.Context, names []string) []backend.FormField {
	fields := make([]backend.FormField, 0, len(names))
	for _, name := range names {
		fields = append(fields, backend.FormField{Name: name, Value: core.CleanString(c.FormValue(name))})
	}
	return fields
}

// formUpload opens the named file part, or returns nil when the admin left
// it untouched; omitted parts keep the stored file.
func formUpload(c echo.Context, field string) *backend.Upload {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	src, err := fh.Open()
	if err != nil {
		return nil
	}
	return &backend.Upload{Field: field, Filename: fh.Filename, Content: src}
}

func closeUploads(uploads []*backend.Upload) {
	for _, u := range uploads {
		if u == nil {
			continue
		}
		if closer, ok := u.Content.(multipart.File); ok {
			_ = closer.Close()
		}
	}
}
