package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/theme"
)

type PublicOptions struct {
	Client *backend.Client
	Theme  *theme.Store
	Logger core.Logger
	Email  core.EmailService
}

type publicHandler struct {
	client *backend.Client
	theme  *theme.Store
	logger core.Logger
	email  core.EmailService
}

// RegisterPublic mounts the read-only visitor pages. Every page fetches its
// data once per view and degrades quietly when the backend is unreachable:
// decorative sections fall back to placeholders and content sections render
// empty instead of erroring.
func RegisterPublic(e *echo.Echo, opts *PublicOptions) {
	h := publicHandler{client: opts.Client, theme: opts.Theme, logger: opts.Logger, email: opts.Email}

	e.GET("/", h.home)
	e.GET("/news", h.news)
	e.GET("/news/:id", h.newsDetail)
	e.GET("/notices", h.notices)
	e.GET("/notices/:id", h.noticeDetail)
	e.GET("/events", h.events)
	e.GET("/events/:id", h.eventDetail)
	e.GET("/courses", h.courses)
	e.GET("/gallery", h.gallery)
	e.GET("/downloads", h.downloads)
	e.GET("/about", h.about)
	e.GET("/principal-message", h.principal)
	e.GET("/teams/academic", h.academicTeam)
	e.GET("/teams/executive", h.executiveTeam)

	// contact form; rate limited against drive-by spam
	contactLimiter := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(1)))
	e.GET("/contact", h.contact)
	e.POST("/contact", h.contactSubmit, contactLimiter)
}

// placeholderSlides keeps the hero section alive when the backend is down.
var placeholderSlides = []backend.Slide{
	{Title: "Welcome to our school", Subtitle: "Learning for life", Active: true},
}

// data builds the common view bag: title, theme, site chrome and flash.
func (h publicHandler) data(c echo.Context, title string) viewData {
	ctx := c.Request().Context()
	data := newViewData(title)

	if info, err := h.client.SchoolInfo(ctx); err == nil {
		data["Info"] = info
	} else {
		h.logger.Warn("fetching school info", err)
		data["Info"] = backend.SchoolInfo{SchoolName: core.Conf.AppName}
	}
	if menus, err := h.client.Menus(ctx); err == nil {
		data["Menus"] = menus
	}
	data["Flash"] = takeFlash(c)
	return data
}

func (h publicHandler) home(c echo.Context) error {
	ctx := c.Request().Context()
	data := h.data(c, "Home")

	slides, err := h.client.Carousel(ctx)
	if err != nil || len(slides) == 0 {
		slides = placeholderSlides
	}
	data["Slides"] = onlyActive(slides)

	if news, err := h.client.News(ctx, 3); err == nil {
		data["News"] = news
	} else {
		h.logger.Warn("fetching news strip", err)
	}
	if notices, err := h.client.Notices(ctx, 5); err == nil {
		data["Notices"] = notices
		// at most one popup notice opens as a modal on arrival
		for _, n := range notices {
			if bool(n.Visibility) && n.Popup == "yes" {
				data["Popup"] = n
				break
			}
		}
	}
	if events, err := h.client.Events(ctx, 3); err == nil {
		data["Events"] = events
	}
	if courses, err := h.client.Courses(ctx); err == nil {
		data["Courses"] = courses
	}
	if pm, err := h.client.Principal(ctx); err == nil && bool(pm.Visibility) {
		data["Principal"] = pm
	}
	return c.Render(http.StatusOK, "home.html", data)
}

func (h publicHandler) news(c echo.Context) error {
	data := h.data(c, "News")
	if news, err := h.client.News(c.Request().Context()); err == nil {
		data["News"] = news
	} else {
		h.logger.Warn("fetching news", err)
	}
	return c.Render(http.StatusOK, "news.html", data)
}

func (h publicHandler) newsDetail(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.ErrNotFound
	}
	item, err := h.client.NewsItem(c.Request().Context(), id)
	if err != nil {
		if backend.IsNotFound(err) {
			return echo.ErrNotFound
		}
		h.logger.Warn("fetching news item", err)
		return echo.ErrNotFound
	}
	data := h.data(c, item.Title)
	data["Item"] = item
	return c.Render(http.StatusOK, "news_detail.html", data)
}

func (h publicHandler) notices(c echo.Context) error {
	data := h.data(c, "Notices")
	if notices, err := h.client.Notices(c.Request().Context()); err == nil {
		data["Notices"] = notices
	} else {
		h.logger.Warn("fetching notices", err)
	}
	return c.Render(http.StatusOK, "notices.html", data)
}

func (h publicHandler) noticeDetail(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.ErrNotFound
	}
	item, err := h.client.NoticeItem(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("fetching notice", err)
		return echo.ErrNotFound
	}
	data := h.data(c, item.Title)
	data["Item"] = item
	return c.Render(http.StatusOK, "notice_detail.html", data)
}

func (h publicHandler) events(c echo.Context) error {
	data := h.data(c, "Events")
	if events, err := h.client.Events(c.Request().Context()); err == nil {
		data["Events"] = events
	} else {
		h.logger.Warn("fetching events", err)
	}
	return c.Render(http.StatusOK, "events.html", data)
}

func (h publicHandler) eventDetail(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.ErrNotFound
	}
	item, err := h.client.EventItem(c.Request().Context(), id)
	if err != nil {
		h.logger.Warn("fetching event", err)
		return echo.ErrNotFound
	}
	data := h.data(c, item.Title)
	data["Item"] = item
	return c.Render(http.StatusOK, "event_detail.html", data)
}

func (h publicHandler) courses(c echo.Context) error {
	data := h.data(c, "Courses")
	if courses, err := h.client.Courses(c.Request().Context()); err == nil {
		data["Courses"] = courses
	} else {
		h.logger.Warn("fetching courses", err)
	}
	return c.Render(http.StatusOK, "courses.html", data)
}

func (h publicHandler) gallery(c echo.Context) error {
	data := h.data(c, "Gallery")
	if images, err := h.client.Gallery(c.Request().Context()); err == nil {
		data["Images"] = onlyVisibleGallery(images)
	} else {
		h.logger.Warn("fetching gallery", err)
	}
	return c.Render(http.StatusOK, "gallery.html", data)
}

func (h publicHandler) downloads(c echo.Context) error {
	data := h.data(c, "Downloads")
	if downloads, err := h.client.Downloads(c.Request().Context()); err == nil {
		data["Downloads"] = downloads
	} else {
		h.logger.Warn("fetching downloads", err)
	}
	return c.Render(http.StatusOK, "downloads.html", data)
}

func (h publicHandler) about(c echo.Context) error {
	ctx := c.Request().Context()
	data := h.data(c, "About Us")
	if about, err := h.client.About(ctx); err == nil {
		data["About"] = about
	} else {
		h.logger.Warn("fetching about", err)
	}
	if courses, err := h.client.Courses(ctx); err == nil {
		data["Courses"] = courses
	}
	return c.Render(http.StatusOK, "about.html", data)
}

func (h publicHandler) principal(c echo.Context) error {
	data := h.data(c, "Principal's Message")
	if pm, err := h.client.Principal(c.Request().Context()); err == nil {
		data["Principal"] = pm
	} else {
		h.logger.Warn("fetching principal message", err)
	}
	return c.Render(http.StatusOK, "principal.html", data)
}

func (h publicHandler) academicTeam(c echo.Context) error {
	data := h.data(c, "Academic Team")
	if members, err := h.client.AcademicTeam(c.Request().Context()); err == nil {
		data["Members"] = members
	} else {
		h.logger.Warn("fetching academic team", err)
	}
	return c.Render(http.StatusOK, "teams_academic.html", data)
}

func (h publicHandler) executiveTeam(c echo.Context) error {
	data := h.data(c, "Executive Team")
	if members, err := h.client.ExecutiveTeam(c.Request().Context()); err == nil {
		data["Members"] = members
	} else {
		h.logger.Warn("fetching executive team", err)
	}
	return c.Render(http.StatusOK, "teams_executive.html", data)
}

func onlyActive(slides []backend.Slide) []backend.Slide {
	out := make([]backend.Slide, 0, len(slides))
	for _, s := range slides {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}

func onlyVisibleGallery(images []backend.GalleryImage) []backend.GalleryImage {
	out := make([]backend.GalleryImage, 0, len(images))
	for _, img := range images {
		if img.Visibility {
			out = append(out, img)
		}
	}
	return out
}
