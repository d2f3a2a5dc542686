package echoweb

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/shule/apps/web/echo/handlers"
	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/session"
	"github.com/trezcool/shule/theme"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Client *backend.Client
		Guard  *session.Guard
		Theme  *theme.Store
		Logger core.Logger
		Email  core.EmailService
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	debug := core.Conf.Debug

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(requestIDMiddleware())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	metricsReg := prometheus.NewRegistry()
	s.app.Use(metricsMiddleware(metricsReg))

	s.app.HTTPErrorHandler = handlers.AppHTTPErrorHandler(s.opts.Guard, s.opts.Logger)
	s.app.Debug = debug
	s.app.Renderer = handlers.NewRenderer(s.opts.Theme, s.opts.Client)

	s.app.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(metricsReg, promhttp.HandlerOpts{})))

	handlers.RegisterPublic(s.app, &handlers.PublicOptions{
		Client: s.opts.Client,
		Theme:  s.opts.Theme,
		Logger: s.opts.Logger,
		Email:  s.opts.Email,
	})
	handlers.RegisterAdmin(s.app, &handlers.AdminOptions{
		Guard:  s.opts.Guard,
		Theme:  s.opts.Theme,
		Logger: s.opts.Logger,
	})
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
