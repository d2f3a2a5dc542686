package echoweb

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/backend"
)

func Test_metricsMiddleware_statusLabels(t *testing.T) {
	reg := prometheus.NewRegistry()
	app := echo.New()
	app.Use(metricsMiddleware(reg))
	app.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	app.GET("/boom", func(c echo.Context) error {
		return &backend.APIError{Kind: backend.ServerFailure, Status: 502, Message: "bad gateway"}
	})

	for _, path := range []string{"/ok", "/boom"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		app.ServeHTTP(httptest.NewRecorder(), req)
	}

	// route -> status as counted
	statuses := make(map[string]string)
	families, err := reg.Gather()
	assert.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "shule_http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var route, status string
			for _, lbl := range m.GetLabel() {
				switch lbl.GetName() {
				case "route":
					route = lbl.GetValue()
				case "status":
					status = lbl.GetValue()
				}
			}
			statuses[route] = status
		}
	}

	assert.Equal(t, "200", statuses["/ok"])
	assert.Equal(t, "500", statuses["/boom"], "unclassified errors count under the status actually sent")
}
