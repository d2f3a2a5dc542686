package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	echoweb "github.com/trezcool/shule/apps/web/echo"
	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
	emailsvc "github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/session"
	"github.com/trezcool/shule/theme"
)

const backendToken = "admtok"

// fakeBackend stands in for the remote content API. Admin paths demand the
// bearer token; toggling `expireSessions` makes every admin call come back
// 401, the way a revoked token would.
type fakeBackend struct {
	mu             sync.Mutex
	srv            *httptest.Server
	mux            *http.ServeMux
	expireSessions bool

	createdNews  []url.Values
	contactMsgs  []map[string]string
	deletedPaths []string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := new(fakeBackend)

	mux := http.NewServeMux()
	mux.HandleFunc("/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = jsonDecode(r, &body)
		if body["email"] == "head@school.edu" && body["password"] == "secret" {
			jsonWrite(w, `{"token":"`+backendToken+`"}`)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		jsonWrite(w, `{"message":"Unauthenticated."}`)
	})
	mux.HandleFunc("/admin/", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		expired := fb.expireSessions
		fb.mu.Unlock()
		if expired || r.Header.Get("Authorization") != "Bearer "+backendToken {
			w.WriteHeader(http.StatusUnauthorized)
			jsonWrite(w, `{"message":"Unauthenticated."}`)
			return
		}
		fb.admin(w, r)
	})

	mux.HandleFunc("/school-info", func(w http.ResponseWriter, r *http.Request) {
		jsonWrite(w, `{"school_name":"Hillside Academy","address":"12 Hill Rd","email":"info@school.edu"}`)
	})
	mux.HandleFunc("/menus", func(w http.ResponseWriter, r *http.Request) { jsonWrite(w, `[]`) })
	mux.HandleFunc("/carousel", func(w http.ResponseWriter, r *http.Request) {
		jsonWrite(w, `[{"id":1,"title":"Welcome","subtitle":"Join us","active":1,"position":1}]`)
	})
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		jsonWrite(w, `[{"id":1,"title":"Sports day announced","summary":"Save the date","visibility":1,"published_at":"2024-03-01 10:00:00"}]`)
	})
	mux.HandleFunc("/news/1", func(w http.ResponseWriter, r *http.Request) {
		jsonWrite(w, `{"id":1,"title":"Sports day announced","summary":"Save the date","content":"<p>Details follow.</p>","visibility":1,"published_at":"2024-03-01 10:00:00"}`)
	})
	mux.HandleFunc("/news/99", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		jsonWrite(w, `{"message":"Not found."}`)
	})
	mux.HandleFunc("/notices", func(w http.ResponseWriter, r *http.Request) { jsonWrite(w, `[]`) })
	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) { jsonWrite(w, `[]`) })
	mux.HandleFunc("/courses", func(w http.ResponseWriter, r *http.Request) { jsonWrite(w, `[]`) })
	mux.HandleFunc("/gallery", func(w http.ResponseWriter, r *http.Request) { jsonWrite(w, `[]`) })
	mux.HandleFunc("/downloads", func(w http.ResponseWriter, r *http.Request) { jsonWrite(w, `[]`) })
	mux.HandleFunc("/academic-teams", func(w http.ResponseWriter, r *http.Request) { jsonWrite(w, `[]`) })
	mux.HandleFunc("/executive-teams", func(w http.ResponseWriter, r *http.Request) { jsonWrite(w, `[]`) })
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		jsonWrite(w, `{"history":"Founded 1982.","vision":"{[\"Excellence\"]}","mission":"{[\"Teach well\"]}","objective":"{[\"Serve\"]}"}`)
	})
	mux.HandleFunc("/principal-message", func(w http.ResponseWriter, r *http.Request) {
		jsonWrite(w, `{"name":"J. Rai","designation":"Principal","message":"<p>Welcome.</p>","short_message":"Welcome.","visibility":1}`)
	})
	mux.HandleFunc("/theme", func(w http.ResponseWriter, r *http.Request) {
		jsonWrite(w, `{"primary":"#336699"}`)
	})
	mux.HandleFunc("/contact-message", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = jsonDecode(r, &body)
		fb.mu.Lock()
		fb.contactMsgs = append(fb.contactMsgs, body)
		fb.mu.Unlock()
		jsonWrite(w, `{}`)
	})

	fb.mux = mux
	fb.srv = httptest.NewServer(mux)
	t.Cleanup(fb.srv.Close)
	return fb
}

// admin serves the token-gated paths.
func (fb *fakeBackend) admin(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/admin/user":
		jsonWrite(w, `{"id":1,"name":"Head Teacher","email":"head@school.edu"}`)
	case r.URL.Path == "/admin/news" && r.Method == http.MethodGet:
		jsonWrite(w, `[{"id":1,"title":"Sports day announced","summary":"Save the date","visibility":1,"published_at":"2024-03-01 10:00:00"},`+
			`{"id":2,"title":"Exam routine","summary":"Final term","visibility":0,"published_at":"2024-02-10 08:00:00"}]`)
	case r.URL.Path == "/admin/news" && r.Method == http.MethodPost:
		_ = r.ParseMultipartForm(1 << 20)
		fb.mu.Lock()
		fb.createdNews = append(fb.createdNews, url.Values(r.MultipartForm.Value))
		fb.mu.Unlock()
		jsonWrite(w, `{}`)
	case strings.HasSuffix(r.URL.Path, "/status"):
		jsonWrite(w, `{}`)
	case r.URL.Path == "/admin/contact-messages":
		jsonWrite(w, `[{"id":4,"name":"A Parent","email":"p@x.y","subject":"Admission","message":"When do admissions open?","status":0,"created_at":"2024-03-02 09:00:00"}]`)
	case r.Method == http.MethodDelete:
		fb.mu.Lock()
		fb.deletedPaths = append(fb.deletedPaths, r.URL.Path)
		fb.mu.Unlock()
		jsonWrite(w, `{}`)
	case r.Method == http.MethodPost:
		_ = r.ParseMultipartForm(1 << 20)
		jsonWrite(w, `{}`)
	default:
		jsonWrite(w, `[]`)
	}
}

func (fb *fakeBackend) expire(on bool) {
	fb.mu.Lock()
	fb.expireSessions = on
	fb.mu.Unlock()
}

// newTestServer wires the full app against the fake backend.
func newTestServer(t *testing.T, fb *fakeBackend) http.Handler {
	t.Helper()

	conf := *core.Conf
	conf.Backend.BaseURL = fb.srv.URL
	conf.Backend.StorageBaseURL = fb.srv.URL + "/storage"
	conf.Backend.Timeout = 2 * time.Second

	client := backend.NewClient(&conf)
	guard := session.NewGuard(client, &conf)
	store := theme.NewStore()

	return echoweb.NewServer(&echoweb.Options{
		Address:        "localhost:0",
		DisableReqLogs: true,
		Client:         client,
		Guard:          guard,
		Theme:          store,
		Logger:         nopLogger{},
		Email:          emailsvc.NewConsoleService(),
	})
}

// login runs the real login flow and returns the session cookie.
func login(t *testing.T, app http.Handler) *http.Cookie {
	t.Helper()

	form := url.Values{"email": {"head@school.edu"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login failed: status %d, body %s", rec.Code, rec.Body.String())
	}
	res := http.Response{Header: rec.Header()}
	for _, c := range res.Cookies() {
		if c.Name == core.Conf.SessionCookie {
			return c
		}
	}
	t.Fatal("login set no session cookie")
	return nil
}

func get(app http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func postForm(app http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func jsonWrite(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func jsonDecode(r *http.Request, into interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(into)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
