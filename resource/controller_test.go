package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testConfig() Config {
	return Config{
		Name:           "news",
		Singular:       "news",
		Title:          "News",
		ListEndpoint:   "/news",
		CreateEndpoint: "/admin/news",
		UpdateEndpoint: adminItemPath("news"),
		DeleteEndpoint: adminItemPath("news"),
		Fields: []Field{
			{Name: "title", Label: "Title", Kind: Text, Required: true},
			{Name: "summary", Label: "Summary", Kind: Textarea},
			{Name: "published_at", Label: "Published At", Kind: DateTime},
			{Name: "visibility", Label: "Visibility", Kind: Select, Bool: true},
			{Name: "image", Label: "Image", Kind: File},
		},
		SearchField:     "title",
		FileField:       "image",
		VisibilityField: "visibility",
	}
}

func testController(t *testing.T, handler http.Handler) *Controller {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	conf := new(core.Config)
	conf.Backend.BaseURL = srv.URL
	conf.Backend.StorageBaseURL = srv.URL + "/storage"
	conf.Backend.Timeout = 2 * time.Second
	return NewController(testConfig(), backend.NewClient(conf), nopLogger{})
}

func listJSON(records ...Record) string {
	data, _ := json.Marshal(records)
	return string(data)
}

func rec(id int, title string, visible bool) Record {
	v := 0
	if visible {
		v = 1
	}
	return Record{"id": float64(id), "title": title, "visibility": float64(v)}
}

func Test_Controller_Load(t *testing.T) {
	t.Run("success replaces the collection", func(t *testing.T) {
		ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(listJSON(rec(1, "Sports day", true), rec(2, "Exam routine", true))))
		}))

		assert.NoError(t, ctl.Load(context.Background()))
		assert.Len(t, ctl.Collection(), 2)
		assert.Len(t, ctl.Filtered(), 2)
		assert.Nil(t, ctl.Notification())
	})

	t.Run("failure empties the collection and reports it", func(t *testing.T) {
		fail := false
		ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if fail {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(listJSON(rec(1, "Sports day", true))))
		}))

		ctx := context.Background()
		assert.NoError(t, ctl.Load(ctx))
		assert.Len(t, ctl.Collection(), 1)

		fail = true
		assert.Error(t, ctl.Load(ctx))
		assert.Empty(t, ctl.Collection())

		notif := ctl.TakeNotification()
		if assert.NotNil(t, notif) {
			assert.Equal(t, "danger", notif.Kind)
			assert.Equal(t, "Failed to load News.", notif.Message)
		}
		assert.Nil(t, ctl.Notification(), "taking the notification clears it")
	})

	t.Run("a stale response never overwrites a newer one", func(t *testing.T) {
		firstArrived := make(chan struct{})
		release := make(chan struct{})
		var reqs int32
		ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&reqs, 1) == 1 {
				// the first load stalls until the second has finished
				close(firstArrived)
				<-release
				w.Write([]byte(listJSON(rec(1, "Stale", true))))
				return
			}
			w.Write([]byte(listJSON(rec(2, "Fresh", true))))
		}))

		ctx := context.Background()
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ctl.Load(ctx))
		}()

		<-firstArrived
		assert.NoError(t, ctl.Load(ctx))
		close(release)
		wg.Wait()

		if records := ctl.Collection(); assert.Len(t, records, 1) {
			assert.Equal(t, "Fresh", records[0].Str("title"))
		}
	})
}

func Test_Controller_SetSearch(t *testing.T) {
	ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listJSON(
			rec(1, "Annual Sports Day", true),
			rec(2, "Exam routine", true),
			rec(3, "sports week", false),
		)))
	}))
	assert.NoError(t, ctl.Load(context.Background()))

	ctl.SetSearch("SPORTS")
	filtered := ctl.Filtered()
	assert.Len(t, filtered, 2)
	assert.Equal(t, "Annual Sports Day", filtered[0].Str("title"))
	assert.Equal(t, "sports week", filtered[1].Str("title"))

	// the source collection is never mutated by filtering
	assert.Len(t, ctl.Collection(), 3)

	ctl.SetSearch("")
	assert.Len(t, ctl.Filtered(), 3)

	ctl.SetSearch("no such thing")
	assert.Empty(t, ctl.Filtered())
}

func Test_Controller_Save_create(t *testing.T) {
	var (
		gotPath   string
		gotMethod string
		gotQuery  string
		gotTitle  string
	)
	ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/news" {
			w.Write([]byte(listJSON(rec(1, "Fresh", true))))
			return
		}
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		_ = r.ParseMultipartForm(1 << 20)
		gotTitle = r.FormValue("title")
		w.Write([]byte(`{}`))
	}))

	ctl.OpenCreate()
	ctl.SetField("title", "Fresh")

	assert.NoError(t, ctl.Save(context.Background()))
	assert.Equal(t, "/admin/news", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Empty(t, gotQuery, "create must not carry a method override")
	assert.Equal(t, "Fresh", gotTitle)

	assert.Nil(t, ctl.Form(), "the draft closes on success")
	assert.Len(t, ctl.Collection(), 1, "the collection reloads on success")

	notif := ctl.TakeNotification()
	if assert.NotNil(t, notif) {
		assert.Equal(t, "success", notif.Kind)
		assert.Equal(t, "News added successfully!", notif.Message)
	}
}

func Test_Controller_Save_update(t *testing.T) {
	var gotPath, gotQuery string
	ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/news" {
			w.Write([]byte(listJSON(rec(7, "Renamed", true))))
			return
		}
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))

	assert.NoError(t, ctl.Load(context.Background()))
	ctl.OpenEdit(rec(7, "Old title", true))
	ctl.SetField("title", "Renamed")

	assert.NoError(t, ctl.Save(context.Background()))
	assert.Equal(t, "/admin/news/7", gotPath)
	assert.Equal(t, "_method=PUT", gotQuery)

	notif := ctl.TakeNotification()
	if assert.NotNil(t, notif) {
		assert.Equal(t, "News updated successfully!", notif.Message)
	}
}

func Test_Controller_Save_localValidation(t *testing.T) {
	calls := 0
	ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))

	ctl.OpenCreate()
	ctl.SetField("title", "   ") // whitespace only

	assert.Error(t, ctl.Save(context.Background()))
	assert.Zero(t, calls, "a locally invalid draft must not reach the network")
	assert.NotNil(t, ctl.Form(), "the draft stays open")

	notif := ctl.TakeNotification()
	if assert.NotNil(t, notif) {
		assert.Equal(t, "danger", notif.Kind)
		assert.Equal(t, "the title field is required", notif.Message)
	}
}

func Test_Controller_Save_backendRejection(t *testing.T) {
	ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/news" {
			w.Write([]byte(`[]`))
			return
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Invalid.","errors":{"published_at":["the published at field must be a valid date"]}}`))
	}))

	ctl.OpenCreate()
	ctl.SetField("title", "Fresh")
	ctl.SetField("published_at", "junk")

	assert.Error(t, ctl.Save(context.Background()))
	assert.NotNil(t, ctl.Form(), "the draft survives a backend rejection")

	notif := ctl.TakeNotification()
	if assert.NotNil(t, notif) {
		assert.Equal(t, "danger", notif.Kind)
		assert.Equal(t, "the published at field must be a valid date", notif.Message)
	}
}

func Test_Controller_Save_singleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/news" {
			w.Write([]byte(`[]`))
			return
		}
		// only the first save blocks; later saves pass straight through
		once.Do(func() { close(started) })
		<-release
		w.Write([]byte(`{}`))
	}))

	ctl.OpenCreate()
	ctl.SetField("title", "Fresh")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, ctl.Save(context.Background()))
	}()

	<-started
	err := ctl.Save(context.Background())
	assert.ErrorIs(t, err, errSaveInFlight)

	close(release)
	wg.Wait()

	// the flag releases once the first save completes
	ctl.OpenCreate()
	ctl.SetField("title", "Another")
	assert.NoError(t, ctl.Save(context.Background()))
}

func Test_Controller_Remove(t *testing.T) {
	t.Run("success reloads and reports", func(t *testing.T) {
		var gotMethod, gotPath string
		ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				w.Write([]byte(`[]`))
				return
			}
			gotMethod = r.Method
			gotPath = r.URL.Path
			w.Write([]byte(`{}`))
		}))

		assert.NoError(t, ctl.Remove(context.Background(), 5))
		assert.Equal(t, http.MethodDelete, gotMethod)
		assert.Equal(t, "/admin/news/5", gotPath)

		notif := ctl.TakeNotification()
		if assert.NotNil(t, notif) {
			assert.Equal(t, "News deleted successfully!", notif.Message)
		}
	})

	t.Run("already gone", func(t *testing.T) {
		ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not found."}`))
		}))

		assert.Error(t, ctl.Remove(context.Background(), 99))
		notif := ctl.TakeNotification()
		if assert.NotNil(t, notif) {
			assert.Equal(t, "danger", notif.Kind)
			assert.Equal(t, "News no longer exists.", notif.Message)
		}
	})
}

func Test_Controller_ToggleVisibility(t *testing.T) {
	var (
		gotQuery string
		gotForm  map[string][]string
		hasFile  bool
	)
	ctl := testController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(listJSON(rec(3, "Sports day", false))))
			return
		}
		gotQuery = r.URL.RawQuery
		_ = r.ParseMultipartForm(1 << 20)
		gotForm = r.MultipartForm.Value
		hasFile = len(r.MultipartForm.File) > 0
		w.Write([]byte(`{}`))
	}))

	visible := rec(3, "Sports day", true)
	assert.NoError(t, ctl.ToggleVisibility(context.Background(), visible))

	assert.Equal(t, "_method=PUT", gotQuery)
	assert.Equal(t, []string{"0"}, gotForm["visibility"], "visible flips to hidden")
	assert.Equal(t, []string{"Sports day"}, gotForm["title"], "required fields are re-sent")
	assert.False(t, hasFile, "a toggle never re-uploads the stored file")

	notif := ctl.TakeNotification()
	if assert.NotNil(t, notif) {
		assert.Equal(t, "News updated successfully!", notif.Message)
	}
}

func Test_Controller_filterIsPure(t *testing.T) {
	records := []Record{rec(1, "Alpha", true), rec(2, "beta", true)}
	out := filter(records, "title", "alpha")
	assert.Len(t, out, 1)
	assert.Len(t, records, 2)

	// empty term returns the original slice untouched
	same := filter(records, "title", "")
	assert.Same(t, &records[0], &same[0])
}

func Test_capitalize(t *testing.T) {
	assert.Equal(t, "News", capitalize("news"))
	assert.Equal(t, "Slide", capitalize("slide"))
	assert.Equal(t, "", capitalize(""))
}

func Test_saveFailureMessage(t *testing.T) {
	cfg := testConfig()

	t.Run("first field message wins", func(t *testing.T) {
		err := apiValidationError(t, `{"message":"Invalid.","errors":{"title":["the title field is required"]}}`)
		assert.Equal(t, "the title field is required", saveFailureMessage(err, cfg))
	})

	t.Run("generic fallback", func(t *testing.T) {
		err := &backend.APIError{Kind: backend.ServerFailure, Message: "Internal Server Error (HTTP 500)"}
		assert.Equal(t, "Failed to save news.", saveFailureMessage(err, cfg))
	})
}

// apiValidationError round-trips a 422 body through a throwaway server to
// build the same *APIError the client would surface.
func apiValidationError(t *testing.T, body string) error {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	conf := new(core.Config)
	conf.Backend.BaseURL = srv.URL
	conf.Backend.Timeout = time.Second
	_, err := backend.NewClient(conf).Get(context.Background(), "/x")
	if err == nil {
		t.Fatal("expected an error")
	}
	return err
}
