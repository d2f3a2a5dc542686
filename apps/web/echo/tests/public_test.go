package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_public_pages(t *testing.T) {
	fb := newFakeBackend(t)
	app := newTestServer(t, fb)

	tests := []struct {
		name string
		path string
		want []string
	}{
		{"home", "/", []string{"Hillside Academy", "Sports day announced", "Welcome"}},
		{"news list", "/news", []string{"Sports day announced", "Save the date"}},
		{"news detail", "/news/1", []string{"Sports day announced", "Details follow."}},
		{"about", "/about", []string{"Founded 1982.", "Excellence", "Teach well"}},
		{"principal", "/principal-message", []string{"J. Rai", "Welcome."}},
		{"contact", "/contact", []string{"Contact Us", "info@school.edu"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(app, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			for _, want := range tt.want {
				assert.Contains(t, body, want)
			}
		})
	}
}

func Test_public_themeCSSOnEveryPage(t *testing.T) {
	fb := newFakeBackend(t)
	app := newTestServer(t, fb)

	rec := get(app, "/")
	assert.Contains(t, rec.Body.String(), "--bs-primary:", "pages carry the palette inline")
}

func Test_public_missingNewsIs404(t *testing.T) {
	fb := newFakeBackend(t)
	app := newTestServer(t, fb)

	rec := get(app, "/news/99")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(app, "/news/not-a-number")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_public_richContentIsSanitized(t *testing.T) {
	fb := newFakeBackend(t)
	// poison the detail endpoint with a script payload
	fb.mux.HandleFunc("/news/7", func(w http.ResponseWriter, r *http.Request) {
		jsonWrite(w, `{"id":7,"title":"Hacked?","content":"<p>fine</p><script>alert(1)</script>","visibility":1}`)
	})
	app := newTestServer(t, fb)

	rec := get(app, "/news/7")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<p>fine</p>")
	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func Test_contact_submit(t *testing.T) {
	fb := newFakeBackend(t)
	app := newTestServer(t, fb)

	t.Run("valid message reaches the backend", func(t *testing.T) {
		form := url.Values{
			"name":    {"A Parent"},
			"email":   {"parent@x.y"},
			"subject": {"Admission"},
			"message": {"When do admissions open?"},
		}
		rec := postForm(app, "/contact", form)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/contact", rec.Header().Get("Location"))

		fb.mu.Lock()
		defer fb.mu.Unlock()
		if assert.Len(t, fb.contactMsgs, 1) {
			assert.Equal(t, "parent@x.y", fb.contactMsgs[0]["email"])
			assert.Equal(t, "Admission", fb.contactMsgs[0]["subject"])
		}
	})

	t.Run("invalid message never leaves the app", func(t *testing.T) {
		fb2 := newFakeBackend(t)
		app2 := newTestServer(t, fb2)

		form := url.Values{"name": {"X"}, "email": {"not-an-email"}, "subject": {""}, "message": {""}}
		rec := postForm(app2, "/contact", form)
		assert.Equal(t, http.StatusOK, rec.Code, "the form re-renders with the draft")
		assert.Contains(t, rec.Body.String(), "Please fill in all the fields correctly.")

		fb2.mu.Lock()
		defer fb2.mu.Unlock()
		assert.Empty(t, fb2.contactMsgs)
	})
}
