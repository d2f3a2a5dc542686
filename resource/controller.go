package resource

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
)

// Notification is the transient outcome banner: one visible at a time per
// screen, a new one replaces (not queues) the previous one.
type Notification struct {
	Message string
	Kind    string // "success" | "danger"
}

var errSaveInFlight = errors.New("a save is already in progress")

// Controller drives one content type's list/search/create/update/delete/
// visibility-toggle workflow against the backend. All network failures are
// converted to notifications; the returned errors exist so callers can spot
// authentication failures and expire the session.
type Controller struct {
	cfg    Config
	client *backend.Client
	logger core.Logger

	mu         sync.Mutex
	collection []Record
	filtered   []Record
	search     string
	form       *Form
	saving     bool
	notif      *Notification

	// loadSeq orders concurrent loads so a stale response cannot
	// overwrite a newer one.
	loadSeq atomic.Int64
}

func NewController(cfg Config, client *backend.Client, logger core.Logger) *Controller {
	return &Controller{cfg: cfg, client: client, logger: logger}
}

func (ctl *Controller) Config() Config { return ctl.cfg }

// Load replaces the in-memory collection from the list endpoint. On failure
// the collection empties and a danger notification is set; the error is
// returned only for authentication checks.
func (ctl *Controller) Load(ctx context.Context) error {
	seq := ctl.loadSeq.Add(1)

	var records []Record
	err := ctl.client.GetJSON(ctx, ctl.cfg.ListEndpoint, &records)

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if seq != ctl.loadSeq.Load() {
		// a newer load has been issued; drop this response
		return nil
	}
	if err != nil {
		ctl.logger.Error("loading "+ctl.cfg.Name, err)
		ctl.collection = nil
		ctl.filtered = nil
		ctl.notify("danger", "Failed to load "+ctl.cfg.Title+".")
		return err
	}
	ctl.collection = records
	ctl.filtered = filter(records, ctl.cfg.SearchField, ctl.search)
	return nil
}

// SetSearch updates the filter string and recomputes the filtered view
// synchronously. The source collection is never mutated.
func (ctl *Controller) SetSearch(term string) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.search = term
	ctl.filtered = filter(ctl.collection, ctl.cfg.SearchField, term)
}

// Collection returns the full unfiltered collection.
func (ctl *Controller) Collection() []Record {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.collection
}

// Filtered returns the current filtered view.
func (ctl *Controller) Filtered() []Record {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.filtered
}

func (ctl *Controller) Search() string {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.search
}

// OpenCreate opens a blank draft derived from the field list.
func (ctl *Controller) OpenCreate() {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.form = BlankForm(ctl.cfg)
}

// OpenEdit opens a draft copied from the given record.
func (ctl *Controller) OpenEdit(rec Record) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.form = EditForm(ctl.cfg, rec, ctl.client.StorageURL)
}

// SetForm rebinds a draft that round-tripped through the browser: the HTTP
// layer reconstructs the active form from the submitted values and installs
// it here before calling Save.
func (ctl *Controller) SetForm(form *Form) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.form = form
}

// CloseForm discards the draft without saving.
func (ctl *Controller) CloseForm() {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.form = nil
}

// Form returns the active draft, nil when no modal is open.
func (ctl *Controller) Form() *Form {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.form
}

func (ctl *Controller) SetField(name, value string) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if ctl.form != nil {
		ctl.form.SetField(name, value)
	}
}

func (ctl *Controller) Saving() bool {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.saving
}

// Save submits the active draft. At most one save is in flight per
// controller; re-entrant submissions are rejected before any network call.
// A nil draft id routes to the create endpoint, otherwise to the update
// endpoint via POST with the method-override marker. The file field goes out
// only when a new file was chosen.
func (ctl *Controller) Save(ctx context.Context) error {
	ctl.mu.Lock()
	if ctl.saving {
		ctl.mu.Unlock()
		return errSaveInFlight
	}
	form := ctl.form
	if form == nil {
		ctl.mu.Unlock()
		return errors.New("no active form")
	}
	ctl.saving = true
	ctl.mu.Unlock()

	// the in-flight flag is always released, success or failure
	defer func() {
		ctl.mu.Lock()
		ctl.saving = false
		ctl.mu.Unlock()
	}()

	if err := form.validate(ctl.cfg); err != nil {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) {
			ctl.setNotification("danger", vErr.First())
		}
		return err
	}

	path := ctl.cfg.CreateEndpoint
	action := "added"
	if form.ID != nil {
		path = ctl.cfg.UpdateEndpoint(*form.ID) + "?_method=PUT"
		action = "updated"
	}

	if err := ctl.client.PostMultipart(ctx, path, form.payload(ctl.cfg), nil, form.File); err != nil {
		ctl.logger.Error("saving "+ctl.cfg.Singular, err)
		ctl.setNotification("danger", saveFailureMessage(err, ctl.cfg))
		return err
	}

	ctl.CloseForm()
	_ = ctl.Load(ctx) // outcome already reported below
	ctl.setNotification("success", capitalize(ctl.cfg.Singular)+" "+action+" successfully!")
	return nil
}

// Remove deletes by id after the HTTP layer has collected the user's
// confirmation. The list updates only after the server round-trip; deleting
// an id that is already gone still issues the call and surfaces the
// backend's not-found outcome.
func (ctl *Controller) Remove(ctx context.Context, id int) error {
	if err := ctl.client.Delete(ctx, ctl.cfg.DeleteEndpoint(id)); err != nil {
		ctl.logger.Error("deleting "+ctl.cfg.Singular, err)
		if backend.IsNotFound(err) {
			ctl.setNotification("danger", capitalize(ctl.cfg.Singular)+" no longer exists.")
		} else {
			ctl.setNotification("danger", "Failed to delete "+ctl.cfg.Singular+".")
		}
		return err
	}
	_ = ctl.Load(ctx)
	ctl.setNotification("success", capitalize(ctl.cfg.Singular)+" deleted successfully!")
	return nil
}

// ToggleVisibility flips the record's visibility flag. The backend validates
// full payloads even on partial intent, so the other required fields are
// re-sent unchanged.
func (ctl *Controller) ToggleVisibility(ctx context.Context, rec Record) error {
	if ctl.cfg.VisibilityField == "" {
		return errors.Errorf("%s has no visibility flag", ctl.cfg.Name)
	}
	id, ok := rec.ID()
	if !ok {
		return errors.New("record has no id")
	}

	form := EditForm(ctl.cfg, rec, nil)
	if rec.Flag(ctl.cfg.VisibilityField) {
		form.SetField(ctl.cfg.VisibilityField, "0")
	} else {
		form.SetField(ctl.cfg.VisibilityField, "1")
	}

	path := ctl.cfg.UpdateEndpoint(id) + "?_method=PUT"
	if err := ctl.client.PostMultipart(ctx, path, form.payload(ctl.cfg), nil); err != nil {
		ctl.logger.Error("toggling "+ctl.cfg.Singular, err)
		ctl.setNotification("danger", "Failed to update "+ctl.cfg.Singular+".")
		return err
	}
	_ = ctl.Load(ctx)
	ctl.setNotification("success", capitalize(ctl.cfg.Singular)+" updated successfully!")
	return nil
}

// Notification returns the current banner without clearing it.
func (ctl *Controller) Notification() *Notification {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.notif
}

// TakeNotification returns and clears the current banner.
func (ctl *Controller) TakeNotification() *Notification {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	n := ctl.notif
	ctl.notif = nil
	return n
}

func (ctl *Controller) setNotification(kind, msg string) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	ctl.notify(kind, msg)
}

// notify replaces the visible notification; callers hold ctl.mu.
func (ctl *Controller) notify(kind, msg string) {
	ctl.notif = &Notification{Message: msg, Kind: kind}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// filter returns the records whose designated field contains `term`
// case-insensitively. An empty term yields the full collection in order.
func filter(records []Record, field, term string) []Record {
	if term == "" {
		return records
	}
	needle := strings.ToLower(term)
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if strings.Contains(strings.ToLower(rec.Str(field)), needle) {
			out = append(out, rec)
		}
	}
	return out
}

// saveFailureMessage picks the most specific available message: the first
// validation message when present, else a generic failure string.
func saveFailureMessage(err error, cfg Config) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Kind == backend.ValidationFailure {
		if msg := apiErr.FirstFieldError(); msg != "" {
			return msg
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return "Failed to save " + cfg.Singular + "."
}
