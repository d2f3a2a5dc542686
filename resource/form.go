package resource

import (
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
)

// Form is the in-memory draft of a record currently open in the add/edit
// modal. A nil ID means the draft has never been persisted: submitting it
// performs a create, otherwise an update.
type Form struct {
	ID     *int
	Values map[string]string
	// File is a newly chosen upload. When nil the submission omits the file
	// field entirely and the backend keeps the stored file.
	File       *backend.Upload
	PreviewURL string
}

// BlankForm derives an empty draft from the field list: file fields nil,
// flags default visible, everything else its configured default or "".
func BlankForm(cfg Config) *Form {
	values := make(map[string]string, len(cfg.Fields))
	for _, f := range cfg.Fields {
		if f.Kind == File {
			continue
		}
		switch {
		case f.Default != "":
			values[f.Name] = f.Default
		case f.Bool:
			values[f.Name] = "1"
		default:
			values[f.Name] = ""
		}
	}
	return &Form{Values: values}
}

// EditForm copies a list entry into a draft without mutating the source.
// File fields get a lazily-resolved preview URL off the storage base.
func EditForm(cfg Config, rec Record, storageURL func(string) string) *Form {
	form := &Form{Values: make(map[string]string, len(cfg.Fields))}
	if id, ok := rec.ID(); ok {
		form.ID = &id
	}
	for _, f := range cfg.Fields {
		if f.Kind == File {
			continue
		}
		val := rec.Str(f.Name)
		if f.Kind == DateTime {
			val = datetimeInputValue(val)
		}
		if f.Bool {
			if rec.Flag(f.Name) {
				val = "1"
			} else {
				val = "0"
			}
		}
		form.Values[f.Name] = val
	}
	if cfg.FileField != "" && storageURL != nil {
		if rel := rec.Str(cfg.FileField); rel != "" {
			form.PreviewURL = storageURL(rel)
		}
	}
	return form
}

// IDValue renders the draft id for templates; "" for unsaved drafts.
func (f *Form) IDValue() string {
	if f.ID == nil {
		return ""
	}
	return strconv.Itoa(*f.ID)
}

// Value reads one named value off the draft.
func (f *Form) Value(name string) string {
	return f.Values[name]
}

// SetField updates one named value on the draft.
func (f *Form) SetField(name, value string) {
	if f.Values == nil {
		f.Values = make(map[string]string)
	}
	f.Values[name] = value
}

// SetFile stores a newly chosen upload and refreshes the preview:
// images preview inline, other kinds do not.
func (f *Form) SetFile(field, filename string, content io.Reader) {
	f.File = &backend.Upload{Field: field, Filename: filename, Content: content}
	if isImage(filename) {
		f.PreviewURL = filename
	} else {
		f.PreviewURL = ""
	}
}

// payload serializes the draft's non-file fields in config order. Empty
// optional date fields are omitted, matching what the backend tolerates.
func (f *Form) payload(cfg Config) []backend.FormField {
	fields := make([]backend.FormField, 0, len(cfg.Fields))
	for _, fld := range cfg.Fields {
		if fld.Kind == File {
			continue
		}
		val := f.Values[fld.Name]
		if val == "" && !fld.Required && (fld.Kind == Date || fld.Kind == DateTime) {
			continue
		}
		fields = append(fields, backend.FormField{Name: fld.Name, Value: val})
	}
	return fields
}

// validate runs the local required-field checks before any network call.
func (f *Form) validate(cfg Config) error {
	var fldErrs []core.FieldError
	for _, fld := range cfg.Fields {
		if !fld.Required || fld.Kind == File {
			continue
		}
		if err := core.Validate.Var(core.CleanString(f.Values[fld.Name]), "required"); err != nil {
			fldErrs = append(fldErrs, core.FieldError{
				Field: fld.Name,
				Error: "the " + strings.ToLower(fld.Label) + " field is required",
			})
		}
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}

// datetimeInputValue trims backend timestamps to the YYYY-MM-DDTHH:MM shape
// a datetime-local input expects.
func datetimeInputValue(ts string) string {
	ts = strings.Replace(ts, " ", "T", 1)
	if len(ts) > 16 {
		return ts[:16]
	}
	return ts
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true,
}

func isImage(filename string) bool {
	return imageExts[strings.ToLower(filepath.Ext(filename))]
}
