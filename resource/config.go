// Package resource implements the one generic admin workflow every content
// type shares: load a collection, filter it by a search string, edit a draft
// record in a form, submit it as a multipart request, delete by id, and
// report the outcome through a transient notification. Each content type
// contributes only a Config; the engine is written once.
package resource

import "strconv"

type FieldKind string

const (
	Text     FieldKind = "text"
	Textarea FieldKind = "textarea"
	Select   FieldKind = "select"
	File     FieldKind = "file"
	Date     FieldKind = "date"
	DateTime FieldKind = "datetime"
	Number   FieldKind = "number"
)

type (
	Option struct {
		Value string
		Label string
	}

	Field struct {
		Name     string
		Label    string
		Kind     FieldKind
		Required bool
		// Bool marks 0/1 flags; they serialize as "1"/"0" and default to "1".
		Bool    bool
		Options []Option
		Default string
	}

	Config struct {
		// Name is the plural URL slug, e.g. "news".
		Name     string
		Singular string
		Title    string

		ListEndpoint   string
		CreateEndpoint string
		UpdateEndpoint func(id int) string
		DeleteEndpoint func(id int) string

		Fields []Field
		// SearchField is matched case-insensitively by the list filter.
		SearchField string
		// FileField, when set, names the single owned file reference.
		FileField string
		// VisibilityField names the 0/1 flag flipped by the visibility toggle.
		// Empty means the resource has no toggle.
		VisibilityField string
	}
)

// Field returns the named field config.
func (c Config) Field(name string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// adminPath builds "/admin/<name>" style endpoints.
func adminPath(name string) string { return "/admin/" + name }

func adminItemPath(name string) func(int) string {
	return func(id int) string { return "/admin/" + name + "/" + strconv.Itoa(id) }
}
