package handlers

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"
)

// richPolicy whitelists the markup the admin editors may produce. Scripts,
// iframes, style blocks and on* event attributes never reach the visitor.
var richPolicy = newRichPolicy()

func newRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").OnElements("p", "span", "div", "ul", "ol", "li", "img", "table", "td", "th", "tr")
	p.RequireNoFollowOnLinks(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// richHTML sanitizes backend-authored rich text for safe template injection.
func richHTML(raw string) template.HTML {
	return template.HTML(richPolicy.Sanitize(raw))
}
