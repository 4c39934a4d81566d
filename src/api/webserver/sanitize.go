package webserver

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// newSanitizer builds the policy applied to user-visible markdown replies:
// strip everything except basic formatting elements.
func newSanitizer() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AllowElements("p", "br", "strong", "em", "code", "pre", "blockquote")
	p.AllowElements("ul", "ol", "li")
	p.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("href").OnElements("a")
	p.RequireParseableURLs(true)
	return p
}

// SanitizeDollarSigns converts raw '$' into the HTML entity '&#36;' so browser
// UIs render a literal dollar sign instead of treating it as LaTeX math.
// Reapplying it is a no-op: the entity contains no '$', so already-escaped text
// is never double-escaped.
func SanitizeDollarSigns(text string) string {
	return strings.ReplaceAll(text, "$", "&#36;")
}
