package emitter

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// utility class lists include brackets, slashes and dots (mt-[17px], w-1/2, py-0.5)
var utilityClasses = regexp.MustCompile(`^[\p{L}\p{N}\s_\-\[\]\.:/%#()!,]+$`)

// Sanitize strips scripts, event handlers and unsafe URLs from rendered
// HTML while keeping utility classes and data attributes.
func Sanitize(markup string) string {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(utilityClasses).Globally()
	p.AllowDataAttributes()
	p.AllowElements("section", "article", "header", "footer", "nav", "main", "aside", "figure", "figcaption")
	return p.Sanitize(markup)
}
