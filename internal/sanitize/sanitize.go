// Package sanitize cleans user-supplied text before it is stored.
//
// Every free-text field the console renders (lead fields, remarks, chat
// messages, request details) passes through Text, so stored values never
// carry markup.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxPasses bounds how many layers of entity encoding Text peels off.
const maxPasses = 5

// strict removes every element and attribute. It is safe for concurrent use.
var strict = bluemonday.StrictPolicy()

// Text strips all HTML from s and trims surrounding whitespace. Plain text
// round-trips unchanged ("Tom & Jerry" stays "Tom & Jerry").
//
// Decoding entities can reveal new markup ("&lt;b&gt;" becomes "<b>"), so
// the policy is reapplied until the output stops changing. Input still
// unstable after maxPasses is returned in its escaped form.
func Text(s string) string {
	out := strings.TrimSpace(s)
	for range maxPasses {
		next := strings.TrimSpace(html.UnescapeString(strict.Sanitize(out)))
		if next == out {
			return out
		}
		out = next
	}
	return strings.TrimSpace(strict.Sanitize(out))
}
