package twiml

import "strings"

// xmlEscaper rewrites the five XML special characters. TwiML consumers parse
// strictly, so the same escaping is applied to attribute values and to text
// content rather than the looser per-context minimum.
var xmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&apos;",
)

// Escape returns s with XML special characters replaced by entity references.
// Verb builders escape automatically; Escape is exported for callers that
// hand-assemble Fragment values from untrusted input.
func Escape(s string) string {
	return xmlEscaper.Replace(s)
}
