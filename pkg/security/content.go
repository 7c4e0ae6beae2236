package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer strips unsafe markup from article bodies produced by the editor.
type ContentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer builds a UGC policy extended with the editor's heading and figure markup.
func NewContentSanitizer() *ContentSanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("p", "span", "div", "figure", "pre", "code")
	p.AllowRelativeURLs(false)
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &ContentSanitizer{policy: p}
}

// Sanitize returns the safe subset of rawHTML.
func (s *ContentSanitizer) Sanitize(rawHTML string) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}
	return s.policy.Sanitize(rawHTML)
}

// StripTags removes all markup, used for plain-text fields such as titles and excerpts.
// The result is plain text: entities the policy emits are decoded again.
func StripTags(value string) string {
	return strings.TrimSpace(html.UnescapeString(bluemonday.StrictPolicy().Sanitize(value)))
}
