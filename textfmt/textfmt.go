// Package textfmt cleans user supplied text and renders message bodies.
package textfmt

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Sanitize strips every HTML tag from s and trims surrounding space. Entities
// that the policy escapes are turned back into plain characters.
func Sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// RenderMarkdown renders a message body to HTML that is safe to embed.
func RenderMarkdown(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	unsafe := blackfriday.Run([]byte(body), blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.HardLineBreak))
	return strings.TrimSpace(string(ugc.SanitizeBytes(unsafe)))
}
