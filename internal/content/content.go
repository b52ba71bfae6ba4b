// Package content cleans user-supplied text and renders recipe descriptions.
//
// Plain text (comments, titles, ingredients) is stripped of all markup with
// bluemonday's strict policy. Descriptions may use Markdown; they are
// rendered with goldmark and the resulting HTML is passed through the UGC
// policy before it is served.
package content

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	md = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)

	strict = bluemonday.StrictPolicy()
	ugc    = newUGCPolicy()
)

func newUGCPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowImages()
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)
	return p
}

// StripTags removes all HTML from s, unescapes the entities bluemonday
// produces and trims surrounding space. The result is safe to store as
// plain text.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// StripAll applies StripTags to every element and drops the ones that end
// up empty.
func StripAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if v := StripTags(s); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// RenderMarkdown converts Markdown to sanitized HTML. On a render failure
// the escaped source is returned.
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return html.EscapeString(source)
	}
	return string(ugc.SanitizeBytes(buf.Bytes()))
}
