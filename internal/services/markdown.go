package services

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Raw HTML in descriptions is dropped; goldmark's renderer omits it unless WithUnsafe is set.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

const MaxMarkdownLength = 100_000

// RenderMarkdown converts a task or hackathon description to HTML.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// MustRenderMarkdown is RenderMarkdown for response decoration, where a
// failed render falls back to an empty string.
func MustRenderMarkdown(src string) string {
	html, err := RenderMarkdown(src)
	if err != nil {
		return ""
	}
	return html
}
