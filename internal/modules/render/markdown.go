// Package render turns cached summaries, which the model produces as
// markdown, into standalone HTML pages for sharing or printing.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// RenderMarkdown converts summary markdown to an HTML fragment. Falls
// back to escaped plain text when conversion fails.
func RenderMarkdown(markdownText string) string {
	text := strings.TrimSpace(markdownText)
	if text == "" {
		return ""
	}

	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(text), &out); err != nil {
		return "<pre>" + template.HTMLEscapeString(text) + "</pre>"
	}
	return out.String()
}

func renderPage(title, sourceURL, body string) string {
	escapedTitle := template.HTMLEscapeString(strings.TrimSpace(title))
	link := ""
	if sourceURL != "" {
		escapedURL := template.HTMLEscapeString(sourceURL)
		link = `<p class="source"><a href="` + escapedURL + `">` + escapedURL + `</a></p>`
	}
	return `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>` + escapedTitle + `</title>
  <style>
    body { margin: 0; padding: 24px; font: 16px/1.7 -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; color: #222; background: #fff; }
    main { max-width: 860px; margin: 0 auto; }
    h1 { margin: 0 0 8px; font-size: 28px; }
    .source { margin: 0 0 24px; font-size: 14px; }
    pre { white-space: pre-wrap; word-break: break-word; border: 1px solid #eee; border-radius: 8px; padding: 16px; background: #fafafa; }
  </style>
</head>
<body>
  <main>
    <h1>` + escapedTitle + `</h1>
    ` + link + `
    ` + body + `
  </main>
</body>
</html>`
}
