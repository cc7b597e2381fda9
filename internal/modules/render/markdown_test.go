package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	t.Parallel()

	html := RenderMarkdown("# Key Points\n\n- **first** point\n- ~~dropped~~ idea")
	require.Contains(t, html, "<h1>Key Points</h1>")
	require.Contains(t, html, "<strong>first</strong>")
	require.Contains(t, html, "<del>dropped</del>")

	require.Empty(t, RenderMarkdown("   \n  "))
}

func TestRenderMarkdownLinkify(t *testing.T) {
	t.Parallel()

	html := RenderMarkdown("see https://example.com for more")
	require.Contains(t, html, `<a href="https://example.com"`)
}

func TestRenderPageEscapesTitle(t *testing.T) {
	t.Parallel()

	page := renderPage("<script>alert(1)</script>", "https://www.youtube.com/watch?v=abc", "<p>body</p>")
	require.NotContains(t, page, "<script>alert(1)</script>")
	require.Contains(t, page, "&lt;script&gt;")
	require.Contains(t, page, `href="https://www.youtube.com/watch?v=abc"`)
	require.Contains(t, page, "<p>body</p>")
}
