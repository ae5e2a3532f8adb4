package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	r := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "Write Q1 report",
			expected: "<p>Write Q1 report</p>",
		},
		{
			name:     "blank",
			input:    "  \n ",
			expected: "",
		},
		{
			name:     "emphasis and strikethrough",
			input:    "**bold** and ~~gone~~",
			expected: "<p><strong>bold</strong> and <del>gone</del></p>",
		},
		{
			name:     "inline code",
			input:    "run `make test`",
			expected: "<p>run <code>make test</code></p>",
		},
		{
			name:     "list",
			input:    "- milk\n- eggs",
			expected: "<ul>\n<li>milk</li>\n<li>eggs</li>\n</ul>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Render(tt.input))
		})
	}
}

func TestRender_StripsUnsafeMarkup(t *testing.T) {
	r := New()

	t.Run("script tag", func(t *testing.T) {
		out := r.Render("hello <script>alert(1)</script>")
		assert.NotContains(t, out, "<script")
		assert.Contains(t, out, "hello")
	})

	t.Run("javascript link", func(t *testing.T) {
		out := r.Render("[click](javascript:alert(1))")
		assert.NotContains(t, out, "javascript:")
	})

	t.Run("event handler attribute", func(t *testing.T) {
		out := r.Render(`<img src="x" onerror="alert(1)">`)
		assert.NotContains(t, out, "onerror")
	})
}

func TestRender_Links(t *testing.T) {
	r := New()

	out := r.Render("see https://folio.example/docs")
	assert.Contains(t, out, `href="https://folio.example/docs"`)
	assert.Contains(t, out, "nofollow")
	assert.Contains(t, out, "noopener")
	assert.Contains(t, out, `target="_blank"`)
}

func TestRender_HardWraps(t *testing.T) {
	out := New().Render("line one\nline two")
	assert.Contains(t, out, "<br")
	assert.Contains(t, out, "line two")
}

func TestRender_TaskList(t *testing.T) {
	r := New()

	out := r.Render("- [x] done\n- [ ] open")
	assert.Contains(t, out, "<input")
	assert.Contains(t, out, "checked")
	assert.Contains(t, out, "done")
	assert.Contains(t, out, "open")
}
