package render

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"paragraphs", "<p>first</p><p>second</p>", "first\n\nsecond"},
		{"line break", "one<br>two<br/>three", "one\ntwo\nthree"},
		{"emphasis", "so <em>good</em> and <strong>bold</strong>", "so *good* and **bold**"},
		{"entities", "a &amp; b &lt;3", "a & b <3"},
		{"link with text", `see <a href="https://x.example/v">this</a>`, "see this [https://x.example/v]"},
		{"bare link", `<a href="https://x.example">https://x.example</a>`, "https://x.example"},
		{"inline code", "run <code>make</code>", "run `make`"},
		{"collapses whitespace", "<p>  lots \n of   space </p>", "lots of space"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTMLToText(tt.in, 0))
		})
	}
}

func TestHTMLToText_PreKeepsIndent(t *testing.T) {
	got := HTMLToText("<pre><code>a\n  b</code></pre>", 10)
	assert.Contains(t, got, "    a\n      b")
}

func TestWrap_Latin(t *testing.T) {
	got := Wrap("the quick brown fox jumps", 10)
	for _, line := range strings.Split(got, "\n") {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 10, line)
	}
	assert.Equal(t, "the quick\nbrown fox\njumps", got)
}

func TestWrap_CJKBreaksByWidth(t *testing.T) {
	got := Wrap("这是一个没有空格的很长的句子", 8)
	lines := strings.Split(got, "\n")
	assert.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 8, line)
	}
	assert.Equal(t, "这是一个没有空格的很长的句子", strings.Join(lines, ""))
}

func TestWrap_ZeroWidthIsNoop(t *testing.T) {
	assert.Equal(t, "a b c", Wrap("a b c", 0))
}

func TestTimeAgo(t *testing.T) {
	assert.Equal(t, "unknown", TimeAgo(0))
	assert.Contains(t, TimeAgo(time.Now().Add(-3*time.Hour).Unix()), "hours ago")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, 5, runewidth.StringWidth(Truncate("hello world", 5)))
	assert.Equal(t, "", Truncate("hello", 0))
}
