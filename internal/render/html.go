package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	xhtml "golang.org/x/net/html"
)

// HTMLToText converts comment body markup to plain text with light
// formatting. Drupal comment bodies use <p>, <br>, <a>, <em>/<i>,
// <strong>/<b>, <code>, <pre> and <blockquote>.
func HTMLToText(raw string, width int) string {
	if raw == "" {
		return ""
	}

	tokenizer := xhtml.NewTokenizer(strings.NewReader(raw))
	var sb strings.Builder
	var inPre, inCode bool
	var quoteDepth int
	var anchorURL string
	var anchorStart int

	for {
		tt := tokenizer.Next()
		switch tt {
		case xhtml.ErrorToken:
			return Wrap(trimOuter(sb.String()), width)

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "p", "div":
				if sb.Len() > 0 {
					blockBreak(&sb, "\n\n")
				}
			case "br":
				blockBreak(&sb, "\n")
			case "i", "em":
				sb.WriteString("*")
			case "b", "strong":
				sb.WriteString("**")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
				inCode = true
			case "pre":
				inPre = true
				sb.WriteString("\n")
			case "blockquote":
				quoteDepth++
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString("> ")
			case "a":
				anchorURL = ""
				for _, attr := range t.Attr {
					if attr.Key == "href" {
						anchorURL = attr.Val
					}
				}
				anchorStart = sb.Len()
			}

		case xhtml.EndTagToken:
			t := tokenizer.Token()
			switch t.Data {
			case "i", "em":
				sb.WriteString("*")
			case "b", "strong":
				sb.WriteString("**")
			case "code":
				if !inPre {
					sb.WriteString("`")
				}
				inCode = false
			case "pre":
				inPre = false
				sb.WriteString("\n")
			case "blockquote":
				if quoteDepth > 0 {
					quoteDepth--
				}
				sb.WriteString("\n")
			case "a":
				if anchorURL != "" {
					if anchorStart > sb.Len() {
						anchorStart = sb.Len()
					}
					text := strings.TrimSpace(sb.String()[anchorStart:])
					// Only append the URL if it differs from the link text.
					if text != anchorURL {
						sb.WriteString(" [")
						sb.WriteString(anchorURL)
						sb.WriteString("]")
					}
				}
				anchorURL = ""
			}

		case xhtml.TextToken:
			text := tokenizer.Token().Data
			switch {
			case inPre:
				// Preserve whitespace in pre blocks, indent with 4 spaces.
				for i, line := range strings.Split(text, "\n") {
					if i > 0 {
						sb.WriteString("\n")
					}
					if line != "" {
						sb.WriteString("    ")
						sb.WriteString(line)
					}
				}
			case inCode:
				sb.WriteString(text)
			default:
				t := collapseSpace(text)
				if atLineStart(&sb) {
					t = strings.TrimLeft(t, " ")
				}
				sb.WriteString(t)
			}
		}
	}
}

// blockBreak ends the current line, dropping trailing spaces and
// never stacking more than a paragraph gap.
func blockBreak(sb *strings.Builder, nl string) {
	s := strings.TrimRight(sb.String(), " ")
	if nl == "\n\n" {
		s = strings.TrimRight(s, "\n")
	}
	sb.Reset()
	sb.WriteString(s)
	sb.WriteString(nl)
}

func atLineStart(sb *strings.Builder) bool {
	s := sb.String()
	return s == "" || s[len(s)-1] == '\n'
}

// trimOuter strips surrounding blank space but keeps the indent of a
// leading code block.
func trimOuter(s string) string {
	s = strings.TrimLeft(s, "\n")
	if !strings.HasPrefix(s, "    ") {
		s = strings.TrimLeft(s, " \t")
	}
	return strings.TrimRight(s, " \t\n")
}

func collapseSpace(s string) string {
	if strings.TrimSpace(s) == "" {
		if s == "" {
			return ""
		}
		return " "
	}
	lead := s[0] == ' ' || s[0] == '\n' || s[0] == '\t'
	trail := strings.ContainsAny(s[len(s)-1:], " \n\t")
	out := strings.Join(strings.Fields(s), " ")
	if lead {
		out = " " + out
	}
	if trail {
		out += " "
	}
	return out
}

// Wrap performs word wrapping by terminal display width. Runs without
// spaces (CJK text) are broken at rune boundaries.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	var result strings.Builder
	for _, paragraph := range strings.Split(text, "\n") {
		if strings.HasPrefix(paragraph, "    ") {
			// Don't wrap code blocks.
			result.WriteString(paragraph)
			result.WriteString("\n")
			continue
		}
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}
		lineLen := 0
		for i, word := range words {
			wlen := runewidth.StringWidth(word)
			switch {
			case i > 0 && lineLen+1+wlen <= width:
				result.WriteString(" ")
				lineLen++
			case i > 0:
				result.WriteString("\n")
				lineLen = 0
			}
			for _, r := range word {
				rw := runewidth.RuneWidth(r)
				if lineLen > 0 && lineLen+rw > width {
					result.WriteString("\n")
					lineLen = 0
				}
				result.WriteRune(r)
				lineLen += rw
			}
		}
		result.WriteString("\n")
	}
	return strings.TrimRight(result.String(), "\n")
}
