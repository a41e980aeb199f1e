package api

import (
	"bytes"
	"strings"

	xhtml "golang.org/x/net/html"
)

type matcher func(*xhtml.Node) bool

func attr(n *xhtml.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *xhtml.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func isElement(n *xhtml.Node, tag string) bool {
	return n.Type == xhtml.ElementNode && (tag == "" || n.Data == tag)
}

func byClass(tag, class string) matcher {
	return func(n *xhtml.Node) bool {
		return isElement(n, tag) && hasClass(n, class)
	}
}

func byID(id string) matcher {
	return func(n *xhtml.Node) bool {
		return n.Type == xhtml.ElementNode && attr(n, "id") == id
	}
}

func byTag(tag string) matcher {
	return func(n *xhtml.Node) bool {
		return isElement(n, tag)
	}
}

// findFirst returns the first descendant of n (excluding n) matching m.
func findFirst(n *xhtml.Node, m matcher) *xhtml.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if found := findFirst(c, m); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant of n matching m in document order.
func findAll(n *xhtml.Node, m matcher) []*xhtml.Node {
	var out []*xhtml.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			out = append(out, c)
		}
		out = append(out, findAll(c, m)...)
	}
	return out
}

// textOf returns the whitespace-collapsed text content of n.
func textOf(n *xhtml.Node) string {
	var sb strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// innerHTML renders the children of n back to markup.
func innerHTML(n *xhtml.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		_ = xhtml.Render(&buf, c)
	}
	return buf.String()
}
