package comment

import "fmt"

// Expansion holds the transient "replies visible" flag per comment ID.
// Unset entries fall back to InitiallyExpanded.
type Expansion map[string]bool

// Expanded reports whether c's replies are currently shown.
func (e Expansion) Expanded(c Comment) bool {
	if v, ok := e[c.ID]; ok {
		return v
	}
	return InitiallyExpanded(c)
}

// Expand reveals c's replies. There is no inverse.
func (e Expansion) Expand(c Comment) {
	e[c.ID] = true
}

// RowKind distinguishes the lines produced by Layout.
type RowKind int

const (
	RowComment RowKind = iota
	RowDisclosure
)

// Row is one selectable entry of a laid-out thread.
type Row struct {
	Kind    RowKind
	Comment Comment
	Depth   int
	// Replies is the total descendant count of Comment; set on disclosure rows.
	Replies int
}

// Label returns the disclosure text for a disclosure row.
func (r Row) Label() string {
	return ReplySummary(r.Replies)
}

// ReplySummary is the collapsed-thread button text.
func ReplySummary(n int) string {
	return fmt.Sprintf("共有%d条回复", n)
}

// Layout walks roots and produces the rows to render. Only top-level
// comments carry a disclosure: a collapsed root gets a single disclosure
// row, an expanded one lays out its whole reply subtree one level deeper
// per generation. A root with no replies gets no disclosure row.
func Layout(roots []Comment, exp Expansion) []Row {
	var rows []Row
	var walk func(c Comment, depth int)
	walk = func(c Comment, depth int) {
		rows = append(rows, Row{Kind: RowComment, Comment: c, Depth: depth})
		for _, r := range c.Replies {
			walk(r, depth+1)
		}
	}
	for _, c := range roots {
		total := CountReplies(c)
		if total > 0 && !exp.Expanded(c) {
			rows = append(rows,
				Row{Kind: RowComment, Comment: c},
				Row{Kind: RowDisclosure, Comment: c, Replies: total})
			continue
		}
		walk(c, 0)
	}
	return rows
}

// Find returns the comment with the given id anywhere under roots.
func Find(roots []Comment, id string) (Comment, bool) {
	for _, c := range roots {
		if c.ID == id {
			return c, true
		}
		if found, ok := Find(c.Replies, id); ok {
			return found, true
		}
	}
	return Comment{}, false
}
