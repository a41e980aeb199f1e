package threadview

import (
	"strings"
	"unicode/utf8"

	"github.com/fragmede/iwaraterm/internal/comment"
)

// FindParentIndex returns the index of the comment row the row at
// currentIdx replies to, or -1 for a root.
func FindParentIndex(rows []comment.Row, currentIdx int) int {
	if currentIdx < 0 || currentIdx >= len(rows) {
		return -1
	}
	depth := rows[currentIdx].Depth
	if rows[currentIdx].Kind == comment.RowDisclosure {
		// A disclosure row belongs to the comment it summarises.
		depth++
	}
	for i := currentIdx - 1; i >= 0; i-- {
		if rows[i].Kind == comment.RowComment && rows[i].Depth < depth {
			return i
		}
	}
	return -1
}

// FindNextSiblingIndex returns the index of the next comment at the same depth.
func FindNextSiblingIndex(rows []comment.Row, currentIdx int) int {
	if currentIdx < 0 || currentIdx >= len(rows) {
		return -1
	}
	depth := rows[currentIdx].Depth
	for i := currentIdx + 1; i < len(rows); i++ {
		if rows[i].Depth < depth {
			return -1 // Went up in tree, no more siblings.
		}
		if rows[i].Kind == comment.RowComment && rows[i].Depth == depth {
			return i
		}
	}
	return -1
}

// avatarGlyph stands in for the author picture: the first letter of the
// name, or "?" for anonymous posters.
func avatarGlyph(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return strings.ToUpper(string(r))
}
