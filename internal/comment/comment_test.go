package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(id string, replies ...Comment) Comment {
	return Comment{ID: id, AuthorID: "u" + id, AuthorName: "user " + id, Content: "body " + id, Replies: replies}
}

func ids(cs []Comment) []string {
	out := make([]string, len(cs))
	for i, x := range cs {
		out[i] = x.ID
	}
	return out
}

// root with 3 direct replies, the second of which has 2 nested replies.
func sampleThread() Comment {
	return c("root",
		c("a"),
		c("b", c("b1"), c("b2")),
		c("c"),
	)
}

func TestAllReplies_DepthFirstParentFirst(t *testing.T) {
	got := AllReplies(sampleThread())
	assert.Equal(t, []string{"a", "b", "b1", "b2", "c"}, ids(got))
}

func TestAllReplies_DeepChain(t *testing.T) {
	root := c("1", c("2", c("3", c("4", c("5")))), c("6"))
	assert.Equal(t, []string{"2", "3", "4", "5", "6"}, ids(AllReplies(root)))
}

func TestAllReplies_Empty(t *testing.T) {
	assert.Empty(t, AllReplies(c("solo")))
	assert.Equal(t, 0, CountReplies(c("solo")))
}

func TestAllReplies_Idempotent(t *testing.T) {
	root := sampleThread()
	first := AllReplies(root)
	second := AllReplies(root)
	assert.Equal(t, first, second)
	assert.Equal(t, len(first), CountReplies(root))
}

func TestAllReplies_DoesNotIncludeRoot(t *testing.T) {
	for _, r := range AllReplies(sampleThread()) {
		assert.NotEqual(t, "root", r.ID)
	}
}

func TestInitiallyExpanded(t *testing.T) {
	tests := []struct {
		name string
		in   Comment
		want bool
	}{
		{"no replies", c("x"), true},
		{"one reply", c("x", c("y")), true},
		{"one nested reply counts as two", c("x", c("y", c("z"))), false},
		{"two direct replies", c("x", c("y"), c("z")), false},
		{"five total", sampleThread(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InitiallyExpanded(tt.in))
		})
	}
}

func TestPosterTypeString(t *testing.T) {
	assert.Equal(t, "owner", PosterOwner.String())
	assert.Equal(t, "self", PosterSelf.String())
	assert.Equal(t, "normal", PosterNormal.String())
}

func TestFind(t *testing.T) {
	roots := []Comment{sampleThread(), c("other")}
	got, ok := Find(roots, "b2")
	require.True(t, ok)
	assert.Equal(t, "user b2", got.AuthorName)

	_, ok = Find(roots, "missing")
	assert.False(t, ok)
}
