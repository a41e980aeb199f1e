package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowIDs(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		if r.Kind == RowDisclosure {
			out[i] = "+" + r.Comment.ID
			continue
		}
		out[i] = r.Comment.ID
	}
	return out
}

func TestLayout_NoRepliesNoDisclosure(t *testing.T) {
	rows := Layout([]Comment{c("x")}, Expansion{})
	require.Len(t, rows, 1)
	assert.Equal(t, RowComment, rows[0].Kind)
}

func TestLayout_CollapsedShowsSummary(t *testing.T) {
	rows := Layout([]Comment{sampleThread()}, Expansion{})
	require.Len(t, rows, 2)
	assert.Equal(t, RowDisclosure, rows[1].Kind)
	assert.Equal(t, 5, rows[1].Replies)
	assert.Equal(t, "共有5条回复", rows[1].Label())
}

func TestLayout_ExpandRevealsNestedReplies(t *testing.T) {
	root := sampleThread()
	exp := Expansion{}
	exp.Expand(root)

	rows := Layout([]Comment{root}, exp)
	assert.Equal(t, []string{"root", "a", "b", "b1", "b2", "c"}, rowIDs(rows))
	for _, r := range rows {
		assert.Equal(t, RowComment, r.Kind, "no disclosure below the root")
	}

	depths := map[string]int{}
	for _, r := range rows {
		depths[r.Comment.ID] = r.Depth
	}
	assert.Equal(t, 0, depths["root"])
	assert.Equal(t, 1, depths["b"])
	assert.Equal(t, 2, depths["b1"])
	assert.Equal(t, 2, depths["b2"])
}

func TestLayout_SingleReplyStartsOpen(t *testing.T) {
	rows := Layout([]Comment{c("x", c("y"))}, Expansion{})
	assert.Equal(t, []string{"x", "y"}, rowIDs(rows))
	assert.Equal(t, 1, rows[1].Depth)
}

func TestExpand_IsOneWay(t *testing.T) {
	root := sampleThread()
	exp := Expansion{}
	assert.False(t, exp.Expanded(root))
	exp.Expand(root)
	assert.True(t, exp.Expanded(root))
	exp.Expand(root)
	assert.True(t, exp.Expanded(root))
}

func TestLayout_DeepChainOpensWithRoot(t *testing.T) {
	root := c("r", c("s", c("t", c("u"))))
	exp := Expansion{}
	assert.Equal(t, []string{"r", "+r"}, rowIDs(Layout([]Comment{root}, exp)))

	exp.Expand(root)
	rows := Layout([]Comment{root}, exp)
	require.Equal(t, []string{"r", "s", "t", "u"}, rowIDs(rows))
	for i, r := range rows {
		assert.Equal(t, i, r.Depth)
	}
}

func TestExpansion_IndependentPerComment(t *testing.T) {
	first := c("p", c("p1"), c("p2"))
	second := c("q", c("q1"), c("q2"))
	exp := Expansion{}
	exp.Expand(first)

	rows := Layout([]Comment{first, second}, exp)
	assert.Equal(t, []string{"p", "p1", "p2", "q", "+q"}, rowIDs(rows))
}

func TestRoleBadge(t *testing.T) {
	owner := Comment{Poster: PosterOwner}
	self := Comment{Poster: PosterSelf}
	normal := Comment{}

	b, ok := RoleBadge(owner)
	require.True(t, ok)
	assert.Equal(t, "UP主", b.Text)

	b, ok = RoleBadge(self)
	require.True(t, ok)
	assert.Equal(t, "你", b.Text)

	_, ok = RoleBadge(normal)
	assert.False(t, ok)
}

func TestClassifyPoster_OwnerWins(t *testing.T) {
	assert.Equal(t, PosterOwner, ClassifyPoster(true, true))
	assert.Equal(t, PosterOwner, ClassifyPoster(true, false))
	assert.Equal(t, PosterSelf, ClassifyPoster(false, true))
	assert.Equal(t, PosterNormal, ClassifyPoster(false, false))

	b, ok := RoleBadge(Comment{Poster: ClassifyPoster(true, true)})
	require.True(t, ok)
	assert.Equal(t, BadgeOwner, b.Kind)
}

func TestBadges_OriginAfterRole(t *testing.T) {
	got := Badges(Comment{Poster: PosterSelf, FromApp: true})
	require.Len(t, got, 2)
	assert.Equal(t, BadgeSelf, got[0].Kind)
	assert.Equal(t, BadgeOrigin, got[1].Kind)
	assert.Equal(t, "Iwara4a", got[1].Text)

	assert.Empty(t, Badges(Comment{}))
}
