package common

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"

	"github.com/fragmede/iwaraterm/internal/comment"
)

func TestKeys_ThreadBindings(t *testing.T) {
	assert.Equal(t, []string{"y"}, Keys.Copy.Keys())
	assert.Equal(t, []string{"enter"}, Keys.Enter.Keys())
	assert.Contains(t, Keys.Profile.Keys(), "p")
	assert.Equal(t, []string{"ctrl+c"}, Keys.ForceQuit.Keys())
}

func TestHint(t *testing.T) {
	got := Hint(Keys.Copy, key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "thing")))
	assert.Equal(t, "y:copy  x:thing", got)
}

func TestRenderBadge_KeepsText(t *testing.T) {
	for _, b := range []comment.Badge{
		{Text: "UP主", Kind: comment.BadgeOwner},
		{Text: "你", Kind: comment.BadgeSelf},
		{Text: "Iwara4a", Kind: comment.BadgeOrigin},
	} {
		assert.Contains(t, RenderBadge(b), b.Text)
	}
}
