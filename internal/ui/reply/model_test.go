package reply

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/iwaraterm/internal/comment"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

type recordingReplier struct {
	videoID, parentID, text string
	err                     error
}

func (r *recordingReplier) Reply(_ context.Context, videoID, parentID, text string) error {
	r.videoID, r.parentID, r.text = videoID, parentID, text
	return r.err
}

var bob = comment.Comment{ID: "42", AuthorID: "7", AuthorName: "Bob", Content: "great video"}

func ctrlS() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyCtrlS} }

func TestPrefill(t *testing.T) {
	assert.Equal(t, "@Bob ", Prefill(bob))
	assert.Equal(t, "", Prefill(comment.Comment{}))
}

func TestNew_PrefillsMention(t *testing.T) {
	m := New("v1", bob, &recordingReplier{})
	assert.Equal(t, "@Bob ", m.Value())
}

func TestSubmit_PostsReply(t *testing.T) {
	r := &recordingReplier{}
	m := New("v1", bob, r)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("agreed")})
	m, cmd := m.Update(ctrlS())
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)

	msg := cmd().(messages.ReplyResultMsg)
	assert.NoError(t, msg.Err)
	assert.Equal(t, "v1", r.videoID)
	assert.Equal(t, "42", r.parentID)
	assert.Equal(t, "@Bob agreed", r.text)
}

func TestSubmit_UntouchedPrefillIsEmpty(t *testing.T) {
	m := New("v1", bob, &recordingReplier{})
	m, cmd := m.Update(ctrlS())
	assert.Nil(t, cmd)
	assert.Equal(t, "Reply cannot be empty", m.err)
}

func TestReplyError_Shown(t *testing.T) {
	m := New("v1", comment.Comment{}, &recordingReplier{})
	m.SetSize(80, 30)
	m, _ = m.Update(messages.ReplyResultMsg{VideoID: "v1", Err: errors.New("site error: too fast")})
	assert.False(t, m.submitting)
	assert.Contains(t, m.View(), "too fast")
	assert.Contains(t, m.View(), "Comment on v1")
}
