package userprofile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/iwaraterm/internal/api"
	"github.com/fragmede/iwaraterm/internal/config"
	"github.com/fragmede/iwaraterm/internal/ui/messages"
)

type stubFetcher struct {
	user  *api.User
	err   error
	calls int
}

func (f *stubFetcher) GetUser(context.Context, string) (*api.User, error) {
	f.calls++
	return f.user, f.err
}

type memStore struct {
	user  *api.User
	fresh bool
	put   *api.User
}

func (s *memStore) GetUser(string, time.Duration) (*api.User, bool, error) {
	return s.user, s.fresh, nil
}

func (s *memStore) PutUser(u *api.User) error {
	s.put = u
	return nil
}

var alice = &api.User{ID: "9", Name: "Alice", Joined: "2 years 3 months", About: "I dance."}

func TestInit_FetchesAndCaches(t *testing.T) {
	f := &stubFetcher{user: alice}
	s := &memStore{}
	m := New("9", config.Default(), f, s)

	msg := m.Init()().(messages.UserLoadedMsg)
	require.NoError(t, msg.Err)
	assert.Equal(t, alice, s.put)

	m, _ = m.Update(msg)
	view := m.View()
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "2 years 3 months")
	assert.Contains(t, view, "I dance.")
}

func TestInit_FreshCacheSkipsFetch(t *testing.T) {
	f := &stubFetcher{}
	m := New("9", config.Default(), f, &memStore{user: alice, fresh: true})
	msg := m.Init()().(messages.UserLoadedMsg)
	assert.Equal(t, alice, msg.User)
	assert.Equal(t, 0, f.calls)
}

func TestInit_ErrorWithoutCache(t *testing.T) {
	m := New("9", config.Default(), &stubFetcher{err: api.ErrNotFound}, &memStore{})
	msg := m.Init()().(messages.UserLoadedMsg)
	assert.True(t, errors.Is(msg.Err, api.ErrNotFound))

	m, _ = m.Update(msg)
	assert.Contains(t, m.View(), "not found")
}

func TestUpdate_IgnoresOtherUser(t *testing.T) {
	m := New("9", config.Default(), &stubFetcher{}, &memStore{})
	m, _ = m.Update(messages.UserLoadedMsg{User: &api.User{ID: "10", Name: "Bob"}})
	assert.True(t, m.loading)
}
