package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	id, err := parseArgs(nil)
	require.NoError(t, err)
	assert.Empty(t, id)

	id, err = parseArgs([]string{"https://ecchi.iwara.tv/videos/abc123?language=ja"})
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = parseArgs([]string{"a", "b"})
	assert.Error(t, err)

	_, err = parseArgs([]string{"--help"})
	assert.Error(t, err)
}
