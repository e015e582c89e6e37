package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialCache_ReadBeforeWrite(t *testing.T) {
	c, err := NewCredentialCache(t.TempDir(), "demo")
	require.NoError(t, err)

	_, ok := c.Read()
	assert.False(t, ok)
}

func TestCredentialCache_WriteThenRead(t *testing.T) {
	c, err := NewCredentialCache(t.TempDir(), "demo")
	require.NoError(t, err)

	require.NoError(t, c.Write("tok-1"))
	tok, ok := c.Read()
	require.True(t, ok)
	assert.Equal(t, "tok-1", tok)

	// a escrita seguinte substitui, não acumula
	require.NoError(t, c.Write("tok-2"))
	tok, ok = c.Read()
	require.True(t, ok)
	assert.Equal(t, "tok-2", tok)
}

func TestCredentialCache_AppsDoNotShareTokens(t *testing.T) {
	dir := t.TempDir()

	a, err := NewCredentialCache(dir, "app-a")
	require.NoError(t, err)
	b, err := NewCredentialCache(dir, "app-b")
	require.NoError(t, err)

	require.NoError(t, a.Write("tok-a"))
	_, ok := b.Read()
	assert.False(t, ok)
}
