package blob

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_PutGetDelete(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key := RandomStorageKey()
	payload := []byte("attachment bytes")

	url, err := s.Put(context.Background(), key, payload, "application/octet-stream")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"), "url = %q", url)

	got, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	require.NoError(t, s.Delete(context.Background(), key))
	_, err = s.Get(context.Background(), key)
	assert.Error(t, err)

	// Deleting an absent key is not an error.
	require.NoError(t, s.Delete(context.Background(), key))
}

func TestLocalStore_OverwriteReplacesPayload(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key := "attachments/2026/1/1/fixed"
	_, err = s.Put(context.Background(), key, []byte("v1"), "")
	require.NoError(t, err)
	_, err = s.Put(context.Background(), key, []byte("v2"), "")
	require.NoError(t, err)

	got, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestLocalStore_RejectsEscapingKey(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "../outside", []byte("x"), "")
	assert.Error(t, err)
	_, err = s.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestRandomStorageKey_UniqueAndPartitioned(t *testing.T) {
	a := RandomStorageKey()
	b := RandomStorageKey()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "attachments/"))
	assert.Len(t, strings.Split(a, "/"), 5)
}
