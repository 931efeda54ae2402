package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, m.Load())
	assert.Empty(t, m.LastLocation())
	assert.Empty(t, m.Recent())
}

func TestVisitOrdersRecentAndPersistsOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	m := NewManager(path)

	m.Visit("/a")
	m.Visit("/b")
	m.Visit("/a")
	assert.Equal(t, "/a", m.LastLocation())
	assert.Equal(t, []string{"/a", "/b"}, m.Recent())

	require.NoError(t, m.Close())

	reloaded := NewManager(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "/a", reloaded.LastLocation())
	assert.Equal(t, []string{"/a", "/b"}, reloaded.Recent())
}

func TestRecentIsBounded(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "session.json"))
	for i := 0; i < MaxRecent+3; i++ {
		m.Visit(string(rune('a' + i)))
	}
	recent := m.Recent()
	assert.Len(t, recent, MaxRecent)
	assert.Equal(t, string(rune('a'+MaxRecent+2)), recent[0])
	require.NoError(t, m.Close())
}

func TestCloseWithoutChangesWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManager(path)
	require.NoError(t, m.Close())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	assert.Error(t, NewManager(path).Load())
}
