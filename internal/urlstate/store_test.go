package urlstate

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scholartriage/pipeline/internal/leadmodel"
)

func TestSQLiteStoreUpsertAndGet(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "url_state.db")
	store, err := Open(dbPath)
	require.Nil(t, err)
	defer store.Close()

	_, found, err := store.Get("https://example.com/scholarship")
	require.Nil(t, err)
	assert.False(t, found)

	now := time.Now().UTC().Truncate(time.Second)
	state := leadmodel.UrlState{
		URL:          "https://example.com/scholarship",
		ETag:         `"abc123"`,
		ContentHash:  "deadbeef",
		LastSeen:     &now,
		Status:       leadmodel.StatusOk,
		HTTPCode:     200,
	}
	require.Nil(t, store.Upsert(state))

	got, found, err := store.Get(state.URL)
	require.Nil(t, err)
	require.True(t, found)
	assert.Equal(t, state.ETag, got.ETag)
	assert.Equal(t, state.ContentHash, got.ContentHash)
	assert.Equal(t, state.Status, got.Status)
	assert.Equal(t, state.HTTPCode, got.HTTPCode)
	require.NotNil(t, got.LastSeen)
	assert.Equal(t, now.Unix(), got.LastSeen.Unix())
}

func TestSQLiteStoreCleanupOlderThan(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "url_state.db")
	store, err := Open(dbPath)
	require.Nil(t, err)
	defer store.Close()

	old := time.Now().Add(-100 * 24 * time.Hour)
	recent := time.Now()

	require.Nil(t, store.Upsert(leadmodel.UrlState{URL: "https://stale.example.com/a", LastSeen: &old, Status: leadmodel.StatusOk}))
	require.Nil(t, store.Upsert(leadmodel.UrlState{URL: "https://fresh.example.com/b", LastSeen: &recent, Status: leadmodel.StatusOk}))

	removed, err := store.CleanupOlderThan(30)
	require.Nil(t, err)
	assert.Equal(t, 1, removed)

	_, found, err := store.Get("https://stale.example.com/a")
	require.Nil(t, err)
	assert.False(t, found)

	_, found, err = store.Get("https://fresh.example.com/b")
	require.Nil(t, err)
	assert.True(t, found)
}

func TestBuildConditionalHeaders(t *testing.T) {
	headers := BuildConditionalHeaders(leadmodel.UrlState{ETag: `"x"`, LastModified: "Mon, 01 Jan 2026 00:00:00 GMT"})
	assert.Equal(t, `"x"`, headers.Get("If-None-Match"))
	assert.Equal(t, "Mon, 01 Jan 2026 00:00:00 GMT", headers.Get("If-Modified-Since"))

	empty := BuildConditionalHeaders(leadmodel.UrlState{})
	assert.Empty(t, empty.Get("If-None-Match"))
	assert.Empty(t, empty.Get("If-Modified-Since"))
}
