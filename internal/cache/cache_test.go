package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

type testRow struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func TestListingRoundTrip(t *testing.T) {
	c := openTestCache(t)

	var missing []testRow
	_, ok, err := c.GetListing("devboxes", &missing)
	require.NoError(t, err)
	assert.False(t, ok)

	rows := []testRow{{ID: "dbx_1", Status: "running"}, {ID: "dbx_2", Status: "suspended"}}
	require.NoError(t, c.PutListing("devboxes", rows))

	var got []testRow
	fetchedAt, ok, err := c.GetListing("devboxes", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, rows, got)
	assert.WithinDuration(t, time.Now(), fetchedAt, time.Minute)
}

func TestListingOverwrite(t *testing.T) {
	c := openTestCache(t)

	require.NoError(t, c.PutListing("blueprints", []testRow{{ID: "bpt_1"}}))
	require.NoError(t, c.PutListing("blueprints", []testRow{{ID: "bpt_2"}}))

	var got []testRow
	_, ok, err := c.GetListing("blueprints", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "bpt_2", got[0].ID)
}

func TestUpdateCheckStamp(t *testing.T) {
	c := openTestCache(t)

	should, err := c.ShouldCheckForUpdate(24 * time.Hour)
	require.NoError(t, err)
	assert.True(t, should, "first run should always check")

	require.NoError(t, c.SaveUpdateCheck(&UpdateCheck{CheckedAt: time.Now(), LatestVersion: "1.2.3"}))

	should, err = c.ShouldCheckForUpdate(24 * time.Hour)
	require.NoError(t, err)
	assert.False(t, should)

	require.NoError(t, c.SaveUpdateCheck(&UpdateCheck{
		CheckedAt:     time.Now().Add(-48 * time.Hour),
		LatestVersion: "1.2.3",
	}))
	should, err = c.ShouldCheckForUpdate(24 * time.Hour)
	require.NoError(t, err)
	assert.True(t, should)

	check, err := c.GetUpdateCheck()
	require.NoError(t, err)
	require.NotNil(t, check)
	assert.Equal(t, "1.2.3", check.LatestVersion)

	assert.Error(t, c.SaveUpdateCheck(nil))
}
