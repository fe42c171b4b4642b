package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runloopai/rl-cli-sub001/internal/api"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		max      int
		expected string
	}{
		{"devbox", 10, "devbox"},
		{"devbox", 6, "devbox"},
		{"devbox-abcdef", 8, "devbox-…"},
		{"devbox", 1, "d"},
		{"devbox", 0, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, truncate(tt.input, tt.max), "truncate(%q, %d)", tt.input, tt.max)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatBytes(tt.input))
	}
}

func TestDash(t *testing.T) {
	assert.Equal(t, "-", dash(""))
	assert.Equal(t, "dbx_1", dash("dbx_1"))
}

func TestStatusCellStyleCoversKnownStatuses(t *testing.T) {
	assert.Equal(t, statusRunningStyle, statusCellStyle("running"))
	assert.Equal(t, statusStoppedStyle, statusCellStyle("suspended"))
	assert.Equal(t, statusFailureStyle, statusCellStyle("failure"))
	assert.Equal(t, statusPendingStyle, statusCellStyle("provisioning"))
	assert.Equal(t, statusNeutralStyle, statusCellStyle("something_new"))
}

func TestResourceKindsRegistry(t *testing.T) {
	kinds := resourceKinds()
	require.NotEmpty(t, kinds)

	seen := map[string]bool{}
	for _, k := range kinds {
		assert.NotEmpty(t, k.Name)
		assert.NotEmpty(t, k.Title)
		assert.NotEmpty(t, k.Columns)
		assert.NotEmpty(t, k.DashboardPath)
		assert.NotNil(t, k.Fetch, "%s has no fetch", k.Name)
		assert.NotNil(t, k.Detail, "%s has no detail", k.Name)
		assert.False(t, seen[k.Name], "duplicate kind %s", k.Name)
		seen[k.Name] = true

		// Exactly one flex column per kind.
		flex := 0
		for _, c := range k.Columns {
			if c.Width == 0 {
				flex++
			}
		}
		assert.Equal(t, 1, flex, "%s flex columns", k.Name)
	}

	assert.Equal(t, "devboxes", kinds[0].Name)
}

func TestDevboxKindFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/devboxes", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string]any{
			"devboxes": []map[string]any{
				{"id": "dbx_1", "name": "alpha", "status": "running", "create_time_ms": 1700000000000},
				{"id": "dbx_2", "status": "suspended", "create_time_ms": 1700000001000},
			},
			"has_more":    true,
			"total_count": 7,
		})
	}))
	defer srv.Close()

	client, err := api.NewClient("test-key", api.WithBaseURL(srv.URL))
	require.NoError(t, err)
	page, err := devboxKind().Fetch(context.Background(), client, api.ListOptions{Limit: 2})
	require.NoError(t, err)

	require.Len(t, page.Rows, 2)
	assert.Equal(t, "dbx_1", page.Rows[0].ID)
	assert.Equal(t, "running", page.Rows[0].Status)
	assert.Equal(t, []string{"dbx_1", "alpha", "running", formatTimeMs(1700000000000)}, page.Rows[0].Cells)
	assert.Equal(t, "-", page.Rows[1].Cells[1])
	assert.Equal(t, "dbx_2", page.NextCursor)
	assert.Equal(t, int64(7), page.TotalCount)
}

func TestObjectKindFetchFormatsSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/objects", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"objects": []map[string]any{
				{"id": "obj_1", "name": "bundle.tar", "content_type": "application/x-tar", "size_bytes": 2048, "state": "read_only"},
			},
			"has_more": false,
		})
	}))
	defer srv.Close()

	client, err := api.NewClient("test-key", api.WithBaseURL(srv.URL))
	require.NoError(t, err)
	page, err := objectKind().Fetch(context.Background(), client, api.ListOptions{})
	require.NoError(t, err)

	require.Len(t, page.Rows, 1)
	assert.Equal(t, "2.0 KB", page.Rows[0].Cells[3])
	assert.Empty(t, page.NextCursor)
}
