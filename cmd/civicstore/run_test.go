package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cli runs the command against a JSON-file store in dir. Config comes from
// the environment, so callers must not be parallel.
func cli(t *testing.T, dir string, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("CIVICSTORE_STORE_BACKEND", "json")
	t.Setenv("CIVICSTORE_STORE_DATA_DIR", dir)
	t.Setenv("CIVICSTORE_LOG_LEVEL", "info")
	var stdout, stderr bytes.Buffer
	full := append([]string{"-env-file", filepath.Join(dir, "none.env")}, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := cli(t, dir, "")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: civicstore")

	code, _, stderr = cli(t, dir, "", "frobnicate")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown command "frobnicate"`)

	code, _, _ = cli(t, dir, "", "usage", "extra")
	assert.Equal(t, 2, code)
}

func TestRun_SeedExportClearImport(t *testing.T) {
	dir := t.TempDir()

	code, _, stderr := cli(t, dir, "", "seed-demo")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "demo data seeded")

	// Seeding twice is a no-op.
	code, _, stderr = cli(t, dir, "", "seed-demo")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stderr, "demo data already present")

	code, snapshot, stderr := cli(t, dir, "", "export")
	require.Equal(t, 0, code, stderr)
	var got map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(snapshot), &got))
	assert.Len(t, got["MEMBERS"], 2)
	assert.Len(t, got["POSTS"], 2)
	assert.Len(t, got["RESPONSES"], 1)
	require.Len(t, got["CATEGORIES"], 1)
	assert.Equal(t, "park-cleanup", got["CATEGORIES"][0]["name"])
	assert.EqualValues(t, 1, got["CATEGORIES"][0]["usageCount"])

	code, _, _ = cli(t, dir, "", "clear")
	assert.Equal(t, 1, code)

	code, _, stderr = cli(t, dir, "", "clear", "-yes")
	require.Equal(t, 0, code, stderr)
	code, out, _ := cli(t, dir, "", "usage")
	require.Equal(t, 0, code)
	assert.Equal(t, "0 Bytes of 5 MB used (0.00%)\n", out)

	code, _, stderr = cli(t, dir, snapshot, "import")
	require.Equal(t, 0, code, stderr)
	code, again, _ := cli(t, dir, "", "export")
	require.Equal(t, 0, code)
	assert.JSONEq(t, snapshot, again)

	code, _, stderr = cli(t, dir, "{not json", "import")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "invalid import format")
}

func TestRun_SeedDemoReusesSimilarCategory(t *testing.T) {
	dir := t.TempDir()

	existing := `{"CATEGORIES": [{"id": "c1", "name": "park-cleanups", "displayName": "Park Cleanups",
		"createdBy": "m0", "createdAt": "2026-01-01T00:00:00Z", "usageCount": 0, "verified": false}]}`
	code, _, stderr := cli(t, dir, existing, "import")
	require.Equal(t, 0, code, stderr)

	code, _, stderr = cli(t, dir, "", "seed-demo")
	require.Equal(t, 0, code, stderr)

	code, snapshot, stderr := cli(t, dir, "", "export")
	require.Equal(t, 0, code, stderr)
	var got map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(snapshot), &got))
	require.Len(t, got["CATEGORIES"], 1)
	assert.Equal(t, "park-cleanups", got["CATEGORIES"][0]["name"])
	assert.EqualValues(t, 1, got["CATEGORIES"][0]["usageCount"])

	var categories []any
	for _, p := range got["POSTS"] {
		categories = append(categories, p["category"])
	}
	assert.ElementsMatch(t, []any{"park-cleanups", "concern"}, categories)
}

func TestRun_ExportToFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "backup.json")

	code, stdout, stderr := cli(t, dir, "", "export", "-o", out)
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"MEMBERS": []`)

	code, _, stderr = cli(t, dir, "", "import", "-i", out)
	require.Equal(t, 0, code, stderr)
}

func TestRun_EncodeImage(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(img, []byte("\x89PNG\r\n\x1a\n"), 0o600))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o600))

	code, out, stderr := cli(t, dir, "", "encode-image", img)
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasPrefix(out, "data:image/png;base64,"), out)

	code, out, stderr = cli(t, dir, "", "encode-image", img, txt)
	assert.Equal(t, 1, code)
	assert.Equal(t, 1, strings.Count(out, "data:image/png"))
	assert.Contains(t, stderr, "Image 2: file must be an image")
}
