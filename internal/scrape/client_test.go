package scrape

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"armycompare/internal/army"
)

func fakeForge(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/army-books", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "official", r.URL.Query().Get("filters"))
		assert.Equal(t, "grimdark-future", r.URL.Query().Get("gameSystemSlug"))
		_ = json.NewEncoder(w).Encode([]Book{
			{UID: "abc", Name: "Iron Legion"},
			{UID: "bad", Name: "Broken Book"},
		})
	})
	mux.HandleFunc("/api/army-books/abc", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("gameSystem"))
		_ = json.NewEncoder(w).Encode(army.Document{
			UID:           "abc",
			Name:          "Iron Legion",
			VersionString: "3.4.2",
			Units:         []army.Unit{{ID: "u1", Name: "Grunts", Cost: 100}},
		})
	})
	mux.HandleFunc("/api/army-books/bad", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestFetchAllWritesTreeAndSkipsFailures(t *testing.T) {
	ts := fakeForge(t)
	out := t.TempDir()

	c := NewClient(ts.URL, quietLog())
	c.delay = 0
	err := c.FetchAll(context.Background(), out, []System{{2, "grimdark-future"}})
	require.NoError(t, err)

	// The good book landed under its slug and versionString.
	path := filepath.Join(out, "grimdark-future", "3.4.2", "Iron Legion (abc).json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc army.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "Iron Legion", doc.Name)

	// The broken book was skipped, not fatal; manifests were written.
	_, err = os.Stat(filepath.Join(out, "index.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "grimdark-future", "3.4.2", "index.json"))
	assert.NoError(t, err)
}

func TestFetchBookDecodes(t *testing.T) {
	ts := fakeForge(t)
	c := NewClient(ts.URL, quietLog())

	doc, err := c.FetchBook(context.Background(), System{2, "grimdark-future"}, "abc")
	require.NoError(t, err)
	assert.Equal(t, "3.4.2", doc.VersionString)
	require.Len(t, doc.Units, 1)

	_, err = c.FetchBook(context.Background(), System{2, "grimdark-future"}, "bad")
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Iron Legion (abc)", sanitizeFilename("Iron Legion (abc)"))
	assert.Equal(t, "Sharks- Teeth (x)", sanitizeFilename("Sharks: Teeth (x)"))
	assert.Equal(t, "army", sanitizeFilename(""))
}
