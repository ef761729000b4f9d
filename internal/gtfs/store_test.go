package gtfs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arrivals.dublintransit.ie/internal/models"
)

func storeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "routes"), 0o755))

	record := models.RouteRecord{
		Route: models.RouteInfo{RouteIDs: []string{"R1"}, RouteShortName: "46A"},
		Directions: []models.Direction{
			{DirectionID: "0", Headsign: "Phoenix Park", Stops: []models.StopEntry{{StopID: "A"}}},
		},
		TripIDs: []string{"T1"},
	}
	data, err := json.Marshal(record)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes", "46A.json"), data, 0o644))

	index := []models.RouteIndexEntry{{RouteShortName: "46A"}}
	data, err = json.Marshal(index)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "routes-index.json"), data, 0o644))

	return dir
}

func TestStoreLoadIndex(t *testing.T) {
	store := NewStore(storeFixture(t), discardLogger())
	require.NoError(t, store.LoadIndex())
	require.Len(t, store.Index(), 1)
	assert.Equal(t, "46A", store.Index()[0].RouteShortName)
}

func TestStoreLoadIndexMissingFile(t *testing.T) {
	store := NewStore(t.TempDir(), discardLogger())
	require.NoError(t, store.LoadIndex())
	assert.Empty(t, store.Index())
}

func TestStoreGetCachesRecord(t *testing.T) {
	dir := storeFixture(t)
	store := NewStore(dir, discardLogger())

	first, err := store.Get("46A")
	require.NoError(t, err)
	assert.Equal(t, "46A", first.Route.RouteShortName)

	// Deleting the file proves the second read comes from cache.
	require.NoError(t, os.Remove(filepath.Join(dir, "routes", "46A.json")))
	second, err := store.Get("46A")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestStoreGetUnknownRoute(t *testing.T) {
	store := NewStore(storeFixture(t), discardLogger())
	_, err := store.Get("999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreGetRejectsPathTraversal(t *testing.T) {
	store := NewStore(storeFixture(t), discardLogger())
	for _, name := range []string{"", "../46A", "a/b", "a\\b", ".."} {
		_, err := store.Get(name)
		assert.ErrorIs(t, err, ErrNotFound, "name %q", name)
	}
}
