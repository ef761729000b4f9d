package gtfs

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"arrivals.dublintransit.ie/internal/models"
)

// ErrNotFound is the normal negative result for an unknown route short name.
var ErrNotFound = errors.New("route not found")

// Store serves the indexer's persisted route records, caching each record in
// memory on first read. Records never change after indexing, so entries are
// write-once and no invalidation is needed; concurrent readers of a cached
// record share the same immutable value.
type Store struct {
	dataDir string
	logger  *slog.Logger

	mu    sync.RWMutex
	cache map[string]*models.RouteRecord
	index []models.RouteIndexEntry
}

func NewStore(dataDir string, logger *slog.Logger) *Store {
	return &Store{
		dataDir: dataDir,
		logger:  logger,
		cache:   map[string]*models.RouteRecord{},
	}
}

// LoadIndex reads the persisted route index. A missing index file is not
// fatal: the service comes up with an empty route list so that a deploy
// without indexed data still serves health checks.
func (s *Store) LoadIndex() error {
	path := filepath.Join(s.dataDir, "routes-index.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn("route index not found; run the indexer first", "path", path)
			s.index = []models.RouteIndexEntry{}
			return nil
		}
		return fmt.Errorf("reading route index: %w", err)
	}
	var index []models.RouteIndexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return fmt.Errorf("decoding route index: %w", err)
	}
	s.index = index
	s.logger.Info("loaded route index", "routes", len(index))
	return nil
}

// Index returns the loaded route index. The slice is shared; callers must
// not mutate it.
func (s *Store) Index() []models.RouteIndexEntry {
	return s.index
}

// Get returns the record for a route short name, loading and caching it on
// first use. Returns ErrNotFound when no record exists.
func (s *Store) Get(shortName string) (*models.RouteRecord, error) {
	s.mu.RLock()
	record, ok := s.cache[shortName]
	s.mu.RUnlock()
	if ok {
		return record, nil
	}

	// Route names come straight from request paths; anything that could
	// escape the routes directory is treated as unknown.
	if shortName == "" || strings.ContainsAny(shortName, "/\\") || strings.Contains(shortName, "..") {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dataDir, "routes", shortName+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading route %s: %w", shortName, err)
	}
	loaded := &models.RouteRecord{}
	if err := json.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("decoding route %s: %w", shortName, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// First read wins: a concurrent loader may have beaten us here, and both
	// copies decode the same immutable file.
	if record, ok := s.cache[shortName]; ok {
		return record, nil
	}
	s.cache[shortName] = loaded
	return loaded, nil
}
