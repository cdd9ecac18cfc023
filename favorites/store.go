// Package favorites persists the favorite and recently viewed city lists.
//
// Both lists are stored as JSON arrays of strings under fixed keys of a KV.
// Favorites keep insertion order and are unbounded; recents are most recent
// first and capped at MaxRecents. Neither list holds duplicates.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

const (
	FavoritesKey = "weatherFavorites"
	RecentsKey   = "weatherRecent"

	// MaxRecents caps the recently viewed list
	MaxRecents = 5
)

// Store reads and writes the favorites and recents lists
type Store struct {
	kv KV
	// serialises read-modify-write cycles
	mu sync.Mutex
}

// NewStore creates a store over kv
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Close closes the underlying KV
func (s *Store) Close() error {
	return s.kv.Close()
}

func (s *Store) load(ctx context.Context, key string) ([]string, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	if list == nil {
		// a stored JSON null reads as empty
		list = []string{}
	}
	return list, nil
}

func (s *Store) save(ctx context.Context, key string, list []string) error {
	if list == nil {
		list = []string{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, raw)
}

// Favorites returns the favorite cities in insertion order
func (s *Store) Favorites(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, FavoritesKey)
}

// SaveFavorites replaces the favorites list
func (s *Store) SaveFavorites(ctx context.Context, list []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, FavoritesKey, dedupe(list))
}

// ToggleFavorite removes city if it is a favorite and appends it otherwise.
// It reports whether city was added and returns the resulting list.
func (s *Store) ToggleFavorite(ctx context.Context, city string) (bool, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx, FavoritesKey)
	if err != nil {
		return false, nil, err
	}

	added := true
	if i := indexOf(list, city); i >= 0 {
		list = append(list[:i], list[i+1:]...)
		added = false
	} else {
		list = append(list, city)
	}

	if err := s.save(ctx, FavoritesKey, list); err != nil {
		return false, nil, err
	}
	return added, list, nil
}

// AddFavorite appends city unless it is already a favorite
func (s *Store) AddFavorite(ctx context.Context, city string) (bool, []string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx, FavoritesKey)
	if err != nil {
		return false, nil, err
	}
	if indexOf(list, city) >= 0 {
		return false, list, nil
	}

	list = append(list, city)
	if err := s.save(ctx, FavoritesKey, list); err != nil {
		return false, nil, err
	}
	return true, list, nil
}

// IsFavorite reports whether city is in the favorites list
func (s *Store) IsFavorite(ctx context.Context, city string) (bool, error) {
	list, err := s.Favorites(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(list, city) >= 0, nil
}

// Recents returns recently viewed cities, most recent first
func (s *Store) Recents(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, RecentsKey)
}

// SaveToRecent moves city to the front of the recents list, trimming it to MaxRecents
func (s *Store) SaveToRecent(ctx context.Context, city string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx, RecentsKey)
	if err != nil {
		return nil, err
	}

	recent := make([]string, 0, MaxRecents)
	recent = append(recent, city)
	for _, c := range list {
		if c == city {
			continue
		}
		if len(recent) == MaxRecents {
			break
		}
		recent = append(recent, c)
	}

	if err := s.save(ctx, RecentsKey, recent); err != nil {
		return nil, err
	}
	return recent, nil
}

func indexOf(list []string, city string) int {
	for i, c := range list {
		if c == city {
			return i
		}
	}
	return -1
}

func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, c := range list {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
