package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const bundleVersion = 1

var ErrInvalidBundle = errors.New("invalid settings bundle")

type Bundle struct {
	Version    int             `json:"version"`
	LeagueID   string          `json:"league_id"`
	ExportedAt time.Time       `json:"exported_at"`
	Settings   *LeagueSettings `json:"settings"`
}

// Export serializes the league's settings as an indented JSON bundle.
func (s *Store) Export(ctx context.Context, leagueID string) ([]byte, error) {
	ls, err := s.load(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	b := Bundle{
		Version:    bundleVersion,
		LeagueID:   leagueID,
		ExportedAt: s.now().UTC(),
		Settings:   &ls,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding bundle: %w", err)
	}
	return data, nil
}

// Import replaces the league's settings with the bundle's. Nothing is
// merged. A bundle exported from a different league is accepted; its
// owner ids carry over across leagues in the same lineage.
func (s *Store) Import(ctx context.Context, leagueID string, data []byte) (LeagueSettings, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return LeagueSettings{}, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if b.Version != bundleVersion {
		return LeagueSettings{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidBundle, b.Version)
	}
	if b.Settings == nil {
		return LeagueSettings{}, fmt.Errorf("%w: missing settings", ErrInvalidBundle)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ls := normalize(*b.Settings)
	if err := s.Save(ctx, leagueID, ls); err != nil {
		return LeagueSettings{}, err
	}
	return ls, nil
}
