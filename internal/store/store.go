package store

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/kumarlokesh/trie-server/internal/trie"
)

// ErrStateNotFound is returned by Load when no state has been saved yet
var ErrStateNotFound = errors.New("no saved state")

// Store defines the interface for persisting a trie between runs
type Store interface {
	// Load returns the saved trie. It returns ErrStateNotFound if nothing
	// has been saved and an error wrapping trie.ErrMalformedState if the
	// saved state cannot be decoded.
	Load(ctx context.Context) (*trie.Trie, error)

	// Save replaces the saved state with t
	Save(ctx context.Context, t *trie.Trie) error

	// Health check
	Ping(ctx context.Context) error
}

// LoadOrEmpty loads the trie from s, starting from an empty trie when no
// state was saved or the saved state is malformed. Any other failure is
// returned to the caller.
func LoadOrEmpty(ctx context.Context, s Store, logger zerolog.Logger) (*trie.Trie, error) {
	t, err := s.Load(ctx)
	switch {
	case err == nil:
		logger.Info().Int("keys", t.Len()).Msg("Loaded trie state")
		return t, nil
	case errors.Is(err, ErrStateNotFound):
		logger.Info().Msg("No saved state, starting with an empty trie")
		return trie.New(), nil
	case errors.Is(err, trie.ErrMalformedState):
		logger.Warn().Err(err).Msg("Saved state is malformed, using an empty trie instead")
		return trie.New(), nil
	default:
		return nil, err
	}
}
