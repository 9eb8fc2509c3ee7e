package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kumarlokesh/trie-server/internal/store"
	"github.com/kumarlokesh/trie-server/internal/trie"
)

// DefaultSuggestCount is used when a suggest request carries no count
const DefaultSuggestCount = 10

// helpText lists the actions understood by the dispatcher
const helpText = "Actions: add, remove, find, suggest, complete, show, help"

var (
	// ErrNoAction is returned when a request names no action
	ErrNoAction = errors.New("no action specified")
	// ErrUnknownAction is returned for an action the dispatcher does not know
	ErrUnknownAction = errors.New("invalid action")
	// ErrInvalidRequest is returned when a request parameter cannot be used
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSaveFailed is returned when a change could not be persisted; the
	// change is reverted before returning
	ErrSaveFailed = errors.New("failed to save state, change reverted")
)

// Request is a single action against the trie. All parameters are strings,
// matching the JSON bodies sent by clients.
type Request struct {
	Action string `json:"action"`
	Key    string `json:"key,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Count  string `json:"count,omitempty"`
}

// Dispatcher maps named actions onto trie operations. It serializes access
// to the trie and saves it after every successful change.
type Dispatcher struct {
	mu           sync.Mutex
	trie         *trie.Trie
	store        store.Store
	defaultCount int
	logger       zerolog.Logger
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithDefaultCount sets the completion count used when a request has none
func WithDefaultCount(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.defaultCount = n
	}
}

// WithLogger sets the dispatcher's logger
func WithLogger(logger zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher serving t and persisting it to s
func NewDispatcher(t *trie.Trie, s store.Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		trie:         t,
		store:        s,
		defaultCount: DefaultSuggestCount,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Len returns the number of keys currently stored
func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trie.Len()
}

// Dispatch runs the request's action and returns its textual result:
// "true" or "false" for find, newline-separated keys for suggest and
// complete, indented JSON for show, and an empty string for add and remove.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	action := strings.ToLower(strings.TrimSpace(req.Action))
	switch action {
	case "add":
		if err := d.trie.Insert(req.Key); err != nil {
			return "", fmt.Errorf("failed to add %q: %w", req.Key, err)
		}
		return "", d.save(ctx, action, req.Key, func() error { return d.trie.Remove(req.Key) })

	case "remove":
		if err := d.trie.Remove(req.Key); err != nil {
			return "", fmt.Errorf("failed to remove %q: %w", req.Key, err)
		}
		return "", d.save(ctx, action, req.Key, func() error { return d.trie.Insert(req.Key) })

	case "find":
		if !trie.ValidKey(req.Key) {
			return "", fmt.Errorf("failed to find %q: %w", req.Key, trie.ErrInvalidKey)
		}
		return strconv.FormatBool(d.trie.Contains(req.Key)), nil

	case "suggest", "complete":
		count, err := d.parseCount(req.Count)
		if err != nil {
			return "", err
		}
		return strings.Join(d.trie.CompleteFrom(req.Prefix, count), "\n"), nil

	case "show":
		return d.trie.Dump()

	case "help":
		return helpText, nil

	case "":
		return "", ErrNoAction

	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownAction, req.Action)
	}
}

// parseCount converts the count parameter, falling back to the default
func (d *Dispatcher) parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return d.defaultCount, nil
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return 0, fmt.Errorf("%w: count must be a non-negative integer, got %q", ErrInvalidRequest, raw)
	}
	return count, nil
}

// save persists the trie after a change. When the save fails, undo reverts
// the change so memory keeps matching the saved state and the request can
// be retried as is.
func (d *Dispatcher) save(ctx context.Context, action, key string, undo func() error) error {
	if err := d.store.Save(ctx, d.trie); err != nil {
		d.logger.Error().Err(err).Str("action", action).Str("key", key).Msg("Failed to save trie state")
		if undoErr := undo(); undoErr != nil {
			d.logger.Error().Err(undoErr).Str("action", action).Str("key", key).Msg("Failed to revert change")
		}
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	d.logger.Debug().Str("action", action).Str("key", key).Int("keys", d.trie.Len()).Msg("Saved trie state")
	return nil
}
