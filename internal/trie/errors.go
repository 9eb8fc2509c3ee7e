package trie

import "errors"

var (
	// ErrInvalidKey is returned for an empty key, a key that is not valid
	// UTF-8, or a key longer than MaxKeyLength characters
	ErrInvalidKey = errors.New("invalid key")
	// ErrAlreadyExists is returned when inserting a key that is already stored
	ErrAlreadyExists = errors.New("key already exists")
	// ErrNotFound is returned when removing a key that is not stored
	ErrNotFound = errors.New("key not found")
	// ErrMalformedState is returned when a serialized trie cannot be rebuilt
	ErrMalformedState = errors.New("malformed trie state")
)
