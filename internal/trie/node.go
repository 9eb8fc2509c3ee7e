package trie

import "unicode/utf8"

// MaxKeyLength is the longest key, in characters, the trie accepts. Each
// character adds two levels of nesting to the persisted form, and this
// bound keeps it well inside the decoder's nesting limit.
const MaxKeyLength = 1024

// Node represents a node in the trie
type Node struct {
	// children maps the next character to the child node
	children map[rune]*Node

	// terminal marks if the path from the root to this node spells a stored key
	terminal bool
}

// newNode creates a new non-terminal trie node with no children
func newNode() *Node {
	return &Node{
		children: make(map[rune]*Node),
	}
}

// dangling reports whether the node neither ends a key nor leads to one
func (n *Node) dangling() bool {
	return !n.terminal && len(n.children) == 0
}

// ValidKey reports whether key can be stored in the trie
func ValidKey(key string) bool {
	return key != "" && utf8.ValidString(key) && utf8.RuneCountInString(key) <= MaxKeyLength
}

// Trie is a prefix tree over strings. It is not safe for concurrent use;
// callers sharing a Trie must serialize access themselves.
type Trie struct {
	root *Node
	size int
}

// New creates a new empty trie
func New() *Trie {
	return &Trie{
		root: newNode(),
	}
}

// Len returns the number of keys stored in the trie
func (t *Trie) Len() int {
	return t.size
}
