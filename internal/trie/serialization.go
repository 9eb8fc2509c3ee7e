package trie

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Serialization format:
//
//	{"root": {"isResult": false, "children": {"a": {"isResult": true, "children": {}}}}}
//
// Every node carries its terminal flag and a map from a single character
// to the child node. Both fields are required when decoding.

// Snapshot is a structural copy of a trie node and its subtree
type Snapshot struct {
	Terminal bool                `json:"isResult"`
	Children map[string]Snapshot `json:"children"`
}

// document is the top-level persisted form of a trie
type document struct {
	Root Snapshot `json:"root"`
}

// Snapshot returns a deep copy of the trie's structure. The result shares
// no memory with the trie.
func (t *Trie) Snapshot() Snapshot {
	return snapshotNode(t.root)
}

func snapshotNode(node *Node) Snapshot {
	s := Snapshot{
		Terminal: node.terminal,
		Children: make(map[string]Snapshot, len(node.children)),
	}
	for ch, child := range node.children {
		s.Children[string(ch)] = snapshotNode(child)
	}
	return s
}

// FromSnapshot rebuilds a trie from a snapshot. It returns an error wrapping
// ErrMalformedState if the snapshot could not have been produced by a trie:
// a child key that is not exactly one character, a terminal root, a
// non-root node that neither ends a key nor has children, or a path longer
// than MaxKeyLength.
func FromSnapshot(s Snapshot) (*Trie, error) {
	if s.Terminal {
		return nil, fmt.Errorf("%w: root cannot hold a key", ErrMalformedState)
	}

	t := New()
	for label, child := range s.Children {
		ch, err := edgeRune(label)
		if err != nil {
			return nil, err
		}
		node, err := restoreNode(child, label, 1, &t.size)
		if err != nil {
			return nil, err
		}
		t.root.children[ch] = node
	}
	return t, nil
}

func restoreNode(s Snapshot, path string, depth int, size *int) (*Node, error) {
	if depth > MaxKeyLength {
		return nil, fmt.Errorf("%w: key longer than %d characters", ErrMalformedState, MaxKeyLength)
	}
	if !s.Terminal && len(s.Children) == 0 {
		return nil, fmt.Errorf("%w: dangling node at %q", ErrMalformedState, path)
	}

	node := newNode()
	node.terminal = s.Terminal
	if s.Terminal {
		*size++
	}
	for label, child := range s.Children {
		ch, err := edgeRune(label)
		if err != nil {
			return nil, err
		}
		childNode, err := restoreNode(child, path+label, depth+1, size)
		if err != nil {
			return nil, err
		}
		node.children[ch] = childNode
	}
	return node, nil
}

// edgeRune converts a child label back into the single character it encodes
func edgeRune(label string) (rune, error) {
	ch, width := utf8.DecodeRuneInString(label)
	if width == 0 || width != len(label) || (ch == utf8.RuneError && width == 1) {
		return 0, fmt.Errorf("%w: child label %q is not a single character", ErrMalformedState, label)
	}
	return ch, nil
}

// MarshalJSON encodes the trie in its persisted form
func (t *Trie) MarshalJSON() ([]byte, error) {
	return json.Marshal(document{Root: t.Snapshot()})
}

// Dump returns the trie's structure as indented JSON
func (t *Trie) Dump() (string, error) {
	data, err := json.MarshalIndent(t.Snapshot(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode trie: %w", err)
	}
	return string(data), nil
}

// wireNode mirrors Snapshot with pointer fields so missing fields can be
// told apart from zero values
type wireNode struct {
	Terminal *bool                `json:"isResult"`
	Children map[string]*wireNode `json:"children"`
}

type wireDocument struct {
	Root *wireNode `json:"root"`
}

// Decode rebuilds a trie from its persisted form. Input that is not valid
// JSON, lacks the root, or has a node without both of its fields yields an
// error wrapping ErrMalformedState. A document with an empty root decodes
// to an empty trie.
func Decode(data []byte) (*Trie, error) {
	var doc wireDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if doc.Root == nil {
		return nil, fmt.Errorf("%w: missing root", ErrMalformedState)
	}

	root, err := doc.Root.snapshot("")
	if err != nil {
		return nil, err
	}
	return FromSnapshot(root)
}

func (w *wireNode) snapshot(path string) (Snapshot, error) {
	if w == nil {
		return Snapshot{}, fmt.Errorf("%w: null node at %q", ErrMalformedState, path)
	}
	if w.Terminal == nil {
		return Snapshot{}, fmt.Errorf("%w: node at %q has no isResult field", ErrMalformedState, path)
	}
	if w.Children == nil {
		return Snapshot{}, fmt.Errorf("%w: node at %q has no children field", ErrMalformedState, path)
	}

	s := Snapshot{
		Terminal: *w.Terminal,
		Children: make(map[string]Snapshot, len(w.Children)),
	}
	for label, child := range w.Children {
		cs, err := child.snapshot(path + label)
		if err != nil {
			return Snapshot{}, err
		}
		s.Children[label] = cs
	}
	return s, nil
}
