package trie

import (
	"sort"
	"unicode/utf8"
)

// Insert adds key to the trie, creating any missing nodes along its path.
// It returns ErrAlreadyExists if the key is already stored.
func (t *Trie) Insert(key string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}

	node := t.root
	for _, ch := range key {
		child, exists := node.children[ch]
		if !exists {
			child = newNode()
			node.children[ch] = child
		}
		node = child
	}

	if node.terminal {
		return ErrAlreadyExists
	}
	node.terminal = true
	t.size++
	return nil
}

// edge records a step taken while walking down the trie
type edge struct {
	parent *Node
	ch     rune
}

// Remove deletes key from the trie and prunes every node left dangling
// by the removal, walking back up from the removed key toward the root.
// It returns ErrNotFound if the key is not stored.
func (t *Trie) Remove(key string) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}

	var path []edge
	node := t.root
	for _, ch := range key {
		child, exists := node.children[ch]
		if !exists {
			return ErrNotFound
		}
		path = append(path, edge{parent: node, ch: ch})
		node = child
	}

	if !node.terminal {
		return ErrNotFound
	}
	node.terminal = false
	t.size--

	// The root is never pruned, so only nodes below it are checked.
	for i := len(path) - 1; i >= 0; i-- {
		if !node.dangling() {
			break
		}
		delete(path[i].parent.children, path[i].ch)
		node = path[i].parent
	}
	return nil
}

// Contains reports whether key is stored in the trie
func (t *Trie) Contains(key string) bool {
	if !ValidKey(key) {
		return false
	}
	node := t.findNode(key)
	return node != nil && node.terminal
}

// findNode returns the node corresponding to the key, or nil if not found
func (t *Trie) findNode(key string) *Node {
	node := t.root
	for _, ch := range key {
		child, exists := node.children[ch]
		if !exists {
			return nil
		}
		node = child
	}
	return node
}

// sortedChildren returns the node's child characters in ascending order
func sortedChildren(node *Node) []rune {
	children := make([]rune, 0, len(node.children))
	for ch := range node.children {
		children = append(children, ch)
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	return children
}

// pending is a queued subtree waiting to be visited during completion
type pending struct {
	key  []rune
	node *Node
}

// CompleteFrom returns up to limit stored keys starting with prefix.
//
// The subtree under prefix is walked breadth first, so shorter completions
// come before longer ones. Siblings are visited in ascending character
// order, which makes the result deterministic. An unknown prefix, a
// prefix that is not valid UTF-8, or a limit below one yields an empty
// slice.
func (t *Trie) CompleteFrom(prefix string, limit int) []string {
	results := []string{}
	if limit <= 0 || !utf8.ValidString(prefix) {
		return results
	}

	start := t.findNode(prefix)
	if start == nil {
		return results
	}

	queue := []pending{{key: []rune(prefix), node: start}}
	for len(queue) > 0 && len(results) < limit {
		current := queue[0]
		queue[0] = pending{}
		queue = queue[1:]

		if current.node.terminal {
			results = append(results, string(current.key))
		}

		for _, ch := range sortedChildren(current.node) {
			key := make([]rune, len(current.key)+1)
			copy(key, current.key)
			key[len(current.key)] = ch
			queue = append(queue, pending{key: key, node: current.node.children[ch]})
		}
	}
	return results
}
