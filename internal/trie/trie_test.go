package trie

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrie_InsertAndContains(t *testing.T) {
	trie := New()

	require.NoError(t, trie.Insert("foo"))
	require.NoError(t, trie.Insert("bar"))

	assert.True(t, trie.Contains("foo"))
	assert.True(t, trie.Contains("bar"))
	assert.False(t, trie.Contains("baz"))
	assert.False(t, trie.Contains("fo"), "interior node must not count as a key")
	assert.False(t, trie.Contains("fooo"))
	assert.False(t, trie.Contains(""))
	assert.Equal(t, 2, trie.Len())
}

func TestTrie_InsertDuplicate(t *testing.T) {
	trie := New()
	require.NoError(t, trie.Insert("foo"))
	before := trie.Snapshot()

	err := trie.Insert("foo")
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, before, trie.Snapshot())
	assert.Equal(t, 1, trie.Len())
}

func TestTrie_EmptyKey(t *testing.T) {
	trie := New()

	assert.ErrorIs(t, trie.Insert(""), ErrInvalidKey)
	assert.ErrorIs(t, trie.Remove(""), ErrInvalidKey)
	assert.Equal(t, New().Snapshot(), trie.Snapshot())
}

func TestTrie_Remove(t *testing.T) {
	t.Run("scenario from bar and baz", func(t *testing.T) {
		trie := New()
		require.NoError(t, trie.Insert("bar"))
		require.NoError(t, trie.Insert("baz"))
		require.NoError(t, trie.Remove("bar"))

		want := New()
		require.NoError(t, want.Insert("baz"))

		assert.False(t, trie.Contains("bar"))
		assert.True(t, trie.Contains("baz"))
		verifyTrieStructure(t, want.root, trie.root)
	})

	t.Run("absent key", func(t *testing.T) {
		trie := New()
		require.NoError(t, trie.Insert("foo"))
		before := trie.Snapshot()

		for _, key := range []string{"bar", "fo", "fooo"} {
			assert.ErrorIs(t, trie.Remove(key), ErrNotFound, key)
		}
		assert.Equal(t, before, trie.Snapshot())
		assert.Equal(t, 1, trie.Len())
	})

	t.Run("prefix of another key keeps the branch", func(t *testing.T) {
		trie := New()
		require.NoError(t, trie.Insert("app"))
		require.NoError(t, trie.Insert("apple"))
		require.NoError(t, trie.Remove("app"))

		assert.False(t, trie.Contains("app"))
		assert.True(t, trie.Contains("apple"))
	})

	t.Run("longer key stops pruning at terminal ancestor", func(t *testing.T) {
		trie := New()
		require.NoError(t, trie.Insert("app"))
		require.NoError(t, trie.Insert("apple"))
		require.NoError(t, trie.Remove("apple"))

		want := New()
		require.NoError(t, want.Insert("app"))
		verifyTrieStructure(t, want.root, trie.root)
	})

	t.Run("last key leaves an empty root", func(t *testing.T) {
		trie := New()
		require.NoError(t, trie.Insert("solo"))
		require.NoError(t, trie.Remove("solo"))

		assert.Empty(t, trie.root.children)
		assert.Equal(t, 0, trie.Len())
	})
}

func TestTrie_InsertRemoveRoundTrip(t *testing.T) {
	base := []string{"a", "ab", "abc", "b", "héllo", "hello", "日本", "日本語"}
	keys := []string{"abd", "abcd", "x", "hel", "日", "日本語です", "a"}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			trie := New()
			for _, k := range base {
				require.NoError(t, trie.Insert(k))
			}
			before := trie.Snapshot()

			err := trie.Insert(key)
			if err != nil {
				require.ErrorIs(t, err, ErrAlreadyExists)
				return
			}
			assert.True(t, trie.Contains(key))

			require.NoError(t, trie.Remove(key))
			assert.False(t, trie.Contains(key))
			assert.Equal(t, before, trie.Snapshot())
			assertNoDanglingNodes(t, trie)
		})
	}
}

func TestTrie_CompleteFrom(t *testing.T) {
	trie := New()
	for _, k := range []string{"foo", "bar", "baz"} {
		require.NoError(t, trie.Insert(k))
	}

	tests := []struct {
		name   string
		prefix string
		limit  int
		want   []string
	}{
		{name: "shared prefix", prefix: "ba", limit: 10, want: []string{"bar", "baz"}},
		{name: "unknown prefix", prefix: "d", limit: 10, want: []string{}},
		{name: "limit truncates", prefix: "ba", limit: 1, want: []string{"bar"}},
		{name: "zero limit", prefix: "ba", limit: 0, want: []string{}},
		{name: "negative limit", prefix: "ba", limit: -3, want: []string{}},
		{name: "exact key", prefix: "foo", limit: 10, want: []string{"foo"}},
		{name: "empty prefix", prefix: "", limit: 10, want: []string{"bar", "baz", "foo"}},
		{name: "past every key", prefix: "fooo", limit: 10, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := trie.CompleteFrom(tt.prefix, tt.limit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTrie_CompleteFromBreadthFirst(t *testing.T) {
	trie := New()
	for _, k := range []string{"abcd", "ab", "abz", "a", "b"} {
		require.NoError(t, trie.Insert(k))
	}

	assert.Equal(t, []string{"a", "ab", "abz", "abcd"}, trie.CompleteFrom("a", 10))
	assert.Equal(t, []string{"a", "b", "ab"}, trie.CompleteFrom("", 3))
}

func TestTrie_CompleteFromProperties(t *testing.T) {
	trie := New()
	words := []string{"car", "card", "care", "cared", "cargo", "cart", "cat", "catalog", "dog"}
	for _, w := range words {
		require.NoError(t, trie.Insert(w))
	}

	for _, prefix := range []string{"", "c", "ca", "car", "care", "d", "x"} {
		for limit := 0; limit <= len(words)+1; limit++ {
			got := trie.CompleteFrom(prefix, limit)
			assert.LessOrEqual(t, len(got), limit)
			for _, key := range got {
				assert.True(t, strings.HasPrefix(key, prefix), "%q does not start with %q", key, prefix)
				assert.True(t, trie.Contains(key), "%q is not stored", key)
			}
		}
	}
}

// assertNoDanglingNodes checks that every non-root node ends a key or has children
func assertNoDanglingNodes(t *testing.T, trie *Trie) {
	t.Helper()

	var check func(node *Node, path string)
	check = func(node *Node, path string) {
		for ch, child := range node.children {
			childPath := path + string(ch)
			assert.False(t, child.dangling(), "dangling node at %q", childPath)
			check(child, childPath)
		}
	}
	check(trie.root, "")
}

func TestTrie_MaxKeyLength(t *testing.T) {
	trie := New()
	require.NoError(t, trie.Insert("short"))

	longest := strings.Repeat("a", MaxKeyLength)
	require.NoError(t, trie.Insert(longest))
	assert.True(t, trie.Contains(longest))

	tooLong := strings.Repeat("a", MaxKeyLength+1)
	assert.ErrorIs(t, trie.Insert(tooLong), ErrInvalidKey)
	assert.ErrorIs(t, trie.Remove(tooLong), ErrInvalidKey)
	assert.False(t, trie.Contains(tooLong))
	assert.Equal(t, 2, trie.Len())

	// Length counts characters, not bytes
	wide := strings.Repeat("語", MaxKeyLength)
	require.NoError(t, trie.Insert(wide))
	assert.ErrorIs(t, trie.Insert(wide+"語"), ErrInvalidKey)
}

func TestTrie_InvalidUTF8(t *testing.T) {
	trie := New()

	assert.ErrorIs(t, trie.Insert("a\xff"), ErrInvalidKey)
	assert.ErrorIs(t, trie.Remove("a\xff"), ErrInvalidKey)
	assert.Equal(t, 0, trie.Len())
	assert.Empty(t, trie.root.children)

	require.NoError(t, trie.Insert("a\uFFFD"))
	assert.True(t, trie.Contains("a\uFFFD"))
	assert.False(t, trie.Contains("a\xff"))
	assert.False(t, trie.Contains("a\xfe"))
	assert.Empty(t, trie.CompleteFrom("a\xff", 10))
	assert.Equal(t, []string{"a\uFFFD"}, trie.CompleteFrom("a", 10))
}
