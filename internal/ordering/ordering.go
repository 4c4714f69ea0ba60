// Package ordering reorders collections by an external priority list and
// shuffles slices in place.
//
// Items whose key appears in the priority list are placed by their index in
// that list. Items whose key is missing sort after every listed item and keep
// their relative input order. The sort and copy helpers never modify their
// input; Shuffle is the only in-place operation.
package ordering

import (
	"cmp"
	"errors"
	"maps"
	"math/rand/v2"
	"slices"

	"gopkg.in/yaml.v3"
)

// Errors.
var (
	ErrNotMapping  = errors.New("yaml node is not a mapping")
	ErrNotSequence = errors.New("yaml node is not a sequence")
	ErrNoField     = errors.New("sort field is required")
)

// Entry is one key/value pair of an ordered mapping.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// ranker maps a key to its position in order. Unlisted keys get len(order),
// which is larger than any listed position. Duplicates keep their first
// position.
func ranker[K comparable](order []K) func(K) int {
	idx := make(map[K]int, len(order))
	for i, k := range order {
		if _, seen := idx[k]; !seen {
			idx[k] = i
		}
	}
	unlisted := len(order)
	return func(k K) int {
		if i, ok := idx[k]; ok {
			return i
		}
		return unlisted
	}
}

// SortKeys returns the entries of m ordered by order. Go maps have no
// insertion order, so unlisted keys follow the listed ones in ascending key
// order.
func SortKeys[K cmp.Ordered, V any](m map[K]V, order []K) []Entry[K, V] {
	keys := slices.Sorted(maps.Keys(m))
	rank := ranker(order)
	slices.SortStableFunc(keys, func(a, b K) int {
		return cmp.Compare(rank(a), rank(b))
	})

	out := make([]Entry[K, V], len(keys))
	for i, k := range keys {
		out[i] = Entry[K, V]{Key: k, Value: m[k]}
	}
	return out
}

// SortEntries returns a copy of entries ordered by order.
func SortEntries[K comparable, V any](entries []Entry[K, V], order []K) []Entry[K, V] {
	return SortArray(entries, order, func(e Entry[K, V]) K { return e.Key })
}

// SortArray returns a copy of items ordered by the position of key(item) in
// order.
func SortArray[T any, K comparable](items []T, order []K, key func(T) K) []T {
	out := slices.Clone(items)
	rank := ranker(order)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(rank(key(a)), rank(key(b)))
	})
	return out
}

// Shuffle permutes items in place with the Fisher-Yates algorithm and
// returns the same slice. A nil rng uses the global source.
func Shuffle[T any](items []T, rng *rand.Rand) []T {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}
	for i := len(items) - 1; i > 0; i-- {
		j := intN(i + 1)
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// SortYAMLMapping returns a copy of a mapping node with its keys ordered by
// order. Unlisted keys keep their document order. A document node is
// unwrapped to its root. Values are shared with the input, not copied.
func SortYAMLMapping(node *yaml.Node, order []string) (*yaml.Node, error) {
	node = unwrapDocument(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}

	pairs := make([]Entry[string, [2]*yaml.Node], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		pairs = append(pairs, Entry[string, [2]*yaml.Node]{Key: k.Value, Value: [2]*yaml.Node{k, v}})
	}
	pairs = SortEntries(pairs, order)

	out := *node
	out.Content = make([]*yaml.Node, 0, len(node.Content))
	for _, p := range pairs {
		out.Content = append(out.Content, p.Value[0], p.Value[1])
	}
	return &out, nil
}

// SortYAMLSequence returns a copy of a sequence node whose mapping items are
// ordered by the scalar value stored under field. Items without the field
// count as unlisted.
func SortYAMLSequence(node *yaml.Node, order []string, field string) (*yaml.Node, error) {
	node = unwrapDocument(node)
	if node == nil || node.Kind != yaml.SequenceNode {
		return nil, ErrNotSequence
	}
	if field == "" {
		return nil, ErrNoField
	}

	out := *node
	out.Content = SortArray(node.Content, order, func(item *yaml.Node) string {
		return fieldValue(item, field)
	})
	return &out, nil
}

func unwrapDocument(node *yaml.Node) *yaml.Node {
	if node != nil && node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		return node.Content[0]
	}
	return node
}

// fieldValue returns the scalar under key in a mapping node, or "".
func fieldValue(item *yaml.Node, key string) string {
	if item.Kind != yaml.MappingNode {
		return ""
	}
	for i := 0; i+1 < len(item.Content); i += 2 {
		if item.Content[i].Value == key && item.Content[i+1].Kind == yaml.ScalarNode {
			return item.Content[i+1].Value
		}
	}
	return ""
}
