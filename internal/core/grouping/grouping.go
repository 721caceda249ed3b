// Package grouping builds nested groupings and rollups of report rows keyed by an
// ordered list of dimensions.
package grouping

import (
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Level is one grouping dimension: a key extractor and the ordering of its keys.
type Level[T any] struct {
	Key     func(T) string
	Compare func(a, b string) int
}

// ByString groups on a string key in codepoint order.
func ByString[T any](key func(T) string) Level[T] {
	return Level[T]{Key: key, Compare: strings.Compare}
}

// ByInt groups on an integer key in numeric order.
func ByInt[T any](key func(T) int) Level[T] {
	return Level[T]{
		Key: func(item T) string { return strconv.Itoa(key(item)) },
		Compare: func(a, b string) int {
			ai, _ := strconv.Atoi(a)
			bi, _ := strconv.Atoi(b)
			return ai - bi
		},
	}
}

// Node is one group. Inner levels hold Children; the innermost level holds Items in
// their input order.
type Node[T any] struct {
	Key      string
	Children []Node[T]
	Items    []T
}

// Group nests items by each level in turn. With no levels every item lands in a single
// node with an empty key; with no items the result is empty.
func Group[T any](items []T, levels ...Level[T]) []Node[T] {
	if len(items) == 0 {
		return nil
	}
	if len(levels) == 0 {
		return []Node[T]{{Items: items}}
	}

	level := levels[0]
	buckets := lo.GroupBy(items, level.Key)
	keys := lo.Keys(buckets)
	slices.SortFunc(keys, level.Compare)

	nodes := make([]Node[T], 0, len(keys))
	for _, key := range keys {
		node := Node[T]{Key: key}
		if len(levels) == 1 {
			node.Items = buckets[key]
		} else {
			node.Children = Group(buckets[key], levels[1:]...)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// Leaf is an innermost group with the full key path that reached it.
type Leaf[V any] struct {
	Keys  []string
	Value V
}

// Flatten walks nodes depth-first, in order, and returns one leaf per innermost group.
func Flatten[T any](nodes []Node[T]) []Leaf[[]T] {
	var out []Leaf[[]T]
	var walk func(path []string, nodes []Node[T])
	walk = func(path []string, nodes []Node[T]) {
		for _, n := range nodes {
			keys := append(slices.Clone(path), n.Key)
			if len(n.Children) == 0 {
				out = append(out, Leaf[[]T]{Keys: keys, Value: n.Items})
				continue
			}
			walk(keys, n.Children)
		}
	}
	walk(nil, nodes)
	return out
}

// Rollup groups items by levels and reduces every innermost group to a single value.
func Rollup[T, V any](items []T, reduce func([]T) V, levels ...Level[T]) []Leaf[V] {
	leaves := Flatten(Group(items, levels...))
	out := make([]Leaf[V], len(leaves))
	for i, leaf := range leaves {
		out[i] = Leaf[V]{Keys: leaf.Keys, Value: reduce(leaf.Value)}
	}
	return out
}
