// Package aggregate implements the segment/channel/session hierarchy:
// filesystem naming, hierarchical open, ephemeral metadata synthesis,
// and reference-channel selection (spec §3, §4, Design Notes §9).
package aggregate

// ID is a stable arena index. The sentinel Invalid (-1) means "no
// parent" / "not present"; the zero ID is the first valid index.
type ID int

// Invalid is the sentinel ID (-1), used for a root entity's
// absent parent (spec Design Notes §9: "Model as Arena<Session/Channel/
// Segment> with stable indices; the parent field is an index, not an
// owning reference").
const Invalid ID = -1

// Arena is a growable, stable-index store for one entity kind. Indices
// remain valid for the arena's lifetime even as other entries are
// added; this sidesteps the cyclic session→channel→segment→parent
// reference graph that a pointer-owning model would require.
type Arena[T any] struct {
	items []T
}

// Add appends item and returns its stable ID.
func (a *Arena[T]) Add(item T) ID {
	a.items = append(a.items, item)

	return ID(len(a.items) - 1)
}

// Get returns a pointer to the item at id, for in-place mutation.
func (a *Arena[T]) Get(id ID) *T {
	return &a.items[id]
}

// Len returns the number of items in the arena.
func (a *Arena[T]) Len() int { return len(a.items) }

// All iterates every (ID, *T) pair in insertion order.
func (a *Arena[T]) All() func(yield func(ID, *T) bool) {
	return func(yield func(ID, *T) bool) {
		for i := range a.items {
			if !yield(ID(i), &a.items[i]) {
				return
			}
		}
	}
}
