// Package arena implements an owning, insertion-ordered store of values
// addressed by generation-checked handles.
//
// A List keeps its items in a contiguous slice of slots. Live slots are
// threaded on an intrusive doubly-linked index list so iteration follows
// insertion order, and freed slots go on a free list for reuse. Every slot
// carries a generation counter that is bumped when the slot is freed, so a
// Handle to a removed item is detected instead of silently aliasing the
// next occupant.
package arena

import (
	"fmt"
	"iter"
)

// Handle is a stable, non-owning reference to an item of a List.
// The zero Handle never refers to an item.
type Handle struct {
	index      uint32
	generation uint32
}

// IsNil reports whether h is the zero Handle.
func (h Handle) IsNil() bool {
	return h.generation == 0
}

// Index returns the slot index of h. Indices are reused after removal.
func (h Handle) Index() int {
	return int(h.index)
}

func (h Handle) String() string {
	if h.IsNil() {
		return "#nil"
	}
	return fmt.Sprintf("#%d.%d", h.index, h.generation)
}

type slotState uint8

const (
	stateFree slotState = iota
	stateLinked
	stateExtracted
)

// prev/next hold index+1 so that 0 means "none" and the zero List is usable.
type slot[T any] struct {
	item       T
	prev, next uint32
	generation uint32
	state      slotState
}

// List owns its items. The zero value is an empty list ready to use.
//
// Pointers returned by Get stay valid until the next call to Add, which may
// grow the backing slice.
type List[T any] struct {
	slots       []slot[T]
	free        []uint32
	first, last uint32
	size        int
}

// Add appends item at the tail and returns its handle. O(1) amortized.
func (l *List[T]) Add(item T) Handle {
	var idx uint32
	if n := len(l.free); n > 0 {
		idx = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		l.slots = append(l.slots, slot[T]{generation: 1})
		idx = uint32(len(l.slots) - 1)
	}

	s := &l.slots[idx]
	s.item = item
	s.state = stateLinked
	l.link(idx)
	l.size++

	return Handle{index: idx, generation: s.generation}
}

// Remove unlinks and destroys the item referenced by h. The list does not
// cascade: callers detach cross references first.
func (l *List[T]) Remove(h Handle) {
	s := l.mustSlot(h)
	if s.state != stateLinked {
		panic(fmt.Sprintf("arena: remove of extracted handle %v", h))
	}
	l.unlink(h.index)
	l.size--
	l.release(h.index)
}

// Extract unlinks the item referenced by h without destroying it. The item
// stays readable through Get until Release is called.
func (l *List[T]) Extract(h Handle) {
	s := l.mustSlot(h)
	if s.state != stateLinked {
		panic(fmt.Sprintf("arena: double extract of handle %v", h))
	}
	l.unlink(h.index)
	s.state = stateExtracted
	l.size--
}

// Release destroys an item previously detached with Extract.
func (l *List[T]) Release(h Handle) {
	s := l.mustSlot(h)
	if s.state != stateExtracted {
		panic(fmt.Sprintf("arena: release of linked handle %v", h))
	}
	l.release(h.index)
}

// Get returns a pointer to the item referenced by h. It panics if h is stale.
func (l *List[T]) Get(h Handle) *T {
	return &l.mustSlot(h).item
}

// Valid reports whether h refers to a live (linked or extracted) item.
func (l *List[T]) Valid(h Handle) bool {
	if h.IsNil() || int(h.index) >= len(l.slots) {
		return false
	}
	s := &l.slots[h.index]
	return s.state != stateFree && s.generation == h.generation
}

// Linked reports whether h refers to an item that is currently in the list.
func (l *List[T]) Linked(h Handle) bool {
	return l.Valid(h) && l.slots[h.index].state == stateLinked
}

// Len returns the number of linked items.
func (l *List[T]) Len() int {
	return l.size
}

// First returns the head of the list, or the zero Handle if it is empty.
func (l *List[T]) First() Handle {
	return l.handle(l.first)
}

// Last returns the tail of the list, or the zero Handle if it is empty.
func (l *List[T]) Last() Handle {
	return l.handle(l.last)
}

// Next returns the item following h, or the zero Handle at the tail.
func (l *List[T]) Next(h Handle) Handle {
	return l.handle(l.mustSlot(h).next)
}

// All iterates linked items from first to last. The current item may be
// removed or extracted during iteration.
func (l *List[T]) All() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for h := l.First(); !h.IsNil(); {
			next := l.Next(h)
			if !yield(h, &l.slots[h.index].item) {
				return
			}
			h = next
		}
	}
}

// Handles returns a snapshot of all linked handles in list order.
func (l *List[T]) Handles() []Handle {
	out := make([]Handle, 0, l.size)
	for h := l.First(); !h.IsNil(); h = l.Next(h) {
		out = append(out, h)
	}
	return out
}

// Clear destroys every item, linked or extracted. Outstanding handles become stale.
func (l *List[T]) Clear() {
	for i := range l.slots {
		if l.slots[i].state != stateFree {
			l.release(uint32(i))
		}
	}
	l.first, l.last = 0, 0
	l.size = 0
}

func (l *List[T]) mustSlot(h Handle) *slot[T] {
	if !l.Valid(h) {
		panic(fmt.Sprintf("arena: stale or foreign handle %v", h))
	}
	return &l.slots[h.index]
}

func (l *List[T]) handle(ref uint32) Handle {
	if ref == 0 {
		return Handle{}
	}
	idx := ref - 1
	return Handle{index: idx, generation: l.slots[idx].generation}
}

func (l *List[T]) link(idx uint32) {
	s := &l.slots[idx]
	s.prev = l.last
	s.next = 0
	if l.last == 0 {
		l.first = idx + 1
	} else {
		l.slots[l.last-1].next = idx + 1
	}
	l.last = idx + 1
}

func (l *List[T]) unlink(idx uint32) {
	s := &l.slots[idx]
	if s.prev != 0 {
		l.slots[s.prev-1].next = s.next
	} else {
		l.first = s.next
	}
	if s.next != 0 {
		l.slots[s.next-1].prev = s.prev
	} else {
		l.last = s.prev
	}
	s.prev, s.next = 0, 0
}

func (l *List[T]) release(idx uint32) {
	s := &l.slots[idx]
	var zero T
	s.item = zero
	s.state = stateFree
	s.prev, s.next = 0, 0
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	l.free = append(l.free, idx)
}
