// Package list provides a browsable sequence with an optional single-item cursor.
package list

// List is an ordered sequence of items with an optional cursor.
//
// The cursor is unset until the first call to Next or Previous, and is always
// unset while the list is empty. When set, 0 <= cursor < Len().
// The zero value is an empty list.
type List[T any] struct {
	items    []T
	cursor   int
	selected bool
}

// WithItems returns a list over items with no selection.
func WithItems[T any](items []T) *List[T] {
	return &List[T]{items: items}
}

// Items returns the backing slice. Callers must not modify it.
func (l *List[T]) Items() []T {
	return l.items
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Selected returns the cursor index and whether one is set.
func (l *List[T]) Selected() (int, bool) {
	if !l.selected {
		return 0, false
	}
	return l.cursor, true
}

// SelectedItem returns the item under the cursor.
func (l *List[T]) SelectedItem() (T, bool) {
	var zero T
	i, ok := l.Selected()
	if !ok {
		return zero, false
	}
	return l.items[i], true
}

// Next moves the cursor down one item, wrapping from the last item to the
// first. With no selection it selects the first item.
func (l *List[T]) Next() {
	if len(l.items) == 0 {
		return
	}
	if !l.selected {
		l.selectAt(0)
		return
	}
	l.selectAt((l.cursor + 1) % len(l.items))
}

// Previous moves the cursor up one item, wrapping from the first item to the
// last. With no selection it selects the first item.
func (l *List[T]) Previous() {
	if len(l.items) == 0 {
		return
	}
	if !l.selected {
		l.selectAt(0)
		return
	}
	if l.cursor == 0 {
		l.selectAt(len(l.items) - 1)
		return
	}
	l.selectAt(l.cursor - 1)
}

// ReplaceItems swaps in a new sequence. The selection is positional: an index
// still in range is kept even if a different item now sits there, an index past
// the end is clamped to the last item, and an empty sequence clears it.
func (l *List[T]) ReplaceItems(items []T) {
	l.items = items

	switch {
	case !l.selected:
	case len(items) == 0:
		l.clear()
	case l.cursor >= len(items):
		l.cursor = len(items) - 1
	}
}

func (l *List[T]) selectAt(i int) {
	l.cursor = i
	l.selected = true
}

func (l *List[T]) clear() {
	l.cursor = 0
	l.selected = false
}
