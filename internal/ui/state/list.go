package state

import "github.com/atomicstack/shell-sync/internal/menu"

// List is the console's selectable entry list: servers followed by
// commands. It tracks the cursor, the quick filter and the viewport.
type List struct {
	Items          []menu.Item
	Full           []menu.Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewList constructs a list positioned on its first entry.
func NewList(items []menu.Item) *List {
	l := &List{LastCursor: -1}
	l.UpdateItems(items)
	return l
}

// UpdateItems replaces the entries. The cursor stays on the same entry ID
// when it survives the update.
func (l *List) UpdateItems(items []menu.Item) {
	selected, hadSelection := l.Selected()
	l.Full = CloneItems(items)
	l.applyFilter()
	if hadSelection {
		if idx := l.IndexOf(selected.ID); idx >= 0 {
			l.Cursor = idx
		}
	}
	if l.ViewportOffset > len(l.Items)-1 || l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
}

// IndexOf returns the index of the entry with id among visible items.
func (l *List) IndexOf(id string) int {
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Selected returns the entry under the cursor.
func (l *List) Selected() (menu.Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return menu.Item{}, false
	}
	return l.Items[l.Cursor], true
}

// Move shifts the cursor by delta, wrapping at both ends.
func (l *List) Move(delta int) {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return
	}
	l.Cursor = ((l.Cursor+delta)%n + n) % n
}

// EnsureVisible scrolls the viewport so the cursor is inside a window of
// height rows.
func (l *List) EnsureVisible(height int) {
	if height <= 0 {
		return
	}
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if l.Cursor >= l.ViewportOffset+height {
		l.ViewportOffset = l.Cursor - height + 1
	}
	if l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
}

// CloneItems produces a shallow copy of the provided menu items.
func CloneItems(items []menu.Item) []menu.Item {
	dup := make([]menu.Item, len(items))
	copy(dup, items)
	return dup
}
