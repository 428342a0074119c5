package state

import (
	"testing"

	"github.com/atomicstack/shell-sync/internal/menu"
)

func serverItems() []menu.Item {
	return []menu.Item{
		{ID: "https://team.rocket.chat", Label: "Team"},
		{ID: "https://ops.example", Label: "Operations"},
		{ID: "https://open.rocket.chat", Label: "Open Community"},
	}
}

func TestSetFilterTracksCursorAndRestoresPosition(t *testing.T) {
	list := NewList(serverItems())
	list.Cursor = 2
	list.SetFilter("oper", len("oper"))

	if len(list.Items) != 1 || list.Items[0].Label != "Operations" {
		t.Fatalf("expected only Operations, got %#v", list.Items)
	}
	if list.Cursor != 0 || list.FilterCursor != 4 {
		t.Fatalf("unexpected cursor state %d/%d", list.Cursor, list.FilterCursor)
	}

	list.SetFilter("", 0)
	if list.Cursor != 2 || list.LastCursor != -1 {
		t.Fatalf("expected cursor restored to 2, got %d (last %d)", list.Cursor, list.LastCursor)
	}
}

func TestFilterEditing(t *testing.T) {
	list := NewList(serverItems())
	if !list.InsertFilterText("te") || list.Filter != "te" {
		t.Fatalf("unexpected filter %q", list.Filter)
	}
	list.FilterCursor = 1
	list.InsertFilterText("x")
	if list.Filter != "txe" || list.FilterCursor != 2 {
		t.Fatalf("expected middle insert, got %q/%d", list.Filter, list.FilterCursor)
	}
	if !list.DeleteFilterRuneBackward() || list.Filter != "te" {
		t.Fatalf("expected rune delete, got %q", list.Filter)
	}
	list.SetFilter("open comm", len("open comm"))
	if !list.DeleteFilterWordBackward() || list.Filter != "open " {
		t.Fatalf("expected word delete, got %q", list.Filter)
	}
	list.SetFilter("", 0)
	if list.DeleteFilterRuneBackward() {
		t.Fatalf("expected nothing to delete")
	}
}

func TestFilterMatchesURLs(t *testing.T) {
	got := FilterItems(serverItems(), "ops.example")
	if len(got) != 1 || got[0].Label != "Operations" {
		t.Fatalf("expected URL substring match, got %#v", got)
	}
	if got := FilterItems(serverItems(), "zzz"); len(got) != 0 {
		t.Fatalf("expected no matches, got %#v", got)
	}
}

func TestBestMatchIndex(t *testing.T) {
	items := serverItems()
	if idx := BestMatchIndex(items, "open community"); idx != 2 {
		t.Fatalf("expected exact label match, got %d", idx)
	}
	if idx := BestMatchIndex(items, "te"); idx != 0 {
		t.Fatalf("expected prefix match, got %d", idx)
	}
	if idx := BestMatchIndex(nil, "x"); idx != -1 {
		t.Fatalf("expected -1 for no items, got %d", idx)
	}
}

func TestResolveServer(t *testing.T) {
	items := serverItems()
	if url, ok := ResolveServer(items, "https://ops.example/"); !ok || url != "https://ops.example" {
		t.Fatalf("expected exact url, got %q %v", url, ok)
	}
	if url, ok := ResolveServer(items, "comm"); !ok || url != "https://open.rocket.chat" {
		t.Fatalf("expected fuzzy title match, got %q %v", url, ok)
	}
	if _, ok := ResolveServer(items, "nothing-like-it"); ok {
		t.Fatalf("expected no match")
	}
}

func TestListKeepsSelectionAcrossUpdates(t *testing.T) {
	list := NewList(serverItems())
	list.Move(1)
	items := append([]menu.Item{{ID: "https://new.example", Label: "New"}}, serverItems()...)
	list.UpdateItems(items)
	if sel, _ := list.Selected(); sel.Label != "Operations" {
		t.Fatalf("expected selection to follow entry, got %#v", sel)
	}
	list.Move(-3)
	if list.Cursor != 3 {
		t.Fatalf("expected wrap to last entry, got %d", list.Cursor)
	}
	list.EnsureVisible(2)
	if list.ViewportOffset != 2 {
		t.Fatalf("expected viewport to follow cursor, got %d", list.ViewportOffset)
	}
}
