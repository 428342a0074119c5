package table

import "testing"

func TestFormatAlignsColumns(t *testing.T) {
	rows := [][]string{
		{"Team", "https://team.example", "3"},
		{"Ops", "https://ops.example", "12"},
	}
	got := Format(rows, []Alignment{AlignLeft, AlignLeft, AlignRight})
	want := []string{
		"Team  https://team.example   3",
		"Ops   https://ops.example   12",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFormatUsesDisplayWidth(t *testing.T) {
	rows := [][]string{
		{"\x1b[1mbold\x1b[0m", "x"},
		{"日本", "y"},
		{"ab", "z"},
	}
	got := Format(rows, nil)
	want := []string{
		"\x1b[1mbold\x1b[0m  x",
		"日本  y",
		"ab    z",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if Format(nil, nil) != nil {
		t.Fatalf("expected nil for no rows")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("https://chat.example", 10); cellWidth(got) > 10 || got == "https://chat.example" {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("anything", 0); got != "" {
		t.Fatalf("unexpected %q", got)
	}
}
