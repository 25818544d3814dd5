package tui

import "testing"

func TestIndexedOptions(t *testing.T) {
	items := []string{"Add user", "List users", "Exit"}
	opts := indexedOptions(items, func(s string) string { return s })

	if len(opts) != len(items) {
		t.Fatalf("len(opts) = %d, want %d", len(opts), len(items))
	}
	for i, o := range opts {
		if o.Key != items[i] {
			t.Errorf("opts[%d].Key = %q, want %q", i, o.Key, items[i])
		}
		if o.Value != i {
			t.Errorf("opts[%d].Value = %d, want %d", i, o.Value, i)
		}
	}
}

func TestIndexedOptions_Empty(t *testing.T) {
	if opts := indexedOptions([]int(nil), func(int) string { return "" }); len(opts) != 0 {
		t.Errorf("len(opts) = %d, want 0", len(opts))
	}
}
