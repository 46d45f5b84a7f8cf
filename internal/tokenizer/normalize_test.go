package tokenizer

import "testing"

func TestNormalizeLowercasesAndFilters(t *testing.T) {
	got := Normalize("Hello, World!")
	want := []string{"h", "e", "l", "l", "o", ",", " ", "w", "o", "r", "l", "d", "!"}
	if len(got) != len(want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Normalize[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeDropsUnkeptRunes(t *testing.T) {
	got := Normalize("a1b2?c")
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Normalize[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalizeTransliteratesAccents(t *testing.T) {
	got := Normalize("café")
	want := []string{"c", "a", "f", "e"}
	if len(got) != len(want) {
		t.Fatalf("Normalize(café) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Normalize(café)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
