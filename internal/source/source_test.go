package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "batch")
	os.Mkdir(sub, 0755)
	os.WriteFile(filepath.Join(sub, "b.bani"), []byte("B"), 0644)
	os.WriteFile(filepath.Join(sub, "a.bani"), []byte("A"), 0644)
	os.WriteFile(filepath.Join(sub, "readme.md"), []byte("-"), 0644)
	single := filepath.Join(dir, "single.bani")
	os.WriteFile(single, []byte("S"), 0644)

	src, err := NewFileSource(single, sub)
	if err != nil {
		t.Fatalf("NewFileSource failed: %v", err)
	}
	defer src.Close()

	if src.Count() != 3 {
		t.Fatalf("Expected 3 inputs, got %d", src.Count())
	}

	want := []struct{ name, data string }{{"single.bani", "S"}, {"a.bani", "A"}, {"b.bani", "B"}}
	for i, w := range want {
		in, err := src.Read(i)
		if err != nil {
			t.Fatalf("Read(%d) failed: %v", i, err)
		}
		if in.Name != w.name || string(in.Data) != w.data {
			t.Errorf("Read(%d) = %s %q, want %s %q", i, in.Name, in.Data, w.name, w.data)
		}
	}

	if _, err := src.Read(3); err == nil {
		t.Error("Expected out of range error")
	}
}

func TestFileSourceMissingPath(t *testing.T) {
	if _, err := NewFileSource(filepath.Join(t.TempDir(), "nope.bani")); err == nil {
		t.Error("Expected error for missing path")
	}
}

func TestMemorySource(t *testing.T) {
	src := NewMemorySource(Input{Name: "walk.bani", Data: []byte("{}")})
	if i := src.Add("stdin.bani", []byte("[]")); i != 1 {
		t.Errorf("Expected index 1, got %d", i)
	}
	in, err := src.Read(1)
	if err != nil || in.Name != "stdin.bani" {
		t.Errorf("Unexpected input %+v (%v)", in, err)
	}
	if _, err := src.Read(-1); err == nil {
		t.Error("Expected out of range error")
	}
}
