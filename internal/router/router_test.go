package router

import "testing"

func TestEngineForPathCreatesAndReuses(t *testing.T) {
	r := New()

	e1, ok := r.EngineForPath("src/main.rs")
	if !ok {
		t.Fatal("expected rust to be supported")
	}

	e2, ok := r.EngineForPath("src/lib.rs")
	if !ok {
		t.Fatal("expected rust to be supported")
	}

	if e1 != e2 {
		t.Error("EngineForPath should return the same engine for files of the same language")
	}
}

func TestEngineForPathUnsupportedExtension(t *testing.T) {
	r := New()
	if _, ok := r.EngineForPath("README.md"); ok {
		t.Error("expected .md to be unsupported")
	}
}

func TestEngineForLanguageIDDistinctPerLanguage(t *testing.T) {
	r := New()

	rustEngine, ok := r.EngineForLanguageID("rust")
	if !ok {
		t.Fatal("expected rust to be supported")
	}
	pythonEngine, ok := r.EngineForLanguageID("python")
	if !ok {
		t.Fatal("expected python to be supported")
	}

	if rustEngine == pythonEngine {
		t.Error("different languages must route to different engines")
	}
}

func TestRemoveEngineResetsState(t *testing.T) {
	r := New()

	e1, _ := r.EngineForLanguageID("python")
	e1.Insert("a.py", []byte("x = 1\n"))

	r.RemoveEngine("python")

	e2, _ := r.EngineForLanguageID("python")
	if e2.FileCount() != 0 {
		t.Error("a fresh engine after RemoveEngine should start empty")
	}
}

func TestIsLanguageSupported(t *testing.T) {
	if !IsLanguageSupported("rust") {
		t.Error("rust should be supported")
	}
	if IsLanguageSupported("cobol") {
		t.Error("cobol should not be supported")
	}
}

func TestEnginesSnapshot(t *testing.T) {
	r := New()
	r.EngineForLanguageID("rust")
	r.EngineForLanguageID("python")

	snap := r.Engines()
	if len(snap) != 2 {
		t.Fatalf("Engines() returned %d entries, want 2", len(snap))
	}
}
