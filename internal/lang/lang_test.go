package lang

import "testing"

func TestIDForPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"main.rs", "rust"},
		{"app.py", "python"},
		{"index.ts", "typescript"},
		{"Makefile", ""},
		{"Dockerfile", "dockerfile"},
		{"noext", ""},
	}
	for _, tt := range tests {
		if got := IDForPath(tt.path); got != tt.want {
			t.Errorf("IDForPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestGetReturnsRegisteredProfiles(t *testing.T) {
	for _, id := range []string{"rust", "python"} {
		p, ok := Get(id)
		if !ok {
			t.Fatalf("Get(%q) ok = false, want true", id)
		}
		if p.ID() != id {
			t.Errorf("profile ID() = %q, want %q", p.ID(), id)
		}
	}
}

func TestGetUnsupportedLanguage(t *testing.T) {
	if _, ok := Get("cobol"); ok {
		t.Error("Get(\"cobol\") ok = true, want false")
	}
}

func TestGetIsMemoized(t *testing.T) {
	a, _ := Get("rust")
	b, _ := Get("rust")
	if a != b {
		t.Error("Get(\"rust\") returned distinct instances across calls")
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("python") {
		t.Error("IsSupported(\"python\") = false, want true")
	}
	if IsSupported("haskell") {
		t.Error("IsSupported(\"haskell\") = true, want false")
	}
}

func TestRustComplexityWeightUnknownKindIsZero(t *testing.T) {
	p, _ := Get("rust")
	if w := p.ComplexityWeight("frobnicate_expression"); w != 0 {
		t.Errorf("ComplexityWeight(unknown) = %v, want 0", w)
	}
}

func TestPythonComplexityWeightSubstringMatch(t *testing.T) {
	p, _ := Get("python")
	if w := p.ComplexityWeight("expression_statement"); w != 1.0 {
		t.Errorf("ComplexityWeight(expression_statement) = %v, want 1.0", w)
	}
	if w := p.ComplexityWeight("identifier"); w != 0 {
		t.Errorf("ComplexityWeight(identifier) = %v, want 0", w)
	}
}
