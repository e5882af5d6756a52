package index

import (
	"testing"

	"github.com/ingo-eichhorst/echolysis/internal/lang"
)

// fakeSink records the fingerprint of every registered node.
type fakeSink struct {
	registered []uint64
}

func (s *fakeSink) Register(h uint64, n *Node) {
	s.registered = append(s.registered, h)
}

func buildPython(t *testing.T, source string) *Tree {
	t.Helper()
	profile, ok := lang.Get("python")
	if !ok {
		t.Fatal("python profile not registered")
	}
	parser := profile.NewParser()
	defer parser.Close()

	tsTree := parser.Parse([]byte(source), nil)
	if tsTree == nil {
		t.Fatal("parse returned nil tree")
	}
	defer tsTree.Close()

	return Build("test.py", []byte(source), tsTree, profile)
}

func TestBuildAssignsUniqueIDs(t *testing.T) {
	tree := buildPython(t, "def f():\n    return 1\n")
	seen := map[int]bool{}
	all := append([]*Node{tree.Root()}, tree.Root().Descendants()...)
	for _, n := range all {
		if seen[n.ID()] {
			t.Fatalf("duplicate node id %d", n.ID())
		}
		seen[n.ID()] = true
	}
}

func TestComputeDeterministic(t *testing.T) {
	const src = "def f():\n    return 1\n"
	profile, _ := lang.Get("python")

	t1 := buildPython(t, src)
	t2 := buildPython(t, src)

	h1 := Compute(t1, profile, &fakeSink{})
	h2 := Compute(t2, profile, &fakeSink{})

	if h1 != h2 {
		t.Errorf("Compute() not deterministic for identical source: %d != %d", h1, h2)
	}
}

func TestComputeRegistersRenamedDuplicateLoop(t *testing.T) {
	profile, _ := lang.Get("python")

	a := buildPython(t, "for i in range(10):\n    work(i)\n    log(i)\n    print(i)\n    save(i)\n    emit(i)\n")
	b := buildPython(t, "for j in range(10):\n    work(j)\n    log(j)\n    print(j)\n    save(j)\n    emit(j)\n")

	sinkA := &fakeSink{}
	sinkB := &fakeSink{}
	Compute(a, profile, sinkA)
	Compute(b, profile, sinkB)

	if len(sinkA.registered) == 0 {
		t.Fatal("expected at least one registered subtree")
	}

	found := false
	for _, ha := range sinkA.registered {
		for _, hb := range sinkB.registered {
			if ha == hb {
				found = true
			}
		}
	}
	if !found {
		t.Error("renamed loop variable should still collapse to the same fingerprint under variable obfuscation")
	}
}

func TestComputeDistinctLiteralsDoNotCollide(t *testing.T) {
	profile, _ := lang.Get("python")
	a := buildPython(t, "x = 1\n")
	b := buildPython(t, "x = 2\n")

	h1 := Compute(a, profile, &fakeSink{})
	h2 := Compute(b, profile, &fakeSink{})

	if h1 == h2 {
		t.Error("differing literal values should not collapse to the same fingerprint")
	}
}
