package engine

import "testing"

func TestNodeAtFindsCloneSibling(t *testing.T) {
	e := newPythonEngine(t)
	e.Insert("dup.py", []byte(dupSourceA))

	// Byte offset of the "in" keyword in the first handler's for-loop header.
	offset := 30

	node, members, ok := e.NodeAt("dup.py", offset)
	if !ok {
		t.Fatal("expected a registered node at this offset")
	}
	if node == nil {
		t.Fatal("NodeAt returned nil node with ok == true")
	}
	if len(members) < 2 {
		t.Fatalf("expected >= 2 clone group members, got %d", len(members))
	}
}

func TestNodeAtUnknownPath(t *testing.T) {
	e := newPythonEngine(t)
	if _, _, ok := e.NodeAt("missing.py", 0); ok {
		t.Error("NodeAt on an unindexed path should return false")
	}
}

func TestNodeAtOutOfRangeOffset(t *testing.T) {
	e := newPythonEngine(t)
	e.Insert("a.py", []byte("x = 1\n"))
	if _, _, ok := e.NodeAt("a.py", 10_000); ok {
		t.Error("NodeAt with an out-of-range offset should return false")
	}
}
