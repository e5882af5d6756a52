package hash

import "testing"

func TestLeafDeterministicWithinProcess(t *testing.T) {
	a := Leaf([]byte("fn foo()"))
	b := Leaf([]byte("fn foo()"))
	if a != b {
		t.Errorf("Leaf() not deterministic: %d != %d", a, b)
	}
}

func TestLeafDiffersOnDifferentInput(t *testing.T) {
	a := Leaf([]byte("foo"))
	b := Leaf([]byte("bar"))
	if a == b {
		t.Error("Leaf() collided on distinct inputs")
	}
}

func TestCombineOrderSensitive(t *testing.T) {
	a := Combine(Combine(0, 1), 2)
	b := Combine(Combine(0, 2), 1)
	if a == b {
		t.Error("Combine() should be order-sensitive")
	}
}

func TestCombineDeterministic(t *testing.T) {
	a := Combine(42, 7)
	b := Combine(42, 7)
	if a != b {
		t.Errorf("Combine() not deterministic: %d != %d", a, b)
	}
}

func TestCombineNeverReturnsSentinel(t *testing.T) {
	for acc := uint64(0); acc < 1000; acc++ {
		if Combine(acc, acc*31) == sentinel {
			t.Fatalf("Combine(%d, %d) returned the reserved sentinel", acc, acc*31)
		}
	}
}

func TestCombineEmptyFoldIsZeroSeeded(t *testing.T) {
	// A node with no children folds nothing; callers start from acc = 0 and
	// never call Combine, so the fingerprint stays 0. This documents that
	// contract rather than exercising Combine itself.
	var acc uint64
	if acc != 0 {
		t.Fatal("empty fold must start from 0")
	}
}
