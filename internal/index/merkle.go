package index

import (
	"github.com/ingo-eichhorst/echolysis/internal/hash"
	"github.com/ingo-eichhorst/echolysis/internal/lang"
)

// EngineSink receives clone candidates as Compute walks a tree. The engine
// implements this to populate hash_index/node_hash (§4.4); tests can use a
// trivial in-memory sink.
type EngineSink interface {
	// Register records that node's subtree fingerprint is h. Called at
	// most once per node, only for Interesting nodes whose cognitive
	// complexity clears the profile's threshold.
	Register(h uint64, node *Node)
}

// frame is one entry of the iterative Merkle-hash work stack: the node
// being visited and whether this is its first or second visit (visited ==
// false means "not yet descended into"). Child fingerprints are kept in
// Compute's results map, not in the frame.
type frame struct {
	node    *Node
	visited bool
}

// Compute walks tree bottom-up and returns the root's fingerprint,
// registering every Interesting, complexity-qualifying subtree into sink
// along the way (§4.4). Traversal is iterative -- an explicit work stack
// with a per-frame visited flag -- so hashing never risks exhausting the
// goroutine stack on deeply nested real-world trees.
func Compute(tree *Tree, profile lang.Profile, sink EngineSink) uint64 {
	results := make(map[int]uint64)

	stack := []frame{{node: tree.Root()}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := top.node

		if n.Defective() || profile.KindOf(n.Kind()) == lang.Ignored {
			results[n.ID()] = 0
			continue
		}

		if len(n.Children()) == 0 {
			capture, hasCapture := n.Capture()
			results[n.ID()] = profile.LeafHash(n.Kind(), capture, hasCapture, []byte(n.Text()))
			continue
		}

		if !top.visited {
			stack = append(stack, frame{node: n, visited: true})
			for _, c := range n.Children() {
				stack = append(stack, frame{node: c})
			}
			continue
		}

		var h uint64
		for _, c := range n.Children() {
			h = hash.Combine(h, results[c.ID()])
		}

		if profile.KindOf(n.Kind()) == lang.Interesting && cognitiveComplexity(n, profile) >= profile.ComplexityThreshold() {
			sink.Register(h, n)
		}

		results[n.ID()] = h
	}

	return results[tree.Root().ID()]
}

// cognitiveComplexity sums the profile's declared weight for n and every
// descendant of n; kinds with no declared weight contribute 0.
func cognitiveComplexity(n *Node, profile lang.Profile) float64 {
	total := profile.ComplexityWeight(n.Kind())
	for _, d := range n.Descendants() {
		total += profile.ComplexityWeight(d.Kind())
	}
	return total
}
