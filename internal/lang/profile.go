// Package lang defines the per-language profile contract (C2): parser
// construction, node-kind classification, leaf-hashing obfuscation policy,
// and cognitive-complexity weighting. Concrete profiles live in
// rustlike.go and pythonlike.go; registry.go wires them up by language id.
package lang

import sitter "github.com/tree-sitter/go-tree-sitter"

// NodeTaste classifies a syntax node kind for indexing purposes.
type NodeTaste int

const (
	// Normal nodes contribute to tree structure but are never themselves
	// registered as clone candidates.
	Normal NodeTaste = iota
	// Interesting nodes are eligible for registration once their
	// cognitive complexity clears the profile's threshold.
	Interesting
	// Ignored nodes contribute fingerprint 0 and are never registered
	// (comments, empty statements, doc markers).
	Ignored
)

// Profile exposes everything the indexer and Merkle hasher need to treat
// source text in one language uniformly. All methods are pure; profiles
// hold no per-file state.
type Profile interface {
	// ID is the canonical language identifier (e.g. "rust", "python").
	ID() string

	// NewParser returns a tree-sitter parser configured for this language.
	// Parsers are not safe for concurrent use; callers must serialize
	// access to a single instance or construct one per worker.
	NewParser() *sitter.Parser

	// Query returns the highlight-capture query used to tag leaves for
	// the obfuscation policy in LeafHash.
	Query() *sitter.Query

	// CaptureNames is Query().CaptureNames(), cached by the profile at
	// construction time so callers don't re-derive it per file.
	CaptureNames() []string

	// KindOf classifies a node kind as Normal, Interesting, or Ignored.
	KindOf(kind string) NodeTaste

	// LeafHash computes the 64-bit digest for a childless node, given its
	// kind, the name of the highlight-query capture that matched it (if
	// any), and its exact source-text bytes.
	LeafHash(kind string, capture string, hasCapture bool, text []byte) uint64

	// ComplexityWeight returns the cognitive-complexity contribution of a
	// single node of this kind; kinds with no declared weight return 0.
	ComplexityWeight(kind string) float64

	// ComplexityThreshold is the minimum cognitive complexity an
	// Interesting subtree must reach to be registered as a clone
	// candidate.
	ComplexityThreshold() float64
}
