package index

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ingo-eichhorst/echolysis/internal/lang"
)

// Tree is the owning wrapper around one file's indexed root node (C3).
// Once built it is immutable and safe to share across goroutines without
// synchronization.
type Tree struct {
	path string
	root *Node
}

// Path returns the file path this tree was built from.
func (t *Tree) Path() string { return t.path }

// Root returns the tree's root node.
func (t *Tree) Root() *Node { return t.root }

// Source returns the full file content the tree was built from.
func (t *Tree) Source() []byte { return t.root.source }

// stackFrame is one entry of the iterative post-order construction walk.
type stackFrame struct {
	node      *sitter.Node
	processed bool
}

// Build constructs an IndexedTree from a freshly parsed tree-sitter tree in
// a single iterative post-order pass: a node's IndexedNode is created only
// after all of its children have been built (§4.3). The recursion is
// expressed with an explicit work stack -- a per-frame "processed" flag
// standing in for the children-visited counter -- because real-world parse
// trees exceed typical goroutine stack growth assumptions under recursive
// construction.
func Build(path string, source []byte, tree *sitter.Tree, profile lang.Profile) *Tree {
	root := tree.RootNode()
	captureOf := collectCaptures(profile, root, source)

	stack := []stackFrame{{node: root}}
	childrenOf := make(map[uintptr][]*Node)
	nextID := 0
	var builtRoot *Node

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !top.processed {
			stack = append(stack, stackFrame{node: top.node, processed: true})
			count := top.node.ChildCount()
			for i := int(count) - 1; i >= 0; i-- {
				stack = append(stack, stackFrame{node: top.node.Child(uint(i))})
			}
			continue
		}

		key := top.node.Id()
		capture, hasCapture := captureOf[key]
		built := &Node{
			id:         nextID,
			path:       path,
			source:     source,
			kind:       top.node.Kind(),
			capture:    capture,
			hasCapture: hasCapture,
			children:   childrenOf[key],
			startByte:  int(top.node.StartByte()),
			endByte:    int(top.node.EndByte()),
			start:      toPoint(top.node.StartPosition()),
			end:        toPoint(top.node.EndPosition()),
			defective:  top.node.IsError() || top.node.IsMissing() || top.node.IsExtra(),
		}
		nextID++

		if parent := top.node.Parent(); parent != nil {
			pKey := parent.Id()
			childrenOf[pKey] = append(childrenOf[pKey], built)
		}
		builtRoot = built
	}

	return &Tree{path: path, root: builtRoot}
}

func toPoint(p sitter.Point) Point {
	return Point{Row: int(p.Row), Column: int(p.Column)}
}

// collectCaptures runs the profile's highlight query once over the whole
// tree and returns, for every node id a capture matched, the name of the
// last capture that matched it -- mirroring the "last capture wins" rule a
// single node can satisfy more than one pattern in a highlight query.
func collectCaptures(profile lang.Profile, root *sitter.Node, source []byte) map[uintptr]string {
	result := make(map[uintptr]string)
	names := profile.CaptureNames()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Captures(profile.Query(), root, source)
	for {
		match, captureIndex := matches.Next()
		if match == nil {
			break
		}
		capture := match.Captures[captureIndex]
		if int(capture.Index) < len(names) {
			result[capture.Node.Id()] = names[capture.Index]
		}
	}
	return result
}
