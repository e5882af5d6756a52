package engine

import "github.com/ingo-eichhorst/echolysis/internal/index"

// NodeAt returns the most specific registered clone-candidate node at path
// whose source range contains the given byte offset, along with the other
// members of its clone group. It returns false if path isn't indexed, or
// no registered node encloses offset.
//
// "Most specific" walks from the root toward offset, keeping the deepest
// node seen so far that has an entry in node_hash; an offset inside a
// duplicated outer block but outside any duplicated inner statement
// resolves to the outer block, matching how a single click in an editor
// should jump to the smallest enclosing duplicate.
func (e *Engine) NodeAt(path string, offset int) (*index.Node, []*index.Node, bool) {
	shard := e.treeShardFor(path)
	shard.mu.RLock()
	tree, ok := shard.trees[path]
	shard.mu.RUnlock()
	if !ok {
		return nil, nil, false
	}

	var best *index.Node
	n := tree.Root()
	for {
		start, end := n.ByteRange()
		if offset < start || offset >= end {
			break
		}
		if e.isRegistered(n) {
			best = n
		}

		next := childContaining(n, offset)
		if next == nil {
			break
		}
		n = next
	}

	if best == nil {
		return nil, nil, false
	}

	members := e.groupMembers(best)
	return best, members, true
}

// ByteOffset converts a zero-based (row, column) source position into a
// byte offset within path's last-indexed content, or false if path isn't
// indexed or the position falls past the end of the file.
func (e *Engine) ByteOffset(path string, row, col int) (int, bool) {
	shard := e.treeShardFor(path)
	shard.mu.RLock()
	tree, ok := shard.trees[path]
	shard.mu.RUnlock()
	if !ok {
		return 0, false
	}

	source := tree.Source()
	line := 0
	lineStart := 0
	for i, b := range source {
		if line == row {
			offset := lineStart + col
			if offset > len(source) {
				return 0, false
			}
			return offset, true
		}
		if b == '\n' {
			line++
			lineStart = i + 1
		}
	}
	if line == row {
		offset := lineStart + col
		if offset > len(source) {
			return 0, false
		}
		return offset, true
	}
	return 0, false
}

func childContaining(n *index.Node, offset int) *index.Node {
	for _, c := range n.Children() {
		start, end := c.ByteRange()
		if offset >= start && offset < end {
			return c
		}
	}
	return nil
}

func (e *Engine) isRegistered(n *index.Node) bool {
	e.nodeHashMu.RLock()
	defer e.nodeHashMu.RUnlock()
	_, ok := e.nodeHash[n]
	return ok
}

// groupMembers returns every node sharing n's fingerprint, n included.
func (e *Engine) groupMembers(n *index.Node) []*index.Node {
	e.nodeHashMu.RLock()
	h, ok := e.nodeHash[n]
	e.nodeHashMu.RUnlock()
	if !ok {
		return nil
	}

	shard := e.hashShardFor(h)
	shard.mu.RLock()
	defer shard.mu.RUnlock()

	set := shard.groups[h]
	members := make([]*index.Node, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	return members
}
