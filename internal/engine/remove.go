package engine

import "github.com/ingo-eichhorst/echolysis/internal/index"

// Remove drops path's tree, if any, and unwinds every fingerprint
// registration it contributed from hash_index/node_hash. Removing a path
// that was never inserted is a no-op, not an error.
func (e *Engine) Remove(path string) {
	shard := e.treeShardFor(path)

	shard.mu.Lock()
	tree, ok := shard.trees[path]
	if ok {
		delete(shard.trees, path)
	}
	shard.mu.Unlock()

	if !ok {
		return
	}

	e.removeTreeFingerprints(tree)
}

// removeTreeFingerprints walks every node of tree and, for each one that
// was registered as a clone candidate, removes it from its hash bucket and
// from node_hash. Unregistered nodes (Normal/Ignored kinds, or Interesting
// nodes below the complexity threshold) are simply absent from node_hash
// and skipped.
func (e *Engine) removeTreeFingerprints(tree *index.Tree) {
	all := append([]*index.Node{tree.Root()}, tree.Root().Descendants()...)

	for _, n := range all {
		e.nodeHashMu.Lock()
		h, registered := e.nodeHash[n]
		if registered {
			delete(e.nodeHash, n)
		}
		e.nodeHashMu.Unlock()

		if !registered {
			continue
		}

		shard := e.hashShardFor(h)
		shard.mu.Lock()
		if set, ok := shard.groups[h]; ok {
			delete(set, n)
			if len(set) == 0 {
				delete(shard.groups, h)
			}
		}
		shard.mu.Unlock()
	}
}

// RemoveMany removes a batch of paths across the worker pool.
func (e *Engine) RemoveMany(paths []string) {
	sem := make(chan struct{}, workerCount)
	done := make(chan struct{}, len(paths))
	for _, p := range paths {
		p := p
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; done <- struct{}{} }()
			e.Remove(p)
		}()
	}
	for range paths {
		<-done
	}
}

// RemoveAll clears every indexed file and fingerprint from the engine.
func (e *Engine) RemoveAll() {
	for _, shard := range e.treeShards {
		shard.mu.Lock()
		shard.trees = make(map[string]*index.Tree)
		shard.mu.Unlock()
	}
	for _, shard := range e.hashShards {
		shard.mu.Lock()
		shard.groups = make(map[uint64]map[*index.Node]struct{})
		shard.mu.Unlock()
	}
	e.nodeHashMu.Lock()
	e.nodeHash = make(map[*index.Node]uint64)
	e.nodeHashMu.Unlock()
}
