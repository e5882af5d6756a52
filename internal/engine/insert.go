package engine

import (
	"golang.org/x/sync/errgroup"

	"github.com/ingo-eichhorst/echolysis/internal/index"
)

// FileSource is one (path, source bytes) pair for a batch insert.
type FileSource struct {
	Path   string
	Source []byte
}

// registration is one pending (fingerprint, node) pair collected while
// hashing a new tree, before it is merged into the engine's shared state.
type registration struct {
	hash uint64
	node *index.Node
}

// stagingSink buffers Compute's registrations instead of writing them
// straight into the engine, so the old tree's contributions for the same
// path can be removed only after the new tree is fully built and hashed --
// the ordering the replacement policy in §4.5 requires to avoid a reader
// ever observing a mix of old and new fingerprints for one file.
type stagingSink struct {
	registrations []registration
}

func (s *stagingSink) Register(h uint64, n *index.Node) {
	s.registrations = append(s.registrations, registration{hash: h, node: n})
}

// Insert parses and indexes source, replacing any prior tree for path
// atomically with respect to readers. If the parser yields no tree, any
// existing tree for path is removed and Insert returns false; this is the
// "parse failure" branch of the error taxonomy (§7), not an exception.
func (e *Engine) Insert(path string, source []byte) bool {
	parser := e.profile.NewParser()
	defer parser.Close()

	tsTree := parser.Parse(source, nil)
	if tsTree == nil {
		e.Remove(path)
		return false
	}
	defer tsTree.Close()

	tree := index.Build(path, source, tsTree, e.profile)

	staging := &stagingSink{}
	index.Compute(tree, e.profile, staging)

	// Remove the old tree's contributions only now that the new tree's
	// fingerprints are fully computed off to the side: a concurrent
	// detect_duplicates can only ever see all-old or all-new for path.
	e.Remove(path)

	for _, reg := range staging.registrations {
		e.registerFingerprint(reg.hash, reg.node)
	}

	shard := e.treeShardFor(path)
	shard.mu.Lock()
	shard.trees[path] = tree
	shard.mu.Unlock()

	return true
}

// registerFingerprint merges one (fingerprint, node) pair into the shared
// hash_index and node_hash maps.
func (e *Engine) registerFingerprint(h uint64, n *index.Node) {
	shard := e.hashShardFor(h)
	shard.mu.Lock()
	set, ok := shard.groups[h]
	if !ok {
		set = make(map[*index.Node]struct{})
		shard.groups[h] = set
	}
	set[n] = struct{}{}
	shard.mu.Unlock()

	e.nodeHashMu.Lock()
	e.nodeHash[n] = h
	e.nodeHashMu.Unlock()
}

// InsertMany inserts a batch of files across the worker pool. Per-file
// failures are isolated -- one file's parse failure never aborts the rest
// of the batch.
func (e *Engine) InsertMany(items []FileSource) {
	g := new(errgroup.Group)
	g.SetLimit(workerCount)
	for _, item := range items {
		item := item
		g.Go(func() error {
			e.Insert(item.Path, item.Source)
			return nil
		})
	}
	_ = g.Wait()
}
