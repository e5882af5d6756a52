// Package engine implements the concurrent duplicate-detection index (C5):
// a map of files to indexed trees, an inverted fingerprint index, and the
// insert/remove/detect operations that keep them consistent under
// concurrent access.
package engine

import (
	"hash/fnv"
	"sync"

	"github.com/ingo-eichhorst/echolysis/internal/index"
	"github.com/ingo-eichhorst/echolysis/internal/lang"
)

// numShards bounds lock contention on the concurrent maps: mutations on
// distinct shards proceed without blocking each other, matching §5's
// requirement that trees/hash_index/node_hash support per-bucket locking
// rather than one global mutex.
const numShards = 32

// workerCount is the reference worker-pool size from §5.
const workerCount = 8

type treeShard struct {
	mu    sync.RWMutex
	trees map[string]*index.Tree
}

type hashShard struct {
	mu     sync.RWMutex
	groups map[uint64]map[*index.Node]struct{}
}

// Engine is a concurrent map of file paths to indexed trees plus the
// inverted fingerprint → node-set index, for one language profile.
type Engine struct {
	profile lang.Profile

	treeShards [numShards]*treeShard
	hashShards [numShards]*hashShard

	nodeHashMu sync.RWMutex
	nodeHash   map[*index.Node]uint64
}

// New creates an empty Engine for the given language profile.
func New(profile lang.Profile) *Engine {
	e := &Engine{
		profile:  profile,
		nodeHash: make(map[*index.Node]uint64),
	}
	for i := range e.treeShards {
		e.treeShards[i] = &treeShard{trees: make(map[string]*index.Tree)}
	}
	for i := range e.hashShards {
		e.hashShards[i] = &hashShard{groups: make(map[uint64]map[*index.Node]struct{})}
	}
	return e
}

// Language returns the id of the profile this engine was created for.
func (e *Engine) Language() string { return e.profile.ID() }

func (e *Engine) treeShardFor(path string) *treeShard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return e.treeShards[h.Sum32()%numShards]
}

func (e *Engine) hashShardFor(fingerprint uint64) *hashShard {
	return e.hashShards[fingerprint%numShards]
}

// FileCount returns the number of files currently indexed, for diagnostics.
func (e *Engine) FileCount() int {
	total := 0
	for _, shard := range e.treeShards {
		shard.mu.RLock()
		total += len(shard.trees)
		shard.mu.RUnlock()
	}
	return total
}
