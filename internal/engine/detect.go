package engine

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ingo-eichhorst/echolysis/internal/index"
)

// CloneGroup is one maximal set of structurally equivalent subtrees: two or
// more nodes sharing a fingerprint, with neither a subtree of the other
// member of any other reported group (§4.6).
type CloneGroup struct {
	Fingerprint uint64
	Members     []*index.Node
}

// snapshotGroups copies every fingerprint bucket with at least two members
// out of the sharded hash index, one shard at a time under its own lock, so
// the rest of detection runs against a stable view.
func (e *Engine) snapshotGroups() []CloneGroup {
	results := make([][]CloneGroup, len(e.hashShards))
	g := new(errgroup.Group)
	for i, shard := range e.hashShards {
		i, shard := i, shard
		g.Go(func() error {
			shard.mu.RLock()
			defer shard.mu.RUnlock()

			var local []CloneGroup
			for h, set := range shard.groups {
				if len(set) < 2 {
					continue
				}
				members := make([]*index.Node, 0, len(set))
				for n := range set {
					members = append(members, n)
				}
				local = append(local, CloneGroup{Fingerprint: h, Members: members})
			}
			results[i] = local
			return nil
		})
	}
	_ = g.Wait()

	var all []CloneGroup
	for _, local := range results {
		all = append(all, local...)
	}
	return all
}

// DetectDuplicates returns every maximal clone group currently indexed,
// across all files, sorted by descending member count then ascending
// fingerprint for stable output, truncated to limit groups (0 means
// unlimited).
//
// A group is maximal when none of its members is a descendant of a member
// of any other group: a duplicated outer block also yields fingerprint
// matches for each of its duplicated inner statements, and reporting both
// is pure noise. The filter computes the union of every group member's
// transitive descendants and drops group members that fall in that set,
// which is exactly the "swallow anything nested under a reported clone"
// rule of §4.6, generalized to an arbitrary nesting depth rather than one
// level.
func (e *Engine) DetectDuplicates(limit int) []CloneGroup {
	groups := e.snapshotGroups()
	if len(groups) == 0 {
		return nil
	}

	nested := make(map[*index.Node]struct{})
	for _, g := range groups {
		for _, member := range g.Members {
			for _, d := range member.Descendants() {
				nested[d] = struct{}{}
			}
		}
	}

	var filtered []CloneGroup
	for _, g := range groups {
		kept := g.Members[:0:0]
		for _, member := range g.Members {
			if _, isNested := nested[member]; !isNested {
				kept = append(kept, member)
			}
		}
		if len(kept) >= 2 {
			filtered = append(filtered, CloneGroup{Fingerprint: g.Fingerprint, Members: kept})
		}
	}

	for _, g := range filtered {
		sort.Slice(g.Members, func(i, j int) bool {
			if g.Members[i].Path() != g.Members[j].Path() {
				return g.Members[i].Path() < g.Members[j].Path()
			}
			si, _ := g.Members[i].ByteRange()
			sj, _ := g.Members[j].ByteRange()
			return si < sj
		})
	}

	sort.Slice(filtered, func(i, j int) bool {
		if len(filtered[i].Members) != len(filtered[j].Members) {
			return len(filtered[i].Members) > len(filtered[j].Members)
		}
		return filtered[i].Fingerprint < filtered[j].Fingerprint
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return filtered
}
