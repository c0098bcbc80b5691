package memory

import (
	"math"
	"sort"

	"github.com/engramlabs/engram/internal/metrics"
)

// evict removes the weakest/stalest nodes and rebuilds the index.
// Caller must hold the write lock.
//
// Decay-eligible nodes are removed weakest-first, stalest-first, up to
// 10% of the store. When nothing is eligible the single globally
// weakest node is force-evicted instead, so an Add following this pass
// can never push the store past capacity.
func (s *Store) evict() int {
	live := s.arena.live()
	if len(live) == 0 {
		return 0
	}

	eligible := make([]indexedNode, 0, len(live))
	for _, in := range live {
		if s.reinforcer.ShouldDecay(in.node) {
			eligible = append(eligible, in)
		}
	}
	sortWeakestFirst(eligible)

	removal := int(math.Ceil(float64(len(live)) * 0.1))
	if removal < 1 {
		removal = 1
	}
	if removal > len(eligible) {
		removal = len(eligible)
	}
	victims := eligible[:removal]

	if len(victims) == 0 {
		sortWeakestFirst(live)
		victims = live[:1]
	}

	for _, v := range victims {
		s.arena.remove(v.id)
	}
	s.rebuildIndex()

	s.counters.pruned += uint64(len(victims))
	s.cache.clear()

	metrics.AddCounter(metrics.MetricNodesPrunedTotal, int64(len(victims)))
	return len(victims)
}

// sortWeakestFirst orders nodes by (reinforcement asc, last access
// asc, creation order) so the weakest and, among equals, stalest node
// comes first.
func sortWeakestFirst(nodes []indexedNode) {
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i].node, nodes[j].node
		if a.Reinforcement != b.Reinforcement {
			return a.Reinforcement < b.Reinforcement
		}
		if !a.LastAccessed.Equal(b.LastAccessed) {
			return a.LastAccessed.Before(b.LastAccessed)
		}
		return a.seq < b.seq
	})
}

// rebuildIndex recomputes every bucket from the surviving node set and
// verifies the result. Caller must hold the write lock.
func (s *Store) rebuildIndex() {
	nodes := s.arena.live()
	s.index.rebuild(nodes)
	s.counters.rebuilds++
	metrics.IncCounter(metrics.MetricIndexRebuildsTotal)

	if err := s.index.verify(s.arena.live()); err != nil {
		// Unreachable if the eviction logic is correct. Log, rebuild
		// once more and keep serving rather than aborting.
		s.log.Error("post-rebuild check failed, repairing: %v", err)
		s.index.rebuild(s.arena.live())
		s.counters.repairs++
	}
}
