package memory

import "math"

// Stats exposes operation counters for observability. Diagnostic only;
// nothing reads these to make decisions. Eviction and decay are
// expected maintenance, observable only here.
type Stats struct {
	Size        int     `json:"size"`
	Capacity    int     `json:"capacity"`
	Utilization float64 `json:"utilization"`

	IndexBuckets int `json:"index_buckets"`

	Adds           uint64 `json:"adds"`
	Searches       uint64 `json:"searches"`
	CacheHits      uint64 `json:"cache_hits"`
	Reinforcements uint64 `json:"reinforcements"`
	Rebuilds       uint64 `json:"rebuilds"`
	Pruned         uint64 `json:"pruned"`
	Repairs        uint64 `json:"repairs"`

	Reinforcer ReinforcerCounts `json:"reinforcer"`
}

// Stats returns a snapshot of the operation counters.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Size:           s.arena.len(),
		Capacity:       s.cfg.MaxCapacity,
		Utilization:    float64(s.arena.len()) / float64(s.cfg.MaxCapacity),
		IndexBuckets:   s.index.size(),
		Adds:           s.counters.adds,
		Searches:       s.counters.searches,
		CacheHits:      s.counters.cacheHits,
		Reinforcements: s.counters.reinforcements,
		Rebuilds:       s.counters.rebuilds,
		Pruned:         s.counters.pruned,
		Repairs:        s.counters.repairs,
		Reinforcer:     s.reinforcer.Counts(),
	}
}

// HealthReport summarizes the reinforcement and access distribution of
// the stored nodes.
type HealthReport struct {
	Status string `json:"status"`
	Nodes  int    `json:"nodes"`

	AvgReinforcement float64 `json:"avg_reinforcement,omitempty"`
	MaxReinforcement float64 `json:"max_reinforcement,omitempty"`
	MinReinforcement float64 `json:"min_reinforcement,omitempty"`

	AvgAccessCount float64 `json:"avg_access_count,omitempty"`
	MostAccessed   int64   `json:"most_accessed,omitempty"`

	Utilization float64 `json:"utilization"`

	// IndexEfficiency is occupied buckets over node count; 1.0 means
	// no bucket collisions at all.
	IndexEfficiency float64 `json:"index_efficiency,omitempty"`
}

// Health generates a distribution report over the current node set.
func (s *Store) Health() HealthReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.arena.len()
	if n == 0 {
		return HealthReport{Status: "empty"}
	}

	rep := HealthReport{
		Status:           "healthy",
		Nodes:            n,
		MinReinforcement: math.MaxFloat64,
		Utilization:      float64(n) / float64(s.cfg.MaxCapacity),
		IndexEfficiency:  float64(s.index.size()) / float64(n),
	}

	var sumReinf float64
	var sumAccess int64
	for _, in := range s.arena.live() {
		r := in.node.Reinforcement
		sumReinf += r
		if r > rep.MaxReinforcement {
			rep.MaxReinforcement = r
		}
		if r < rep.MinReinforcement {
			rep.MinReinforcement = r
		}
		sumAccess += in.node.AccessCount
		if in.node.AccessCount > rep.MostAccessed {
			rep.MostAccessed = in.node.AccessCount
		}
	}
	rep.AvgReinforcement = sumReinf / float64(n)
	rep.AvgAccessCount = float64(sumAccess) / float64(n)
	return rep
}
