package memory

import (
	"testing"
	"time"
)

func TestEvict(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("capacity holds across overflow", func(t *testing.T) {
		s, err := New(Config{MaxCapacity: 2})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		for _, p := range []string{"first", "second", "third"} {
			if _, err := s.Add(p, AddOptions{}); err != nil {
				t.Fatalf("Add(%q) error = %v", p, err)
			}
			if s.Len() > 2 {
				t.Fatalf("Len() = %d after adding %q, capacity bound violated", s.Len(), p)
			}
		}
		if s.Len() != 2 {
			t.Errorf("Len() = %d, want 2", s.Len())
		}
	})

	t.Run("force-evicts weakest when nothing is eligible", func(t *testing.T) {
		s, _ := New(Config{MaxCapacity: 3})
		at := base
		withClock(s, &at)

		ids := make([]NodeID, 3)
		for i, p := range []string{"weak", "mid", "strong"} {
			ids[i], _ = s.Add(p, AddOptions{})
		}
		_, _ = s.ReinforceByID(ids[1], 0.5)
		_, _ = s.ReinforceByID(ids[2], 1.0)

		// All nodes fresh, so none is decay-eligible; the overflow add
		// must still land by forcing out the weakest.
		overflow, err := s.Add("overflow", AddOptions{})
		if err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		if _, ok := s.GetNode(ids[0]); ok {
			t.Error("weakest node survived forced eviction")
		}
		if _, ok := s.GetNode(ids[1]); !ok {
			t.Error("stronger node was evicted")
		}
		if _, ok := s.GetNode(overflow); !ok {
			t.Error("overflow node missing after eviction")
		}
		if s.Len() != 3 {
			t.Errorf("Len() = %d, want 3", s.Len())
		}
	})

	t.Run("removes decay-eligible nodes first", func(t *testing.T) {
		s, _ := New(Config{MaxCapacity: 3})
		at := base
		withClock(s, &at)

		stale, _ := s.Add("stale and weak", AddOptions{})
		fresh1, _ := s.Add("kept one", AddOptions{})
		fresh2, _ := s.Add("kept two", AddOptions{})

		// Weaken the first node below the decay threshold, then age
		// everything past the retention window and re-touch the others.
		n := s.arena.get(stale)
		n.Reinforcement = 0.1
		at = base.Add(8 * 24 * time.Hour)
		_, _ = s.ReinforceByID(fresh1, 0)
		_, _ = s.ReinforceByID(fresh2, 0)

		if _, err := s.Add("overflow", AddOptions{}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		if _, ok := s.GetNode(stale); ok {
			t.Error("decay-eligible node survived eviction")
		}
		if _, ok := s.GetNode(fresh1); !ok {
			t.Error("recently used node was evicted")
		}
		if _, ok := s.GetNode(fresh2); !ok {
			t.Error("recently used node was evicted")
		}
	})

	t.Run("removal count is ceil of ten percent", func(t *testing.T) {
		s, _ := New(Config{MaxCapacity: 100})
		at := base
		withClock(s, &at)

		for i := 0; i < 15; i++ {
			id, _ := s.Add("bulk", AddOptions{})
			s.arena.get(id).Reinforcement = 0.1
		}
		at = base.Add(8 * 24 * time.Hour)

		// ceil(15 * 0.1) = 2, everything eligible.
		if removed := s.evict(); removed != 2 {
			t.Errorf("evict() removed %d, want 2", removed)
		}
		if s.Len() != 13 {
			t.Errorf("Len() = %d, want 13", s.Len())
		}
	})

	t.Run("weakest and stalest go first", func(t *testing.T) {
		s, _ := New(Config{MaxCapacity: 100})
		at := base
		withClock(s, &at)

		weakest, _ := s.Add("weakest", AddOptions{})
		weaker, _ := s.Add("weaker", AddOptions{})
		s.arena.get(weakest).Reinforcement = 0.05
		s.arena.get(weaker).Reinforcement = 0.15
		for i := 0; i < 18; i++ {
			id, _ := s.Add("padding", AddOptions{})
			s.arena.get(id).Reinforcement = 0.19
		}
		at = base.Add(8 * 24 * time.Hour)

		// ceil(20 * 0.1) = 2: exactly the two weakest.
		if removed := s.evict(); removed != 2 {
			t.Fatalf("evict() removed %d, want 2", removed)
		}
		if _, ok := s.GetNode(weakest); ok {
			t.Error("weakest node survived")
		}
		if _, ok := s.GetNode(weaker); ok {
			t.Error("second-weakest node survived")
		}
	})

	t.Run("index consistent after eviction", func(t *testing.T) {
		s, _ := New(Config{MaxCapacity: 2})
		_, _ = s.Add("one", AddOptions{})
		_, _ = s.Add("two", AddOptions{})
		_, _ = s.Add("three", AddOptions{})

		if err := s.index.verify(s.arena.live()); err != nil {
			t.Errorf("verify() error = %v", err)
		}
		if got := s.Stats(); got.Rebuilds == 0 {
			t.Error("eviction did not rebuild the index")
		}
	})

	t.Run("evicted id is stale not recycled", func(t *testing.T) {
		s, _ := New(Config{MaxCapacity: 1})
		old, _ := s.Add("evicted", AddOptions{})
		fresh, _ := s.Add("replacement", AddOptions{})

		if _, ok := s.GetNode(old); ok {
			t.Error("GetNode() = true for evicted id")
		}
		if ok, err := s.ReinforceByID(old, 0.1); err != nil || ok {
			t.Errorf("ReinforceByID(stale) = %v, %v; want false, nil", ok, err)
		}
		node, ok := s.GetNode(fresh)
		if !ok || node.Text != "replacement" {
			t.Errorf("fresh id resolves to %v, %v", node.Text, ok)
		}
	})

	t.Run("counts pruned nodes", func(t *testing.T) {
		s, _ := New(Config{MaxCapacity: 1})
		_, _ = s.Add("a", AddOptions{})
		_, _ = s.Add("b", AddOptions{})

		if got := s.Stats(); got.Pruned != 1 {
			t.Errorf("Pruned = %d, want 1", got.Pruned)
		}
	})
}
