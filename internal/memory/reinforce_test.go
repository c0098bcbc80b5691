package memory

import (
	"errors"
	"testing"
	"time"
)

// testReinforcer wires a fixed clock into the controller.
func testReinforcer(threshold float64, window time.Duration, now time.Time) *Reinforcer {
	r := NewReinforcer(threshold, window)
	r.now = func() time.Time { return now }
	return r
}

func TestStrengthen(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := testReinforcer(0.2, 7*24*time.Hour, base)

	t.Run("accumulates", func(t *testing.T) {
		n := &Node{Reinforcement: 1.0}
		for i := 0; i < 3; i++ {
			if err := r.Strengthen(n, 0.5); err != nil {
				t.Fatalf("Strengthen() error = %v", err)
			}
		}
		if n.Reinforcement != 2.5 {
			t.Errorf("Reinforcement = %v, want 2.5", n.Reinforcement)
		}
	})

	t.Run("marks accessed", func(t *testing.T) {
		n := &Node{Reinforcement: 1.0}
		if err := r.Strengthen(n, 0.1); err != nil {
			t.Fatalf("Strengthen() error = %v", err)
		}
		if !n.LastAccessed.Equal(base) {
			t.Errorf("LastAccessed = %v, want %v", n.LastAccessed, base)
		}
	})

	t.Run("rounds to three decimals", func(t *testing.T) {
		n := &Node{Reinforcement: 1.0}
		if err := r.Strengthen(n, 0.0004); err != nil {
			t.Fatalf("Strengthen() error = %v", err)
		}
		if n.Reinforcement != 1.0 {
			t.Errorf("Reinforcement = %v, want 1.0", n.Reinforcement)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		n := &Node{Reinforcement: 1.0}
		err := r.Strengthen(n, -0.1)
		if !errors.Is(err, ErrNegativeAmount) {
			t.Errorf("Strengthen() error = %v, want ErrNegativeAmount", err)
		}
		if n.Reinforcement != 1.0 {
			t.Errorf("Reinforcement changed on rejected call: %v", n.Reinforcement)
		}
	})
}

func TestWeaken(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := testReinforcer(0.2, 7*24*time.Hour, base)

	t.Run("lowers", func(t *testing.T) {
		n := &Node{Reinforcement: 1.0}
		if err := r.Weaken(n, 0.3); err != nil {
			t.Fatalf("Weaken() error = %v", err)
		}
		if n.Reinforcement != 0.7 {
			t.Errorf("Reinforcement = %v, want 0.7", n.Reinforcement)
		}
	})

	t.Run("floors at zero", func(t *testing.T) {
		n := &Node{Reinforcement: 0.03}
		if err := r.Weaken(n, 0.05); err != nil {
			t.Fatalf("Weaken() error = %v", err)
		}
		if n.Reinforcement != 0 {
			t.Errorf("Reinforcement = %v, want 0", n.Reinforcement)
		}
	})

	t.Run("does not touch access time", func(t *testing.T) {
		accessed := base.Add(-time.Hour)
		n := &Node{Reinforcement: 1.0, LastAccessed: accessed}
		if err := r.Weaken(n, 0.1); err != nil {
			t.Fatalf("Weaken() error = %v", err)
		}
		if !n.LastAccessed.Equal(accessed) {
			t.Errorf("LastAccessed = %v, want %v", n.LastAccessed, accessed)
		}
	})

	t.Run("negative amount", func(t *testing.T) {
		n := &Node{Reinforcement: 1.0}
		if err := r.Weaken(n, -0.1); !errors.Is(err, ErrNegativeAmount) {
			t.Errorf("Weaken() error = %v, want ErrNegativeAmount", err)
		}
	})
}

func TestShouldDecay(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour

	tests := []struct {
		name          string
		reinforcement float64
		idle          time.Duration
		want          bool
	}{
		{"weak and stale", 0.1, 8 * 24 * time.Hour, true},
		{"weak but recently used", 0.1, time.Hour, false},
		{"strong but stale", 0.9, 8 * 24 * time.Hour, false},
		{"strong and fresh", 0.9, time.Hour, false},
		{"at threshold", 0.2, 8 * 24 * time.Hour, false},
		{"idle equals window exactly", 0.1, window, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testReinforcer(0.2, window, base)
			n := &Node{
				Reinforcement: tt.reinforcement,
				LastAccessed:  base.Add(-tt.idle),
			}
			if got := r.ShouldDecay(n); got != tt.want {
				t.Errorf("ShouldDecay() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("falls back to creation time", func(t *testing.T) {
		r := testReinforcer(0.2, window, base)
		n := &Node{
			Reinforcement: 0.1,
			CreatedAt:     base.Add(-8 * 24 * time.Hour),
		}
		if !r.ShouldDecay(n) {
			t.Error("ShouldDecay() = false for never-accessed stale node")
		}
	})
}

func TestApplyDecay(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	window := 7 * 24 * time.Hour

	t.Run("soft pass erodes", func(t *testing.T) {
		r := testReinforcer(0.2, window, base)
		n := &Node{Reinforcement: 0.1, LastAccessed: base.Add(-8 * 24 * time.Hour)}
		if got := r.ApplyDecay(n, true); got != DecayRetain {
			t.Errorf("ApplyDecay(soft) = %v, want DecayRetain", got)
		}
		if n.Reinforcement != 0.05 {
			t.Errorf("Reinforcement = %v, want 0.05", n.Reinforcement)
		}
	})

	t.Run("hard pass retires", func(t *testing.T) {
		r := testReinforcer(0.2, window, base)
		n := &Node{Reinforcement: 0.1, LastAccessed: base.Add(-8 * 24 * time.Hour)}
		if got := r.ApplyDecay(n, false); got != DecayRetire {
			t.Errorf("ApplyDecay(hard) = %v, want DecayRetire", got)
		}
		if n.Reinforcement != 0.1 {
			t.Errorf("hard pass mutated reinforcement: %v", n.Reinforcement)
		}
	})

	t.Run("ineligible node untouched", func(t *testing.T) {
		r := testReinforcer(0.2, window, base)
		n := &Node{Reinforcement: 0.9, LastAccessed: base}
		if got := r.ApplyDecay(n, true); got != DecayRetain {
			t.Errorf("ApplyDecay() = %v, want DecayRetain", got)
		}
		if n.Reinforcement != 0.9 {
			t.Errorf("Reinforcement = %v, want 0.9", n.Reinforcement)
		}
	})
}

func TestReinforcerCounts(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := testReinforcer(0.2, 7*24*time.Hour, base)

	n := &Node{Reinforcement: 1.0, LastAccessed: base}
	_ = r.Strengthen(n, 0.1)
	_ = r.Strengthen(n, 0.1)
	_ = r.Weaken(n, 0.1)
	r.ShouldDecay(n)

	got := r.Counts()
	if got.Strengthen != 2 {
		t.Errorf("Strengthen count = %d, want 2", got.Strengthen)
	}
	if got.Weaken != 1 {
		t.Errorf("Weaken count = %d, want 1", got.Weaken)
	}
	if got.DecayChecks != 1 {
		t.Errorf("DecayChecks count = %d, want 1", got.DecayChecks)
	}
}
