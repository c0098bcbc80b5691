package memory

import "time"

// Default reinforcement adjustment amounts.
const (
	DefaultStrengthenAmount = 0.1
	DefaultWeakenAmount     = 0.05
)

// DecayOutcome is the verdict of a decay pass over a single node.
type DecayOutcome int

const (
	// DecayRetain keeps the node (possibly after a soft weaken).
	DecayRetain DecayOutcome = iota

	// DecayRetire signals that the eviction pass should remove the node.
	DecayRetire
)

// ReinforcerCounts tracks reinforcement operations for diagnostics.
type ReinforcerCounts struct {
	Strengthen   uint64 `json:"strengthen"`
	Weaken       uint64 `json:"weaken"`
	DecayChecks  uint64 `json:"decay_checks"`
	DecayApplied uint64 `json:"decay_applied"`
}

// Reinforcer mutates node reinforcement state and decides decay
// eligibility. It knows nothing about the store or index, so it can be
// exercised in isolation against synthetic nodes and clocks. Callers
// are responsible for serializing access.
type Reinforcer struct {
	decayThreshold  float64
	retentionWindow time.Duration

	counts ReinforcerCounts

	now func() time.Time
}

// NewReinforcer creates a controller with the given decay policy.
func NewReinforcer(decayThreshold float64, retentionWindow time.Duration) *Reinforcer {
	return &Reinforcer{
		decayThreshold:  decayThreshold,
		retentionWindow: retentionWindow,
		now:             time.Now,
	}
}

// Strengthen raises a node's reinforcement and marks it accessed.
// There is no upper bound.
func (r *Reinforcer) Strengthen(n *Node, amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	n.Reinforcement = round3(n.Reinforcement + amount)
	n.LastAccessed = r.now()
	r.counts.Strengthen++
	return nil
}

// Weaken lowers a node's reinforcement, flooring at zero. It does not
// touch the access timestamp.
func (r *Reinforcer) Weaken(n *Node, amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	n.Reinforcement = round3(max(0, n.Reinforcement-amount))
	r.counts.Weaken++
	return nil
}

// ShouldDecay reports whether a node is eligible for removal. Both
// conditions are required: a weak-but-recently-used node is not
// eligible, and neither is a strong-but-stale one.
func (r *Reinforcer) ShouldDecay(n *Node) bool {
	r.counts.DecayChecks++

	last := n.LastAccessed
	if last.IsZero() {
		last = n.CreatedAt
	}
	idle := r.now().Sub(last)

	return n.Reinforcement < r.decayThreshold && idle > r.retentionWindow
}

// ApplyDecay runs a decay pass over one node. A soft pass only erodes
// the node's reinforcement (erode before removing); a hard pass
// signals retirement for the eviction manager to act on.
func (r *Reinforcer) ApplyDecay(n *Node, soft bool) DecayOutcome {
	if !r.ShouldDecay(n) {
		return DecayRetain
	}
	r.counts.DecayApplied++
	if soft {
		_ = r.Weaken(n, DefaultWeakenAmount)
		return DecayRetain
	}
	return DecayRetire
}

// Counts returns a copy of the operation counters.
func (r *Reinforcer) Counts() ReinforcerCounts {
	return r.counts
}
