// Package memory implements a capacity-bounded associative memory index.
//
// Text entries are encoded into fixed-length numeric fingerprints, grouped
// into hash buckets for approximate retrieval, and ranked by a combined
// similarity/reinforcement score. Entries that fall below a reinforcement
// threshold and go unaccessed past a retention window become eligible for
// eviction when the store is full.
package memory

import (
	"errors"
	"time"
)

// Input validation errors. All are expected caller mistakes and are
// reported synchronously, never retried.
var (
	// ErrBadVector indicates a fingerprint with the wrong dimensionality.
	ErrBadVector = errors.New("memory: vector dimension mismatch")

	// ErrBadCapacity indicates a non-positive max capacity.
	ErrBadCapacity = errors.New("memory: max capacity must be positive")

	// ErrNegativeAmount indicates a negative strengthen/weaken amount.
	ErrNegativeAmount = errors.New("memory: reinforcement amount must not be negative")
)

// ErrIndexCorrupt reports a store/index inconsistency detected after a
// rebuild. It should be unreachable; when it surfaces the index has
// already been force-rebuilt and the store is usable again.
var ErrIndexCorrupt = errors.New("memory: index inconsistent with node set")

// NodeID is a stable handle for a stored node. It packs an arena slot
// position with a generation counter, so an id held across an eviction
// is detectably stale rather than silently pointing at a new node.
type NodeID uint64

func makeNodeID(pos, gen uint32) NodeID {
	return NodeID(uint64(gen)<<32 | uint64(pos))
}

func (id NodeID) pos() uint32 { return uint32(id) }
func (id NodeID) gen() uint32 { return uint32(id >> 32) }

// DefaultLabel is assigned to nodes added without an explicit label.
const DefaultLabel = "generic"

// Node is the unit of storage. Text and Vector are immutable once
// created; Reinforcement, AccessCount and LastAccessed are the only
// fields mutated over a node's lifetime.
type Node struct {
	// UID is an opaque globally-unique identifier, distinct from the
	// positional NodeID handle.
	UID string `json:"uid"`

	Text   string `json:"text"`
	Vector Vector `json:"vector"`
	Label  string `json:"label"`

	// Reinforcement accumulates relevance strength. Starts at 1.0,
	// never drops below 0.
	Reinforcement float64 `json:"reinforcement"`

	// AccessCount increments on every retrieval hit.
	AccessCount int64 `json:"access_count"`

	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`

	// Metadata is an open key/value bag owned by the caller; the store
	// never inspects it.
	Metadata map[string]any `json:"metadata,omitempty"`

	// seq is the creation sequence number, used for deterministic
	// tie-breaking (first-inserted wins) and bucket ordering.
	seq uint64
}

// clone returns a snapshot safe to hand to callers.
func (n *Node) clone() Node {
	c := *n
	c.Vector = append(Vector(nil), n.Vector...)
	if n.Metadata != nil {
		c.Metadata = make(map[string]any, len(n.Metadata))
		for k, v := range n.Metadata {
			c.Metadata[k] = v
		}
	}
	return c
}

// SearchHit is a ranked search result.
type SearchHit struct {
	ID    NodeID  `json:"id"`
	Score float64 `json:"score"`
}

// TextHit is a ranked search result carrying the matched phrase.
type TextHit struct {
	ID    NodeID  `json:"id"`
	Score float64 `json:"score"`
	Text  string  `json:"text"`
}
