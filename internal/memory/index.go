package memory

import (
	"fmt"
	"sort"
)

// bucketMod bounds the bucket key space. Prime-ish, chosen for spread
// only; bucket assignment carries no semantic locality. Near-identical
// fingerprints can land in different buckets and unrelated ones can
// collide, trading occasional recall misses for O(bucket) lookups.
const bucketMod = 10007

// bucketKey derives the index bucket for a fingerprint as a weighted
// positional sum of its components.
func bucketKey(v Vector) int {
	var sum int64
	for i, c := range v {
		sum += int64(c) * int64(i+1)
	}
	return int(sum % bucketMod)
}

// bucketIndex maps bucket keys to insertion-ordered node ids.
//
// Invariant: every live node appears in exactly one bucket and every
// id in a bucket refers to a live node. Eviction violates this
// transiently; rebuild is the only operation that restores it.
type bucketIndex struct {
	buckets map[int][]NodeID
}

func newBucketIndex() *bucketIndex {
	return &bucketIndex{buckets: make(map[int][]NodeID)}
}

// insert appends an id to its bucket.
func (ix *bucketIndex) insert(key int, id NodeID) {
	ix.buckets[key] = append(ix.buckets[key], id)
}

// candidates returns the ids sharing a bucket, in insertion order.
// The returned slice is owned by the index and must not be mutated.
func (ix *bucketIndex) candidates(key int) []NodeID {
	return ix.buckets[key]
}

// rebuild discards every bucket and recomputes the index from the
// surviving node set, in creation order.
func (ix *bucketIndex) rebuild(nodes []indexedNode) {
	ix.buckets = make(map[int][]NodeID, len(ix.buckets))
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].node.seq < nodes[j].node.seq
	})
	for _, in := range nodes {
		ix.insert(bucketKey(in.node.Vector), in.id)
	}
}

// size returns the number of occupied buckets.
func (ix *bucketIndex) size() int { return len(ix.buckets) }

// indexedNode pairs a live node with its handle for rebuild/scan passes.
type indexedNode struct {
	id   NodeID
	node *Node
}

// verify checks the index invariant against the live node set. It is a
// defensive check on a condition that correct eviction logic can never
// produce; a non-nil error is a programming error.
func (ix *bucketIndex) verify(nodes []indexedNode) error {
	live := make(map[NodeID]struct{}, len(nodes))
	for _, in := range nodes {
		live[in.id] = struct{}{}
	}

	indexed := 0
	for key, ids := range ix.buckets {
		for _, id := range ids {
			if _, ok := live[id]; !ok {
				return fmt.Errorf("%w: bucket %d holds dead id %d", ErrIndexCorrupt, key, id)
			}
			indexed++
		}
	}
	if indexed != len(nodes) {
		return fmt.Errorf("%w: %d indexed ids for %d live nodes", ErrIndexCorrupt, indexed, len(nodes))
	}
	return nil
}
