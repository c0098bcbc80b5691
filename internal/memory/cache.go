package memory

// queryCache is a single-slot cache holding the most recent query
// fingerprint and its full ranked result list. Hits require exact
// component-wise vector equality, not similarity.
//
// The cache is cleared on every mutation (Add, Reinforce, eviction)
// so a hit always reflects current ranking; the staleness-tolerant
// behavior of serving results across mutations is deliberately not
// preserved.
type queryCache struct {
	vector  Vector
	results []SearchHit
}

// get returns the cached ranked list for an identical fingerprint.
func (c *queryCache) get(v Vector) ([]SearchHit, bool) {
	if c.vector == nil || !c.vector.Equal(v) {
		return nil, false
	}
	return c.results, true
}

// put replaces the cached slot.
func (c *queryCache) put(v Vector, results []SearchHit) {
	c.vector = append(Vector(nil), v...)
	c.results = results
}

// clear empties the slot.
func (c *queryCache) clear() {
	c.vector = nil
	c.results = nil
}
