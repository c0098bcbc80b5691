package memory

// arena is a generation-checked slot store for nodes. Handles remain
// valid-or-detectably-stale across evictions: removing a node bumps
// its slot's generation, so a NodeID held from before the removal no
// longer resolves, even after the slot is reused.
type arena struct {
	slots []arenaSlot
	free  []uint32
	count int
}

type arenaSlot struct {
	node *Node // nil when the slot is free
	gen  uint32
}

// insert stores a node and returns its handle, reusing a freed slot
// when one is available.
func (a *arena) insert(n *Node) NodeID {
	if k := len(a.free); k > 0 {
		pos := a.free[k-1]
		a.free = a.free[:k-1]
		a.slots[pos].node = n
		a.count++
		return makeNodeID(pos, a.slots[pos].gen)
	}
	a.slots = append(a.slots, arenaSlot{node: n})
	a.count++
	return makeNodeID(uint32(len(a.slots)-1), 0)
}

// get resolves a handle to its node, or nil if the handle is out of
// range, stale, or points at a freed slot.
func (a *arena) get(id NodeID) *Node {
	pos := id.pos()
	if int(pos) >= len(a.slots) {
		return nil
	}
	s := &a.slots[pos]
	if s.node == nil || s.gen != id.gen() {
		return nil
	}
	return s.node
}

// remove frees the node behind a handle. The generation bump makes the
// old handle stale immediately.
func (a *arena) remove(id NodeID) bool {
	if a.get(id) == nil {
		return false
	}
	pos := id.pos()
	a.slots[pos].node = nil
	a.slots[pos].gen++
	a.free = append(a.free, pos)
	a.count--
	return true
}

// len returns the number of live nodes.
func (a *arena) len() int { return a.count }

// live collects every live node with its handle, in slot order.
func (a *arena) live() []indexedNode {
	out := make([]indexedNode, 0, a.count)
	for pos := range a.slots {
		s := &a.slots[pos]
		if s.node != nil {
			out = append(out, indexedNode{id: makeNodeID(uint32(pos), s.gen), node: s.node})
		}
	}
	return out
}
