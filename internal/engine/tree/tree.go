package tree

// slot is one arena entry. A vacant slot marks a recycled identifier
// awaiting reuse; its node contents are zeroed so payload strings can
// be collected.
type slot struct {
	node     Node
	occupied bool
}

// Tree is the arena-backed document tree. The arena is a dense growable
// slice where slot index == UID; identifiers freed by deletion are
// recycled FIFO, oldest-freed first, which bounds arena growth under
// churn.
//
// Counters and the recycle queue are per-instance state, so multiple
// independent trees are safe side by side.
type Tree struct {
	slots    []slot
	free     []UID  // FIFO recycle queue; pop from the front
	issued   int    // allocations ever made, including reuses
	live     int    // current live-node count
	revision uint64 // bumped on every successful mutation
}

// New creates a tree seeded with a root element of the given tag name.
// The root always receives RootUID.
func New(rootName string) *Tree {
	t := &Tree{}
	t.SeedRoot(rootName)
	return t
}

// allocate issues the next identifier. Any allocation into an empty
// tree yields RootUID: the first of the tree's lifetime is pinned to 0
// regardless of queue contents, so a recycled slot 0 can never produce
// a second root-like node later, and after a full-tree deletion UID 0
// is reclaimed from the queue directly — wherever it sits, since
// earlier churn may have queued other identifiers ahead of it. All
// other allocations reuse the oldest freed identifier, or extend the
// arena.
func (t *Tree) allocate() UID {
	t.issued++
	t.live++

	if t.issued == 1 {
		return RootUID
	}
	if t.live == 1 {
		// Emptied tree: every identifier ever issued is queued, so 0
		// is present. Removing it keeps FIFO order among the rest.
		for i, uid := range t.free {
			if uid == RootUID {
				t.free = append(t.free[:i], t.free[i+1:]...)
				break
			}
		}
		return RootUID
	}
	if len(t.free) > 0 {
		uid := t.free[0]
		t.free = t.free[1:]
		return uid
	}
	// Queue empty means every slot is occupied, so the next fresh
	// identifier is the arena's current length.
	return UID(len(t.slots))
}

// place stores the node at its identifier's slot, overwriting a
// recycled slot in place or appending to grow the arena. This keeps
// slot index and UID numerically identical at all times.
func (t *Tree) place(n Node) {
	if int(n.uid) < len(t.slots) {
		t.slots[n.uid] = slot{node: n, occupied: true}
		return
	}
	t.slots = append(t.slots, slot{node: n, occupied: true})
}

// Exists reports whether uid names a live node: in bounds and not a
// vacated slot. This is the sole authority on node liveness.
func (t *Tree) Exists(uid UID) bool {
	return uid >= 0 && int(uid) < len(t.slots) && t.slots[uid].occupied
}

// Len returns the number of live nodes.
func (t *Tree) Len() int { return t.live }

// Revision returns a counter bumped by every successful mutation.
// Readers can compare revisions to detect staleness cheaply.
func (t *Tree) Revision() uint64 { return t.revision }

// Get returns the node with the given identifier. The returned pointer
// is valid until the next mutation of the tree.
func (t *Tree) Get(uid UID) (*Node, bool) {
	if !t.Exists(uid) {
		return nil, false
	}
	return &t.slots[uid].node, true
}

// Root returns the root node, or nil if the tree has been emptied.
func (t *Tree) Root() *Node {
	n, ok := t.Get(RootUID)
	if !ok {
		return nil
	}
	return n
}

// SeedRoot installs a root element into an empty tree and returns
// RootUID. It returns InvalidUID if the tree still has live nodes.
// Allocating into an empty tree always lands on slot 0, whether the
// tree is fresh or was fully deleted (see allocate), so the root
// invariant holds across reseeding.
func (t *Tree) SeedRoot(name string) UID {
	if t.live != 0 {
		return InvalidUID
	}
	uid := t.allocate()
	t.place(newTagNode(name, uid, InvalidUID))
	t.revision++
	return uid
}

// InsertTag creates a tagged element node under parent and returns its
// identifier, or InvalidUID if parent does not exist. No mutation
// occurs on failure.
func (t *Tree) InsertTag(parent UID, name string) UID {
	if !t.Exists(parent) {
		return InvalidUID
	}
	uid := t.allocate()
	t.place(newTagNode(name, uid, parent))
	t.slots[parent].node.appendChild(uid)
	t.revision++
	return uid
}

// InsertData creates an inner-text node under parent and returns its
// identifier, or InvalidUID if parent does not exist. No mutation
// occurs on failure.
func (t *Tree) InsertData(parent UID, text string) UID {
	if !t.Exists(parent) {
		return InvalidUID
	}
	uid := t.allocate()
	t.place(newDataNode(uid, parent, text))
	t.slots[parent].node.appendChild(uid)
	t.revision++
	return uid
}

// Move reattaches the subtree rooted at sub under newParent, appending
// it to newParent's children. It returns false, with no mutation, when
// any precondition fails: either endpoint does not exist, sub is the
// root, sub equals newParent, or newParent is a descendant of sub
// (which would create a cycle). The subtree's internal structure is
// untouched; only the single edge to its parent changes.
func (t *Tree) Move(sub, newParent UID) bool {
	if !t.Exists(sub) || !t.Exists(newParent) {
		return false
	}
	if sub == RootUID || sub == newParent {
		return false
	}
	for _, ancestor := range t.Ancestors(newParent) {
		if ancestor == sub {
			return false
		}
	}

	old := t.slots[sub].node.parent
	t.slots[old].node.removeChild(sub)
	t.slots[newParent].node.appendChild(sub)
	t.slots[sub].node.setParent(newParent)
	t.revision++
	return true
}

// DeleteSubtree removes the node and every node reachable from it,
// recycling their identifiers. Deleting a nonexistent node is a silent
// no-op, so deletion is idempotent. The deleted root is also unlinked
// from its former parent's child list, keeping parent/child bookkeeping
// consistent.
//
// Traversal is breadth-first: each visited node's children are captured
// and enqueued before its slot is vacated, so identifiers are recycled
// in level order with the subtree root first. Deleting the tree root is
// permitted and leaves an empty arena that SeedRoot can repopulate.
func (t *Tree) DeleteSubtree(uid UID) {
	if !t.Exists(uid) {
		return
	}

	if parent := t.slots[uid].node.parent; parent != InvalidUID {
		t.slots[parent].node.removeChild(uid)
	}

	queue := []UID{uid}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		queue = append(queue, t.slots[cur].node.children...)

		t.slots[cur] = slot{} // vacate; zeroing releases payload strings
		t.free = append(t.free, cur)
		t.live--
	}
	t.revision++
}

// Ancestors returns the chain of identifiers from uid's parent up to
// and including the root. It is empty if uid is the root and nil if uid
// does not exist. The chain length is bounded by the live-node count.
func (t *Tree) Ancestors(uid UID) []UID {
	if !t.Exists(uid) {
		return nil
	}
	chain := []UID{}
	for uid != RootUID {
		uid = t.slots[uid].node.parent
		chain = append(chain, uid)
	}
	return chain
}

// Each calls fn for every live node in ascending UID order, stopping
// early if fn returns false.
func (t *Tree) Each(fn func(n *Node) bool) {
	for i := range t.slots {
		if !t.slots[i].occupied {
			continue
		}
		if !fn(&t.slots[i].node) {
			return
		}
	}
}

// Clone returns a deep copy of the tree: arena contents, counters, and
// recycle-queue state. The copy shares no structure with the original.
func (t *Tree) Clone() *Tree {
	out := &Tree{
		slots:    make([]slot, len(t.slots)),
		issued:   t.issued,
		live:     t.live,
		revision: t.revision,
	}
	for i, s := range t.slots {
		out.slots[i] = slot{node: s.node.clone(), occupied: s.occupied}
	}
	if len(t.free) > 0 {
		out.free = make([]UID, len(t.free))
		copy(out.free, t.free)
	}
	return out
}
