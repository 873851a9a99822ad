package tree

// UID identifies a live node. It doubles as the node's slot index in
// the arena, an invariant maintained by every mutation.
type UID int

const (
	// InvalidUID is returned by operations that fail to produce a node.
	// It is distinct from every valid identifier, including RootUID.
	InvalidUID UID = -1

	// RootUID is the fixed identifier of the tree root.
	RootUID UID = 0
)

// Kind discriminates the two node variants.
type Kind uint8

const (
	// KindTag is a tagged element node.
	KindTag Kind = iota

	// KindData is an inner-text leaf node.
	KindData
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// Node is a single tree entry: either a tagged element or an inner-text
// leaf. Nodes are owned by their Tree; structural fields (parent link,
// child list) are mutated only through Tree operations so that arena
// bookkeeping stays consistent.
type Node struct {
	uid      UID
	parent   UID
	kind     Kind
	payload  string // tag name for KindTag, inner text for KindData
	children []UID
}

// newTagNode constructs a tagged element node.
func newTagNode(name string, uid, parent UID) Node {
	return Node{uid: uid, parent: parent, kind: KindTag, payload: name}
}

// newDataNode constructs an inner-text node. Data nodes are childless
// by convention, though the model does not forbid attaching children.
func newDataNode(uid, parent UID, text string) Node {
	return Node{uid: uid, parent: parent, kind: KindData, payload: text}
}

// UID returns the node's identifier.
func (n *Node) UID() UID { return n.uid }

// Parent returns the parent identifier, or InvalidUID for the root.
func (n *Node) Parent() UID { return n.parent }

// Kind returns the node variant.
func (n *Node) Kind() Kind { return n.kind }

// IsRoot reports whether the node is the tree root.
func (n *Node) IsRoot() bool { return n.parent == InvalidUID }

// Name returns the tag name. It is empty for data nodes.
func (n *Node) Name() string {
	if n.kind != KindTag {
		return ""
	}
	return n.payload
}

// Text returns the inner-text payload. It is empty for tag nodes.
func (n *Node) Text() string {
	if n.kind != KindData {
		return ""
	}
	return n.payload
}

// NumChildren returns the number of direct children.
func (n *Node) NumChildren() int { return len(n.children) }

// Children returns the node's child identifiers in insertion order.
// The returned slice is a copy; mutating it does not affect the tree.
func (n *Node) Children() []UID {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]UID, len(n.children))
	copy(out, n.children)
	return out
}

// setParent rewrites the parent link.
func (n *Node) setParent(parent UID) { n.parent = parent }

// appendChild appends a child identifier, preserving insertion order.
func (n *Node) appendChild(child UID) {
	n.children = append(n.children, child)
}

// removeChild removes the first occurrence of child, preserving the
// order of the remaining children. It is a no-op if child is absent.
func (n *Node) removeChild(child UID) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// clone returns a deep copy of the node.
func (n *Node) clone() Node {
	out := *n
	if n.children != nil {
		out.children = make([]UID, len(n.children))
		copy(out.children, n.children)
	}
	return out
}
