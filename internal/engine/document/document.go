package document

import (
	"github.com/google/uuid"

	"github.com/dshills/domtree/internal/engine/tree"
)

// Document is a tree with an identity. The ID is assigned at creation
// and survives mutation; Revision tracks the underlying tree so readers
// can detect staleness.
type Document struct {
	id      string
	source  string
	rootTag string
	tree    *tree.Tree
}

// Option is a functional option for configuring a Document.
type Option func(*Document)

// WithSource records the path or URL the document was loaded from.
func WithSource(source string) Option {
	return func(d *Document) {
		d.source = source
	}
}

// WithRootTag sets the tag name used for the initial root element.
func WithRootTag(name string) Option {
	return func(d *Document) {
		if name != "" {
			d.rootTag = name
		}
	}
}

// New creates a document with a freshly seeded tree.
func New(opts ...Option) *Document {
	d := &Document{
		id:      uuid.New().String(),
		rootTag: "document",
	}
	for _, opt := range opts {
		opt(d)
	}
	d.tree = tree.New(d.rootTag)
	return d
}

// FromTree wraps an existing tree, taking ownership of it.
func FromTree(t *tree.Tree, opts ...Option) *Document {
	d := &Document{
		id:   uuid.New().String(),
		tree: t,
	}
	for _, opt := range opts {
		opt(d)
	}
	if root := t.Root(); root != nil {
		d.rootTag = root.Name()
	}
	return d
}

// ID returns the document's stable identifier.
func (d *Document) ID() string { return d.id }

// Source returns the path the document was loaded from, if any.
func (d *Document) Source() string { return d.source }

// Tree returns the underlying tree. The document retains ownership;
// the single-writer contract covers mutations made through it.
func (d *Document) Tree() *tree.Tree { return d.tree }

// Revision returns the underlying tree's mutation counter.
func (d *Document) Revision() uint64 { return d.tree.Revision() }

// Len returns the number of live nodes.
func (d *Document) Len() int { return d.tree.Len() }

// Snapshot returns a read-only deep copy of the document at this
// moment. The snapshot shares no structure with the live document and
// is safe to read from other goroutines.
func (d *Document) Snapshot() *Snapshot {
	return &Snapshot{
		id:       d.id,
		source:   d.source,
		revision: d.tree.Revision(),
		tree:     d.tree.Clone(),
	}
}

// Snapshot is an immutable view of a document at a specific revision.
type Snapshot struct {
	id       string
	source   string
	revision uint64
	tree     *tree.Tree
}

// ID returns the identifier of the document the snapshot was taken from.
func (s *Snapshot) ID() string { return s.id }

// Source returns the originating document's source path, if any.
func (s *Snapshot) Source() string { return s.source }

// Revision returns the document revision the snapshot captured.
func (s *Snapshot) Revision() uint64 { return s.revision }

// Tree returns the snapshot's private tree copy. Callers must treat it
// as read-only.
func (s *Snapshot) Tree() *tree.Tree { return s.tree }
