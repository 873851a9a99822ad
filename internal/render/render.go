// Package render serializes a document tree back to markup text. Tag
// nodes become <name>...</name> pairs (self-closing when empty), data
// nodes emit their payload with the markup metacharacters escaped.
// Attributes and namespaces are outside the tree model and are not
// rendered.
package render

import (
	"io"
	"strings"

	"github.com/dshills/domtree/internal/engine/tree"
)

// options controls output shape.
type options struct {
	indent   string // per-level indentation; empty means single line
	maxDepth int    // 0 means unlimited
}

// Option is a functional option for configuring rendering.
type Option func(*options)

// WithIndent enables pretty printing with the given per-level indent
// and one node per line.
func WithIndent(indent string) Option {
	return func(o *options) {
		o.indent = indent
	}
}

// WithCompact disables pretty printing. This is the default.
func WithCompact() Option {
	return func(o *options) {
		o.indent = ""
	}
}

// WithMaxDepth truncates output below the given depth. Zero or
// negative means unlimited.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// escaper rewrites the characters that would be read back as markup.
var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Tree writes the whole tree to w. An emptied tree renders as nothing.
func Tree(w io.Writer, t *tree.Tree, opts ...Option) error {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	root := t.Root()
	if root == nil {
		return nil
	}
	return writeNode(w, t, root, 0, &o)
}

// Subtree writes the subtree rooted at uid to w. A nonexistent uid
// renders as nothing.
func Subtree(w io.Writer, t *tree.Tree, uid tree.UID, opts ...Option) error {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	n, ok := t.Get(uid)
	if !ok {
		return nil
	}
	return writeNode(w, t, n, 0, &o)
}

// String renders the whole tree to a string.
func String(t *tree.Tree, opts ...Option) string {
	var sb strings.Builder
	_ = Tree(&sb, t, opts...) // strings.Builder writes cannot fail
	return sb.String()
}

func writeNode(w io.Writer, t *tree.Tree, n *tree.Node, depth int, o *options) error {
	if o.maxDepth > 0 && depth >= o.maxDepth {
		return nil
	}

	if n.Kind() == tree.KindData {
		if err := writeLine(w, escaper.Replace(n.Text()), depth, o); err != nil {
			return err
		}
		return nil
	}

	kids := n.Children()
	if len(kids) == 0 {
		return writeLine(w, "<"+n.Name()+" />", depth, o)
	}

	if err := writeLine(w, "<"+n.Name()+">", depth, o); err != nil {
		return err
	}
	for _, kid := range kids {
		child, ok := t.Get(kid)
		if !ok {
			continue
		}
		if err := writeNode(w, t, child, depth+1, o); err != nil {
			return err
		}
	}
	return writeLine(w, "</"+n.Name()+">", depth, o)
}

func writeLine(w io.Writer, s string, depth int, o *options) error {
	if o.indent == "" {
		_, err := io.WriteString(w, s)
		return err
	}
	var sb strings.Builder
	for i := 0; i < depth; i++ {
		sb.WriteString(o.indent)
	}
	sb.WriteString(s)
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}
