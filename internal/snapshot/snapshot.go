package snapshot

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/domtree/internal/engine/tree"
)

// Format identifies the snapshot schema version.
const Format = "domtree/1"

// Errors returned by snapshot decoding.
var (
	ErrInvalidJSON   = errors.New("snapshot is not valid JSON")
	ErrBadFormat     = errors.New("unsupported snapshot format")
	ErrNoRoot        = errors.New("snapshot has no root node")
	ErrMultipleRoots = errors.New("snapshot has more than one root node")
	ErrEmptyTree     = errors.New("tree has no nodes to snapshot")
)

// Meta carries document metadata through a snapshot round trip.
type Meta struct {
	ID       string
	Source   string
	Revision uint64
}

// Encode serializes the tree and metadata to a snapshot document.
func Encode(t *tree.Tree, meta Meta) (string, error) {
	if t.Len() == 0 {
		return "", ErrEmptyTree
	}

	js, _ := sjson.Set("{}", "format", Format)
	js, _ = sjson.Set(js, "meta.id", meta.ID)
	js, _ = sjson.Set(js, "meta.source", meta.Source)
	js, _ = sjson.Set(js, "meta.revision", meta.Revision)
	js, _ = sjson.SetRaw(js, "nodes", "[]")

	var err error
	t.Each(func(n *tree.Node) bool {
		entry := map[string]any{
			"uid":    int(n.UID()),
			"kind":   n.Kind().String(),
			"parent": int(n.Parent()),
		}
		switch n.Kind() {
		case tree.KindTag:
			entry["name"] = n.Name()
		case tree.KindData:
			entry["text"] = n.Text()
		}
		if kids := n.Children(); len(kids) > 0 {
			children := make([]int, len(kids))
			for i, kid := range kids {
				children[i] = int(kid)
			}
			entry["children"] = children
		}
		js, err = sjson.Set(js, "nodes.-1", entry)
		return err == nil
	})
	if err != nil {
		return "", fmt.Errorf("encoding node list: %w", err)
	}
	return js, nil
}

// record is one decoded node entry prior to rebuilding.
type record struct {
	kind     tree.Kind
	payload  string
	children []int64
}

// Decode rebuilds a tree from a snapshot document. Identifiers in the
// file are treated as labels for wiring up parent/child references;
// the rebuilt tree assigns fresh UIDs in a root-first, sibling-ordered
// walk. Nodes unreachable from the root are rejected.
func Decode(data []byte) (*tree.Tree, Meta, error) {
	var meta Meta

	if !gjson.ValidBytes(data) {
		return nil, meta, ErrInvalidJSON
	}
	doc := gjson.ParseBytes(data)

	if format := doc.Get("format").String(); format != Format {
		return nil, meta, fmt.Errorf("%w: %q", ErrBadFormat, format)
	}
	meta.ID = doc.Get("meta.id").String()
	meta.Source = doc.Get("meta.source").String()
	meta.Revision = doc.Get("meta.revision").Uint()

	records := make(map[int64]record)
	rootLabel := int64(-1)
	haveRoot := false
	var decodeErr error

	doc.Get("nodes").ForEach(func(_, entry gjson.Result) bool {
		uid := entry.Get("uid").Int()
		if _, dup := records[uid]; dup {
			decodeErr = fmt.Errorf("duplicate node uid %d", uid)
			return false
		}

		rec := record{}
		switch kind := entry.Get("kind").String(); kind {
		case "tag":
			rec.kind = tree.KindTag
			rec.payload = entry.Get("name").String()
		case "data":
			rec.kind = tree.KindData
			rec.payload = entry.Get("text").String()
		default:
			decodeErr = fmt.Errorf("node %d: unknown kind %q", uid, kind)
			return false
		}

		for _, kid := range entry.Get("children").Array() {
			rec.children = append(rec.children, kid.Int())
		}

		if entry.Get("parent").Int() < 0 {
			if haveRoot {
				decodeErr = ErrMultipleRoots
				return false
			}
			haveRoot = true
			rootLabel = uid
		}
		records[uid] = rec
		return true
	})
	if decodeErr != nil {
		return nil, meta, decodeErr
	}
	if !haveRoot {
		return nil, meta, ErrNoRoot
	}

	root := records[rootLabel]
	if root.kind != tree.KindTag {
		return nil, meta, fmt.Errorf("root node %d must be a tag node", rootLabel)
	}

	t := tree.New(root.payload)
	visited := map[int64]bool{rootLabel: true}
	if err := attach(t, tree.RootUID, root.children, records, visited); err != nil {
		return nil, meta, err
	}
	if len(visited) != len(records) {
		return nil, meta, fmt.Errorf("%d nodes unreachable from the root",
			len(records)-len(visited))
	}
	return t, meta, nil
}

// attach inserts the labeled children under parent in order, recursing
// into each. The visited set doubles as the cycle guard.
func attach(t *tree.Tree, parent tree.UID, labels []int64, records map[int64]record, visited map[int64]bool) error {
	for _, label := range labels {
		rec, ok := records[label]
		if !ok {
			return fmt.Errorf("child reference to undefined node %d", label)
		}
		if visited[label] {
			return fmt.Errorf("node %d claimed by more than one parent", label)
		}
		visited[label] = true

		var uid tree.UID
		if rec.kind == tree.KindData {
			uid = t.InsertData(parent, rec.payload)
		} else {
			uid = t.InsertTag(parent, rec.payload)
		}
		if uid == tree.InvalidUID {
			return fmt.Errorf("inserting node %d failed", label)
		}
		if err := attach(t, uid, rec.children, records, visited); err != nil {
			return err
		}
	}
	return nil
}
