package tree

import (
	"math/rand"
	"testing"
)

func TestNew(t *testing.T) {
	tr := New("html")
	if tr.Len() != 1 {
		t.Errorf("new tree should have 1 live node, got %d", tr.Len())
	}
	root := tr.Root()
	if root == nil {
		t.Fatal("new tree should have a root")
	}
	if root.UID() != RootUID {
		t.Errorf("root UID = %d, want %d", root.UID(), RootUID)
	}
	if root.Name() != "html" {
		t.Errorf("root name = %q, want %q", root.Name(), "html")
	}
	if !root.IsRoot() {
		t.Error("root node should report IsRoot")
	}
	if got := tr.Ancestors(RootUID); len(got) != 0 {
		t.Errorf("Ancestors(root) = %v, want empty", got)
	}
}

func TestInsertTag(t *testing.T) {
	tr := New("html")

	body := tr.InsertTag(RootUID, "body")
	if body != 1 {
		t.Errorf("first insert should yield UID 1, got %d", body)
	}
	div := tr.InsertTag(body, "div")
	if div != 2 {
		t.Errorf("second insert should yield UID 2, got %d", div)
	}

	n, ok := tr.Get(div)
	if !ok {
		t.Fatal("inserted node should exist")
	}
	if n.Parent() != body {
		t.Errorf("parent = %d, want %d", n.Parent(), body)
	}
	if n.Kind() != KindTag {
		t.Errorf("kind = %v, want %v", n.Kind(), KindTag)
	}
	if tr.Len() != 3 {
		t.Errorf("live count = %d, want 3", tr.Len())
	}
}

func TestInsertData(t *testing.T) {
	tr := New("html")
	body := tr.InsertTag(RootUID, "body")

	txt := tr.InsertData(body, "hello")
	n, ok := tr.Get(txt)
	if !ok {
		t.Fatal("data node should exist")
	}
	if n.Kind() != KindData {
		t.Errorf("kind = %v, want %v", n.Kind(), KindData)
	}
	if n.Text() != "hello" {
		t.Errorf("text = %q, want %q", n.Text(), "hello")
	}
	if n.Name() != "" {
		t.Errorf("data node name should be empty, got %q", n.Name())
	}
	if n.NumChildren() != 0 {
		t.Errorf("data node should be childless, got %d children", n.NumChildren())
	}
}

func TestInsertMissingParent(t *testing.T) {
	tests := []struct {
		name   string
		parent UID
	}{
		{"negative", InvalidUID},
		{"out of range", 99},
		{"recycled slot", 1},
	}

	tr := New("html")
	gone := tr.InsertTag(RootUID, "body") // uid 1
	tr.DeleteSubtree(gone)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rev := tr.Revision()
			if got := tr.InsertTag(tt.parent, "div"); got != InvalidUID {
				t.Errorf("InsertTag(%d) = %d, want InvalidUID", tt.parent, got)
			}
			if got := tr.InsertData(tt.parent, "x"); got != InvalidUID {
				t.Errorf("InsertData(%d) = %d, want InvalidUID", tt.parent, got)
			}
			if tr.Revision() != rev {
				t.Error("failed insert must not mutate the tree")
			}
		})
	}
}

func TestSiblingOrder(t *testing.T) {
	tr := New("html")
	c1 := tr.InsertTag(RootUID, "head")
	c2 := tr.InsertTag(RootUID, "body")
	c3 := tr.InsertData(RootUID, "tail")

	got := tr.Root().Children()
	want := []UID{c1, c2, c3}
	if len(got) != len(want) {
		t.Fatalf("children = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("children[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestExists(t *testing.T) {
	tr := New("html")
	body := tr.InsertTag(RootUID, "body")

	tests := []struct {
		name string
		uid  UID
		want bool
	}{
		{"root", RootUID, true},
		{"live child", body, true},
		{"invalid", InvalidUID, false},
		{"out of range", 42, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.Exists(tt.uid); got != tt.want {
				t.Errorf("Exists(%d) = %v, want %v", tt.uid, got, tt.want)
			}
		})
	}

	tr.DeleteSubtree(body)
	if tr.Exists(body) {
		t.Error("deleted node should not exist")
	}
}

func TestAncestors(t *testing.T) {
	tr := New("html")
	body := tr.InsertTag(RootUID, "body")
	div := tr.InsertTag(body, "div")
	span := tr.InsertTag(div, "span")

	tests := []struct {
		name string
		uid  UID
		want []UID
	}{
		{"root", RootUID, []UID{}},
		{"depth one", body, []UID{RootUID}},
		{"depth three", span, []UID{div, body, RootUID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tr.Ancestors(tt.uid)
			if len(got) != len(tt.want) {
				t.Fatalf("Ancestors(%d) = %v, want %v", tt.uid, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Ancestors(%d)[%d] = %d, want %d", tt.uid, i, got[i], tt.want[i])
				}
			}
		})
	}

	if got := tr.Ancestors(99); got != nil {
		t.Errorf("Ancestors of nonexistent node = %v, want nil", got)
	}
}

func TestMove(t *testing.T) {
	// root -> a -> b, root -> c
	build := func() (*Tree, UID, UID, UID) {
		tr := New("html")
		a := tr.InsertTag(RootUID, "a")
		b := tr.InsertTag(a, "b")
		c := tr.InsertTag(RootUID, "c")
		return tr, a, b, c
	}

	t.Run("reparent leaf", func(t *testing.T) {
		tr, a, b, c := build()
		if !tr.Move(b, c) {
			t.Fatal("Move(b, c) should succeed")
		}
		n, _ := tr.Get(b)
		if n.Parent() != c {
			t.Errorf("parent of b = %d, want %d", n.Parent(), c)
		}
		an, _ := tr.Get(a)
		if an.NumChildren() != 0 {
			t.Errorf("old parent should have no children, got %v", an.Children())
		}
		cn, _ := tr.Get(c)
		if kids := cn.Children(); len(kids) != 1 || kids[0] != b {
			t.Errorf("new parent children = %v, want [%d]", kids, b)
		}
		want := []UID{c, RootUID}
		got := tr.Ancestors(b)
		if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
			t.Errorf("Ancestors(b) = %v, want %v", got, want)
		}
	})

	t.Run("rejects cycle", func(t *testing.T) {
		tr, a, b, _ := build()
		if tr.Move(a, b) {
			t.Error("Move(a, b) should fail: b is a descendant of a")
		}
	})

	t.Run("rejects root", func(t *testing.T) {
		tr, _, _, c := build()
		if tr.Move(RootUID, c) {
			t.Error("root may never be re-parented")
		}
	})

	t.Run("rejects identity", func(t *testing.T) {
		tr, a, _, _ := build()
		if tr.Move(a, a) {
			t.Error("Move onto itself should fail")
		}
	})

	t.Run("rejects missing endpoints", func(t *testing.T) {
		tr, a, _, _ := build()
		if tr.Move(a, 99) {
			t.Error("Move to nonexistent parent should fail")
		}
		if tr.Move(99, a) {
			t.Error("Move of nonexistent subtree should fail")
		}
	})

	t.Run("failure leaves tree unchanged", func(t *testing.T) {
		tr, a, b, _ := build()
		rev := tr.Revision()
		tr.Move(a, b)
		if tr.Revision() != rev {
			t.Error("failed move must not mutate the tree")
		}
		n, _ := tr.Get(b)
		if n.Parent() != a {
			t.Errorf("parent of b = %d, want %d", n.Parent(), a)
		}
	})

	t.Run("subtree interior untouched", func(t *testing.T) {
		tr, a, b, c := build()
		leaf := tr.InsertData(b, "x")
		if !tr.Move(a, c) {
			t.Fatal("Move(a, c) should succeed")
		}
		n, _ := tr.Get(leaf)
		if n.Parent() != b {
			t.Errorf("interior edge changed: parent of leaf = %d, want %d", n.Parent(), b)
		}
	})
}

func TestDeleteSubtree(t *testing.T) {
	tr := New("html")
	body := tr.InsertTag(RootUID, "body")
	div := tr.InsertTag(body, "div")
	txt := tr.InsertData(div, "hi")
	side := tr.InsertTag(RootUID, "aside")

	tr.DeleteSubtree(body)

	for _, uid := range []UID{body, div, txt} {
		if tr.Exists(uid) {
			t.Errorf("uid %d should be deleted", uid)
		}
	}
	if !tr.Exists(side) {
		t.Error("sibling subtree must survive")
	}
	if tr.Len() != 2 {
		t.Errorf("live count = %d, want 2", tr.Len())
	}

	// Stronger contract: the deleted root is unlinked from its parent.
	for _, kid := range tr.Root().Children() {
		if kid == body {
			t.Error("deleted subtree root still referenced by its former parent")
		}
	}
}

func TestDeleteIdempotent(t *testing.T) {
	tr := New("html")
	body := tr.InsertTag(RootUID, "body")
	tr.InsertData(body, "x")

	tr.DeleteSubtree(body)
	live, rev := tr.Len(), tr.Revision()
	tr.DeleteSubtree(body)

	if tr.Len() != live {
		t.Errorf("second delete changed live count: %d -> %d", live, tr.Len())
	}
	if tr.Revision() != rev {
		t.Error("second delete should be a no-op")
	}
}

func TestRecyclingFIFO(t *testing.T) {
	tr := New("html")
	body := tr.InsertTag(RootUID, "body") // 1
	div := tr.InsertTag(body, "div")      // 2
	span := tr.InsertTag(div, "span")     // 3
	keep := tr.InsertTag(RootUID, "keep") // 4

	// BFS recycles level order: body, div, span.
	tr.DeleteSubtree(body)

	got := []UID{
		tr.InsertTag(keep, "a"),
		tr.InsertTag(keep, "b"),
		tr.InsertTag(keep, "c"),
	}
	want := []UID{body, div, span}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("reuse[%d] = %d, want %d (FIFO, oldest freed first)", i, got[i], want[i])
		}
	}

	// Pool exhausted: next allocation extends the arena.
	if next := tr.InsertTag(keep, "d"); next != 5 {
		t.Errorf("post-recycling insert = %d, want 5", next)
	}
}

// TestScenario walks a small build, delete, and reuse sequence end to
// end, pinning the exact identifiers at each step.
func TestScenario(t *testing.T) {
	tr := New("html")
	body := tr.InsertTag(RootUID, "body")
	if body != 1 {
		t.Fatalf("body = %d, want 1", body)
	}
	hello := tr.InsertData(body, "hello")
	if hello != 2 {
		t.Fatalf("hello = %d, want 2", hello)
	}

	tr.DeleteSubtree(body)
	if tr.Exists(body) || tr.Exists(hello) {
		t.Fatal("deleted nodes should not exist")
	}

	if got := tr.InsertTag(RootUID, "head"); got != 1 {
		t.Errorf("first reuse = %d, want 1", got)
	}
	if got := tr.InsertTag(RootUID, "footer"); got != 2 {
		t.Errorf("second reuse = %d, want 2", got)
	}
}

func TestDeleteRootAndReseed(t *testing.T) {
	tr := New("html")
	body := tr.InsertTag(RootUID, "body")
	tr.InsertData(body, "x")

	tr.DeleteSubtree(RootUID)
	if tr.Len() != 0 {
		t.Fatalf("live count after root delete = %d, want 0", tr.Len())
	}
	if tr.Root() != nil {
		t.Fatal("emptied tree should have no root")
	}

	// Root was vacated first, so UID 0 is first out of the recycle queue.
	if got := tr.SeedRoot("svg"); got != RootUID {
		t.Fatalf("SeedRoot = %d, want %d", got, RootUID)
	}
	if tr.Root().Name() != "svg" {
		t.Errorf("reseeded root name = %q, want %q", tr.Root().Name(), "svg")
	}
	if got := tr.InsertTag(RootUID, "g"); got != 1 {
		t.Errorf("insert after reseed = %d, want 1 (FIFO reuse)", got)
	}
}

// TestReseedAfterChurn deletes nodes before deleting the root, so the
// recycle queue holds identifiers older than 0 when the tree empties.
// The reseeded root must still land on slot 0, and FIFO order among
// the other freed identifiers must survive.
func TestReseedAfterChurn(t *testing.T) {
	tr := New("html")
	a := tr.InsertTag(RootUID, "a")     // 1
	b := tr.InsertTag(RootUID, "b")     // 2
	tr.DeleteSubtree(a)                 // free: [1]
	tr.DeleteSubtree(RootUID)           // free: [1, 0, 2] (BFS: root, then b)

	if got := tr.SeedRoot("svg"); got != RootUID {
		t.Fatalf("SeedRoot = %d, want %d", got, RootUID)
	}
	root := tr.Root()
	if root == nil {
		t.Fatal("reseeded tree should have a root at slot 0")
	}
	if !root.IsRoot() || root.Name() != "svg" {
		t.Errorf("root = %q IsRoot=%v, want svg root", root.Name(), root.IsRoot())
	}

	// Ancestor walks from fresh children must terminate at the root.
	g := tr.InsertTag(RootUID, "g")
	if g != a {
		t.Errorf("insert after reseed = %d, want %d (oldest freed first)", g, a)
	}
	chain := tr.Ancestors(g)
	if len(chain) != 1 || chain[0] != RootUID {
		t.Errorf("Ancestors(%d) = %v, want [%d]", g, chain, RootUID)
	}
	if got := tr.InsertTag(RootUID, "h"); got != b {
		t.Errorf("second insert after reseed = %d, want %d", got, b)
	}
}

func TestSeedRootRejectsLiveTree(t *testing.T) {
	tr := New("html")
	if got := tr.SeedRoot("x"); got != InvalidUID {
		t.Errorf("SeedRoot on live tree = %d, want InvalidUID", got)
	}
}

func TestClone(t *testing.T) {
	tr := New("html")
	body := tr.InsertTag(RootUID, "body")
	tr.InsertData(body, "hello")
	dead := tr.InsertTag(body, "dead")
	tr.DeleteSubtree(dead) // populate the recycle queue

	cp := tr.Clone()

	if cp.Len() != tr.Len() {
		t.Errorf("clone live count = %d, want %d", cp.Len(), tr.Len())
	}

	// Counters and recycle state are copied: both reuse the same UID next.
	a := tr.InsertTag(body, "a")
	b := cp.InsertTag(body, "b")
	if a != b {
		t.Errorf("clone allocator diverged: %d vs %d", a, b)
	}

	// No aliasing: mutating one side leaves the other alone.
	cp.DeleteSubtree(body)
	if !tr.Exists(body) {
		t.Error("mutating the clone must not affect the original")
	}
	n, _ := tr.Get(body)
	if n.NumChildren() != 2 {
		t.Errorf("original children = %d, want 2", n.NumChildren())
	}
}

func TestEach(t *testing.T) {
	tr := New("html")
	tr.InsertTag(RootUID, "a")
	b := tr.InsertTag(RootUID, "b")
	tr.DeleteSubtree(b)

	var seen []UID
	tr.Each(func(n *Node) bool {
		seen = append(seen, n.UID())
		return true
	})
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Errorf("Each visited %v, want [0 1]", seen)
	}

	count := 0
	tr.Each(func(*Node) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Each should stop early, visited %d", count)
	}
}

// TestAcyclicRandomOps hammers insert/move/delete and checks that every
// ancestor walk terminates within the live-node bound.
func TestAcyclicRandomOps(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tr := New("root")
	uids := []UID{RootUID}

	for i := 0; i < 2000; i++ {
		switch rng.Intn(4) {
		case 0, 1:
			parent := uids[rng.Intn(len(uids))]
			if uid := tr.InsertTag(parent, "n"); uid != InvalidUID {
				uids = append(uids, uid)
			}
		case 2:
			sub := uids[rng.Intn(len(uids))]
			dst := uids[rng.Intn(len(uids))]
			tr.Move(sub, dst)
		case 3:
			if len(uids) > 1 {
				tr.DeleteSubtree(uids[1+rng.Intn(len(uids)-1)])
			}
		}

		// Drop stale UIDs, then audit the survivors.
		alive := uids[:0]
		for _, uid := range uids {
			if tr.Exists(uid) {
				alive = append(alive, uid)
			}
		}
		uids = alive

		for _, uid := range uids {
			chain := tr.Ancestors(uid)
			if len(chain) > tr.Len() {
				t.Fatalf("ancestor chain of %d longer than live count: %d > %d",
					uid, len(chain), tr.Len())
			}
			if uid != RootUID && chain[len(chain)-1] != RootUID {
				t.Fatalf("ancestor chain of %d does not end at root: %v", uid, chain)
			}
		}
	}
}

// TestParentChildConsistency verifies invariant 2 after a burst of
// mixed mutations: every live non-root node appears exactly once in
// its parent's child list.
func TestParentChildConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := New("root")
	uids := []UID{RootUID}

	for i := 0; i < 500; i++ {
		switch rng.Intn(5) {
		case 0, 1, 2:
			parent := uids[rng.Intn(len(uids))]
			if uid := tr.InsertData(parent, "t"); uid != InvalidUID {
				uids = append(uids, uid)
			}
		case 3:
			tr.Move(uids[rng.Intn(len(uids))], uids[rng.Intn(len(uids))])
		case 4:
			if len(uids) > 1 {
				tr.DeleteSubtree(uids[1+rng.Intn(len(uids)-1)])
				alive := uids[:0]
				for _, uid := range uids {
					if tr.Exists(uid) {
						alive = append(alive, uid)
					}
				}
				uids = alive
			}
		}
	}

	tr.Each(func(n *Node) bool {
		if n.IsRoot() {
			return true
		}
		parent, ok := tr.Get(n.Parent())
		if !ok {
			t.Errorf("node %d has dead parent %d", n.UID(), n.Parent())
			return true
		}
		count := 0
		for _, kid := range parent.Children() {
			if kid == n.UID() {
				count++
			}
		}
		if count != 1 {
			t.Errorf("node %d appears %d times in parent %d's children",
				n.UID(), count, n.Parent())
		}
		return true
	})
}

func BenchmarkInsertDelete(b *testing.B) {
	tr := New("root")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		uid := tr.InsertTag(RootUID, "n")
		tr.DeleteSubtree(uid)
	}
}

func BenchmarkDeepAncestors(b *testing.B) {
	tr := New("root")
	uid := RootUID
	for i := 0; i < 1000; i++ {
		uid = tr.InsertTag(uid, "n")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if got := tr.Ancestors(uid); len(got) != 1000 {
			b.Fatalf("chain length = %d", len(got))
		}
	}
}
