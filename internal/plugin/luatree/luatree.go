package luatree

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/domtree/internal/engine/tree"
)

// Run executes a Lua transform script against the tree.
func Run(t *tree.Tree, script string) error {
	L := newState(t)
	defer L.Close()

	if err := L.DoString(script); err != nil {
		return fmt.Errorf("lua transform: %w", err)
	}
	return nil
}

// RunFile executes the Lua transform at path against the tree.
func RunFile(t *tree.Tree, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading transform %s: %w", path, err)
	}
	return Run(t, string(data))
}

// newState builds a Lua state with the dom table installed.
func newState(t *tree.Tree) *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize: 128,
		RegistrySize:  1024 * 16,
	})

	dom := L.NewTable()
	L.SetFuncs(dom, map[string]lua.LGFunction{
		"root":        func(L *lua.LState) int { return pushUID(L, tree.RootUID, t.Exists(tree.RootUID)) },
		"insert_tag":  bindInsert(t, t.InsertTag),
		"insert_data": bindInsert(t, t.InsertData),

		"move": func(L *lua.LState) int {
			sub := tree.UID(L.CheckInt(1))
			parent := tree.UID(L.CheckInt(2))
			L.Push(lua.LBool(t.Move(sub, parent)))
			return 1
		},
		"delete": func(L *lua.LState) int {
			t.DeleteSubtree(tree.UID(L.CheckInt(1)))
			return 0
		},
		"exists": func(L *lua.LState) int {
			L.Push(lua.LBool(t.Exists(tree.UID(L.CheckInt(1)))))
			return 1
		},
		"kind": func(L *lua.LState) int {
			n, ok := t.Get(tree.UID(L.CheckInt(1)))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(n.Kind().String()))
			return 1
		},
		"name": func(L *lua.LState) int {
			n, ok := t.Get(tree.UID(L.CheckInt(1)))
			if !ok || n.Kind() != tree.KindTag {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(n.Name()))
			return 1
		},
		"text": func(L *lua.LState) int {
			n, ok := t.Get(tree.UID(L.CheckInt(1)))
			if !ok || n.Kind() != tree.KindData {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LString(n.Text()))
			return 1
		},
		"children": func(L *lua.LState) int {
			n, ok := t.Get(tree.UID(L.CheckInt(1)))
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(uidTable(L, n.Children()))
			return 1
		},
		"ancestors": func(L *lua.LState) int {
			uid := tree.UID(L.CheckInt(1))
			if !t.Exists(uid) {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(uidTable(L, t.Ancestors(uid)))
			return 1
		},
		"len": func(L *lua.LState) int {
			L.Push(lua.LNumber(t.Len()))
			return 1
		},
	})
	L.SetGlobal("dom", dom)
	return L
}

// bindInsert adapts the two insertion variants to the same Lua shape.
func bindInsert(t *tree.Tree, insert func(tree.UID, string) tree.UID) lua.LGFunction {
	return func(L *lua.LState) int {
		parent := tree.UID(L.CheckInt(1))
		payload := L.CheckString(2)
		uid := insert(parent, payload)
		return pushUID(L, uid, uid != tree.InvalidUID)
	}
}

// pushUID pushes the uid as a number, or nil when ok is false.
func pushUID(L *lua.LState, uid tree.UID, ok bool) int {
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(uid))
	return 1
}

// uidTable converts a UID slice to a 1-indexed Lua array.
func uidTable(L *lua.LState, uids []tree.UID) *lua.LTable {
	tbl := L.NewTable()
	for i, uid := range uids {
		tbl.RawSetInt(i+1, lua.LNumber(uid))
	}
	return tbl
}
