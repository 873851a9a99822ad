// Package luatree runs user-supplied Lua transform scripts against a
// document tree. Scripts see a global `dom` table exposing the tree's
// structural operations:
//
//	dom.root()                  -> uid of the root
//	dom.insert_tag(parent, name)-> uid, or nil if parent is dead
//	dom.insert_data(parent, s)  -> uid, or nil if parent is dead
//	dom.move(sub, new_parent)   -> true on success
//	dom.delete(uid)             -- idempotent subtree delete
//	dom.exists(uid)             -> bool
//	dom.kind(uid)               -> "tag" | "data" | nil
//	dom.name(uid)               -> tag name, or nil
//	dom.text(uid)               -> inner text, or nil
//	dom.children(uid)           -> array of uids
//	dom.ancestors(uid)          -> array of uids, root last
//	dom.len()                   -> live node count
//
// Scripts mutate the live tree directly; callers wanting all-or-nothing
// behavior should run against a Clone and swap on success.
package luatree
