// Package tree implements the arena-backed document tree that underlies
// the markup engine. It stores tag elements and inner-text nodes in a
// dense, index-addressable arena, hands out stable integer identifiers,
// and supports structural mutation (insertion, subtree relocation,
// subtree deletion) while preserving tree invariants.
//
// The tree package provides:
//
//   - A dense arena where a node's UID doubles as its slot index
//   - FIFO recycling of identifiers freed by deletion
//   - Cycle-safe subtree moves validated before any mutation
//   - Breadth-first subtree deletion with identifier reclamation
//   - Ancestor-chain queries used for cycle checks and exposed as reads
//   - Deep value copies via Clone for full structural duplication
//
// Basic usage:
//
//	t := tree.New("html")
//	body := t.InsertTag(tree.RootUID, "body")
//	t.InsertData(body, "hello")
//
//	out := t.Ancestors(body) // [0]
//	t.DeleteSubtree(body)    // body and its text node are recycled
//
// Identifiers:
//
// UIDs are small integers issued by the tree. UID 0 is permanently the
// root slot: the first allocation of a tree's lifetime is pinned to 0,
// and after a full-tree deletion UID 0 is reclaimed from the recycle
// queue ahead of anything churn queued before it, so a reseeded root
// always lands back on slot 0. Callers must treat UIDs as opaque and
// never synthesize them.
//
// Failure reporting follows the container's contract rather than error
// values: insertion returns InvalidUID when the parent does not exist,
// Move returns false on any precondition violation, and DeleteSubtree
// of a nonexistent node is a no-op.
//
// Concurrency:
//
// A Tree is single-writer. Operations are bounded, in-memory walks with
// no locking; callers that share a Tree across goroutines must serialize
// all access themselves.
package tree
