// Package document wraps a tree with document-level identity and
// lifecycle: a stable document ID, the source the document was loaded
// from, and immutable snapshots for readers that must not observe
// later mutations.
//
// Like the underlying tree, a Document is single-writer; callers
// sharing one across goroutines must serialize access.
package document
