// Package snapshot encodes a document tree to a JSON interchange
// document and rebuilds trees from one. Snapshots are the only ingress
// format for the engine; there is no markup parser.
//
// The format is a flat node list plus metadata:
//
//	{
//	  "format": "domtree/1",
//	  "meta": {"id": "…", "source": "…", "revision": 7},
//	  "nodes": [
//	    {"uid": 0, "kind": "tag", "parent": -1, "name": "html",
//	     "children": [1]},
//	    {"uid": 1, "kind": "data", "parent": 0, "text": "hello"}
//	  ]
//	}
//
// Sibling order is carried by each node's children array, not by list
// position. Decoding rebuilds the tree through the ordinary insertion
// API, so identifiers are remapped by the allocator rather than trusted
// from the file.
package snapshot
