// Package breadcrumb reconstructs breadcrumb trails from flat collections of
// navigation nodes.
//
// # Overview
//
// Sites usually store their navigation as a flat list: every page knows its
// own identifier, its parent's identifier and the path it is served from.
// A breadcrumb trail is the chain of ancestors from the site root down to the
// page currently being viewed. This package rebuilds that chain and prepares
// it for rendering; presentation itself lives in package render.
//
// # Resolution
//
// [Resolve] has two modes, chosen by whether a current path is given:
//
//   - With a current path, the first node whose [Node.Path] equals it is the
//     current node. Parent links are followed until no node carries the
//     wanted identifier, and the collected nodes are returned root first.
//     A path that matches nothing yields an empty [Chain] and no error.
//   - Without a current path ("tree mode") the input is expected to already
//     be a single chain. It is returned unchanged, in input order. If two
//     nodes share a parent identifier the collection cannot be a chain and
//     an INVALID_TREE_STRUCTURE error is returned.
//
// Tree mode does not sort. A linked but shuffled chain comes back shuffled.
//
// Whenever more than one node could match (duplicate paths, duplicate
// identifiers) the first one in input order wins.
//
// The parent walk keeps track of the nodes it has visited, so a cyclic
// collection fails with CYCLIC_STRUCTURE instead of looping forever.
//
// # Path Rewriting
//
// [Rewrite] joins every relative [Node.Path] in a chain onto a URL prefix
// using RFC 3986 reference resolution. Paths that are already absolute
// (scheme-qualified or protocol-relative, see [IsAbsolutePath]) are kept as
// they are. Rewrite never mutates its input; it returns a copy.
//
// # Keys
//
// [Node] is generic over its key type. Any comparable type works: int,
// string, uuid.UUID or a custom struct. Equality is the only operation the
// resolver needs.
//
// # Concurrency
//
// All functions are pure. They are safe to call concurrently as long as the
// caller does not mutate the node slice during a call.
package breadcrumb
