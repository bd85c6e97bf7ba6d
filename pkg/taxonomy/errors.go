package taxonomy

import "errors"

// Load-time integrity violations. Failed inserts leave the tree untouched.
var (
	ErrDuplicateID   = errors.New("taxonomy: duplicate id")
	ErrDuplicateName = errors.New("taxonomy: duplicate name")
)

// ErrMalformedTaxonomy reports a cycle, a dangling parent reference, or a
// missing/ambiguous root discovered while indexing. A tree that fails to
// index is never usable, even partially.
var ErrMalformedTaxonomy = errors.New("taxonomy: malformed tree")

// ErrNotFound reports an id or name absent from the loaded set. Queries never
// substitute a default answer.
var ErrNotFound = errors.New("taxonomy: not found")
