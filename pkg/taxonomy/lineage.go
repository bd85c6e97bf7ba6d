package taxonomy

import "fmt"

// Canonical Linnaean ranks (plus superkingdom) as they appear in the NCBI
// taxonomy database. Used by the canonical distance variant.
var canonicalRanks = map[string]struct{}{
	"superkingdom": {},
	"kingdom":      {},
	"phylum":       {},
	"class":        {},
	"order":        {},
	"family":       {},
	"genus":        {},
	"species":      {},
}

// Lineage returns the ordered sequence of nodes from the taxon with the
// given id up to the root, inclusive of both endpoints. Its length is always
// depth+1.
func (t *Tree) Lineage(id int64) ([]*Node, error) {
	n, err := t.NodeByID(id)
	if err != nil {
		return nil, err
	}
	out := make([]*Node, 0, len(n.ancestry)+1)
	out = append(out, n)
	for i := len(n.ancestry) - 1; i >= 0; i-- {
		anc, ok := t.byID[n.ancestry[i]]
		if !ok {
			return nil, fmt.Errorf("%w: ancestry of %d references missing id %d",
				ErrMalformedTaxonomy, id, n.ancestry[i])
		}
		out = append(out, anc)
	}
	return out, nil
}

// LineageByName is Lineage keyed by scientific name.
func (t *Tree) LineageByName(name string) ([]*Node, error) {
	n, err := t.NodeByName(name)
	if err != nil {
		return nil, err
	}
	return t.Lineage(n.ID)
}

// extendedPath is the node's ancestry plus its own id: the path from the
// root to the node itself. Shared backing array trick avoided on purpose.
func extendedPath(n *Node) []int64 {
	path := make([]int64, len(n.ancestry)+1)
	copy(path, n.ancestry)
	path[len(path)-1] = n.ID
	return path
}

// CommonAncestor returns the lowest common ancestor of the two taxa by
// longest-common-prefix comparison of their materialized paths. When one
// taxon is an ancestor of the other, that taxon is its own answer.
func (t *Tree) CommonAncestor(a, b int64) (*Node, error) {
	na, err := t.NodeByID(a)
	if err != nil {
		return nil, err
	}
	nb, err := t.NodeByID(b)
	if err != nil {
		return nil, err
	}
	pa, pb := extendedPath(na), extendedPath(nb)
	var lca int64
	for i := 0; i < len(pa) && i < len(pb); i++ {
		if pa[i] != pb[i] {
			break
		}
		lca = pa[i]
	}
	if lca == 0 {
		// Both paths start at the root of a single indexed tree, so an
		// empty common prefix means the tree was never indexed.
		return nil, fmt.Errorf("%w: no common prefix for %d and %d", ErrMalformedTaxonomy, a, b)
	}
	return t.NodeByID(lca)
}

// Distance returns the number of tree edges on the path connecting the two
// taxa through their lowest common ancestor. It is symmetric and zero for a
// taxon against itself.
func (t *Tree) Distance(a, b int64) (int, error) {
	na, err := t.NodeByID(a)
	if err != nil {
		return 0, err
	}
	nb, err := t.NodeByID(b)
	if err != nil {
		return 0, err
	}
	lca, err := t.CommonAncestor(a, b)
	if err != nil {
		return 0, err
	}
	return na.Depth() + nb.Depth() - 2*lca.Depth(), nil
}

// DistanceCanonical is Distance counted only over ancestors holding a
// canonical rank, mirroring the only-canonical mode of the original tool:
// intermediate no-rank and clade nodes do not contribute edges.
func (t *Tree) DistanceCanonical(a, b int64) (int, error) {
	na, err := t.NodeByID(a)
	if err != nil {
		return 0, err
	}
	nb, err := t.NodeByID(b)
	if err != nil {
		return 0, err
	}
	lca, err := t.CommonAncestor(a, b)
	if err != nil {
		return 0, err
	}
	da, err := t.canonicalDepth(na)
	if err != nil {
		return 0, err
	}
	db, err := t.canonicalDepth(nb)
	if err != nil {
		return 0, err
	}
	dl, err := t.canonicalDepth(lca)
	if err != nil {
		return 0, err
	}
	return da + db - 2*dl, nil
}

// canonicalDepth counts the canonical-ranked strict ancestors of n.
func (t *Tree) canonicalDepth(n *Node) (int, error) {
	depth := 0
	for _, id := range n.ancestry {
		anc, ok := t.byID[id]
		if !ok {
			return 0, fmt.Errorf("%w: ancestry of %d references missing id %d",
				ErrMalformedTaxonomy, n.ID, id)
		}
		if _, ok := canonicalRanks[anc.Rank]; ok {
			depth++
		}
	}
	return depth, nil
}

// IsDescendant reports whether the named taxon sits at or below the named
// ancestor. Unknown names are simply not descendants.
func (t *Tree) IsDescendant(name, ancestorName string) bool {
	n, err := t.NodeByName(name)
	if err != nil {
		return false
	}
	anc, err := t.NodeByName(ancestorName)
	if err != nil {
		return false
	}
	return isDescendantOrSelf(n, anc)
}

// IsDescendantID is IsDescendant keyed by taxon ids.
func (t *Tree) IsDescendantID(id, ancestorID int64) bool {
	n, err := t.NodeByID(id)
	if err != nil {
		return false
	}
	anc, err := t.NodeByID(ancestorID)
	if err != nil {
		return false
	}
	return isDescendantOrSelf(n, anc)
}

func isDescendantOrSelf(n, ancestor *Node) bool {
	if n.ID == ancestor.ID {
		return true
	}
	for _, id := range n.ancestry {
		if id == ancestor.ID {
			return true
		}
	}
	return false
}
