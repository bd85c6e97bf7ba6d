package taxonomy

import (
	"errors"
	"testing"
)

func TestLineageEndsAtRoot(t *testing.T) {
	tree := buildFixture(t)
	lineage, err := tree.Lineage(5)
	if err != nil {
		t.Fatalf("lineage: %v", err)
	}
	if len(lineage) != 5 {
		t.Fatalf("lineage length %d, want 5", len(lineage))
	}
	if lineage[0].ID != 5 {
		t.Fatalf("lineage starts at %d, want the taxon itself", lineage[0].ID)
	}
	if last := lineage[len(lineage)-1]; last.ID != 1 {
		t.Fatalf("lineage ends at %d, want the root", last.ID)
	}
	n, _ := tree.NodeByID(5)
	if len(lineage) != n.Depth()+1 {
		t.Fatalf("lineage length %d != depth+1 (%d)", len(lineage), n.Depth()+1)
	}
}

func TestLineageByName(t *testing.T) {
	tree := buildFixture(t)
	lineage, err := tree.LineageByName("Escherichia")
	if err != nil {
		t.Fatalf("lineage by name: %v", err)
	}
	want := []string{"Escherichia", "Proteobacteria", "Bacteria", "root"}
	if len(lineage) != len(want) {
		t.Fatalf("lineage length %d, want %d", len(lineage), len(want))
	}
	for i, name := range want {
		if lineage[i].Name != name {
			t.Fatalf("lineage[%d] = %q, want %q", i, lineage[i].Name, name)
		}
	}
	if _, err := tree.LineageByName("Martians"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCommonAncestor(t *testing.T) {
	tree := buildFixture(t)
	lca, err := tree.CommonAncestor(5, 6)
	if err != nil {
		t.Fatalf("common ancestor: %v", err)
	}
	if lca.ID != 1 {
		t.Fatalf("lca(5,6) = %d, want root", lca.ID)
	}

	// ancestor-of tie-break: lca of a node and its own ancestor is the ancestor
	lca, err = tree.CommonAncestor(5, 3)
	if err != nil {
		t.Fatalf("common ancestor: %v", err)
	}
	if lca.ID != 3 {
		t.Fatalf("lca(5,3) = %d, want 3", lca.ID)
	}

	lca, err = tree.CommonAncestor(4, 4)
	if err != nil {
		t.Fatalf("common ancestor: %v", err)
	}
	if lca.ID != 4 {
		t.Fatalf("lca(4,4) = %d, want 4", lca.ID)
	}
}

func TestCommonAncestorIsAncestorOfBoth(t *testing.T) {
	tree := buildFixture(t)
	ids := []int64{1, 2, 3, 4, 5, 6}
	for _, a := range ids {
		for _, b := range ids {
			lca, err := tree.CommonAncestor(a, b)
			if err != nil {
				t.Fatalf("lca(%d,%d): %v", a, b, err)
			}
			if !tree.IsDescendantID(a, lca.ID) || !tree.IsDescendantID(b, lca.ID) {
				t.Fatalf("lca(%d,%d)=%d is not ancestor-or-self of both", a, b, lca.ID)
			}
		}
	}
}

func TestDistance(t *testing.T) {
	tree := buildFixture(t)
	for _, tc := range []struct {
		a, b int64
		want int
	}{
		{5, 5, 0},
		{5, 4, 1},
		{5, 6, 5},
		{2, 6, 2},
		{1, 5, 4},
	} {
		d, err := tree.Distance(tc.a, tc.b)
		if err != nil {
			t.Fatalf("distance(%d,%d): %v", tc.a, tc.b, err)
		}
		if d != tc.want {
			t.Fatalf("distance(%d,%d) = %d, want %d", tc.a, tc.b, d, tc.want)
		}
		rev, err := tree.Distance(tc.b, tc.a)
		if err != nil {
			t.Fatalf("distance(%d,%d): %v", tc.b, tc.a, err)
		}
		if rev != d {
			t.Fatalf("distance not symmetric: %d vs %d", d, rev)
		}
	}
}

// Spec-style chain fixture: root R(1) → A(2) → B(3) → C(4) plus R → D(5).
func TestDistanceChain(t *testing.T) {
	tree := NewTree()
	mustInsert(t, tree, 1, "R", "no rank", 0)
	mustInsert(t, tree, 2, "A", "no rank", 1)
	mustInsert(t, tree, 3, "B", "no rank", 2)
	mustInsert(t, tree, 4, "C", "no rank", 3)
	mustInsert(t, tree, 5, "D", "no rank", 1)
	if err := tree.Index(); err != nil {
		t.Fatalf("index: %v", err)
	}
	d, err := tree.Distance(4, 5)
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	if d != 4 {
		t.Fatalf("distance(C,D) = %d, want 4", d)
	}
	lca, err := tree.CommonAncestor(4, 5)
	if err != nil {
		t.Fatalf("common ancestor: %v", err)
	}
	if lca.Name != "R" {
		t.Fatalf("lca(C,D) = %q, want R", lca.Name)
	}
}

func TestDistanceCanonicalSkipsUnrankedNodes(t *testing.T) {
	tree := buildFixture(t)
	// 5 (species) and 6 (superkingdom): plain distance is 5, but only the
	// superkingdom, phylum, genus and species levels are canonical on the
	// path, and the endpoints themselves do not count.
	d, err := tree.DistanceCanonical(5, 6)
	if err != nil {
		t.Fatalf("canonical distance: %v", err)
	}
	plain, err := tree.Distance(5, 6)
	if err != nil {
		t.Fatalf("distance: %v", err)
	}
	if d >= plain {
		t.Fatalf("canonical distance %d not below plain distance %d", d, plain)
	}
	if d != 3 {
		t.Fatalf("canonical distance = %d, want 3", d)
	}
}

func TestDistanceNotFound(t *testing.T) {
	tree := buildFixture(t)
	if _, err := tree.Distance(5, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := tree.CommonAncestor(999, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
