package taxonomy

import (
	"errors"
	"testing"
)

func TestDescendantFilterContainsSelf(t *testing.T) {
	tree := buildFixture(t)
	for _, id := range []int64{1, 2, 3, 4, 5, 6} {
		f, err := tree.DescendantFilterByID(id)
		if err != nil {
			t.Fatalf("filter for %d: %v", id, err)
		}
		if !f.ContainsID(id) {
			t.Fatalf("filter for %d does not contain its own target", id)
		}
	}
}

func TestDescendantFilterMembership(t *testing.T) {
	tree := buildFixture(t)
	f, err := tree.DescendantFilterByName("Bacteria")
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	for _, id := range []int64{2, 3, 4, 5} {
		if !f.ContainsID(id) {
			t.Fatalf("id %d should be a descendant of Bacteria", id)
		}
	}
	for _, id := range []int64{1, 6} {
		if f.ContainsID(id) {
			t.Fatalf("id %d should not be a descendant of Bacteria", id)
		}
	}
	if !f.ContainsName("Escherichia coli") {
		t.Fatal("name membership should agree with id membership")
	}
	if f.ContainsName("Archaea") {
		t.Fatal("Archaea is not below Bacteria")
	}
}

func TestDescendantFilterUnknownCandidates(t *testing.T) {
	tree := buildFixture(t)
	f, err := tree.DescendantFilterByID(2)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if f.ContainsID(999) {
		t.Fatal("unknown id must not be a member")
	}
	if f.ContainsName("Martians") {
		t.Fatal("unknown name must not be a member")
	}
}

func TestDescendantFilterUnresolvedTarget(t *testing.T) {
	tree := buildFixture(t)
	if _, err := tree.DescendantFilterByName("Martians"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown target name, got %v", err)
	}
	if _, err := tree.DescendantFilterByID(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown target id, got %v", err)
	}
}

func TestIsDescendantHelpers(t *testing.T) {
	tree := buildFixture(t)
	if !tree.IsDescendant("Escherichia coli", "Proteobacteria") {
		t.Fatal("E. coli should descend from Proteobacteria")
	}
	if tree.IsDescendant("Archaea", "Bacteria") {
		t.Fatal("Archaea does not descend from Bacteria")
	}
	if tree.IsDescendant("Martians", "Bacteria") || tree.IsDescendant("Bacteria", "Martians") {
		t.Fatal("unknown names are never descendants")
	}
	if !tree.IsDescendantID(5, 5) {
		t.Fatal("a taxon is a descendant-or-self of itself")
	}
}
