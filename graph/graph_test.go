package graph

import "testing"

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func TestAddIsIdempotent(t *testing.T) {
	g := New()
	g.Add("a", "b")
	g.Add("a", "b")
	if g.NumDependencies() != 1 {
		t.Fatalf("NumDependencies() = %d, want 1", g.NumDependencies())
	}
	if !contains(g.Dependents("a"), "b") || !contains(g.Dependees("b"), "a") {
		t.Fatalf("edge not recorded in both directions")
	}
}

func TestRemove(t *testing.T) {
	g := New()
	g.Add("a", "b")
	g.Remove("a", "b")
	if g.NumDependencies() != 0 {
		t.Fatalf("NumDependencies() = %d, want 0", g.NumDependencies())
	}
	if g.HasDependents("a") || g.HasDependees("b") {
		t.Fatalf("edge still present after removal")
	}
	g.Remove("a", "b") // no-op on absent pair
	if g.NumDependencies() != 0 {
		t.Fatalf("removing absent pair changed counter")
	}
}

func TestSymmetryAfterMutations(t *testing.T) {
	g := New()
	g.Add("a", "b")
	g.Add("a", "c")
	g.Add("x", "c")
	g.Remove("a", "b")
	g.ReplaceDependents("x", []string{"c", "d"})

	total := 0
	for _, s := range []string{"a", "x"} {
		for _, t2 := range g.Dependents(s) {
			total++
			if !contains(g.Dependees(t2), s) {
				t.Errorf("(%s,%s) in forward but not reverse", s, t2)
			}
		}
	}
	if total != g.NumDependencies() {
		t.Errorf("NumDependencies() = %d, want %d", g.NumDependencies(), total)
	}
}

func TestReplaceDependentsSize(t *testing.T) {
	g := New()
	g.Add("s", "a")
	g.Add("s", "b")
	g.ReplaceDependents("s", []string{"x", "y", "z"})
	if got := g.NumDependents("s"); got != 3 {
		t.Fatalf("NumDependents(s) = %d, want 3", got)
	}
	if g.NumDependencies() != 3 {
		t.Fatalf("NumDependencies() = %d, want 3", g.NumDependencies())
	}
	if g.HasDependees("a") {
		t.Errorf("old dependent a still linked to s")
	}
}

func TestReplaceDependentsWithDuplicates(t *testing.T) {
	g := New()
	g.ReplaceDependents("s", []string{"a", "a", "b"})
	if got := g.NumDependents("s"); got != 2 {
		t.Fatalf("NumDependents(s) = %d, want 2 (duplicates collapsed)", got)
	}
}

func TestReplaceDependees(t *testing.T) {
	g := New()
	g.Add("a", "t")
	g.Add("b", "t")
	g.ReplaceDependees("t", []string{"c"})
	if got := g.NumDependees("t"); got != 1 {
		t.Fatalf("NumDependees(t) = %d, want 1", got)
	}
	if g.HasDependents("a") || g.HasDependents("b") {
		t.Errorf("old dependee still linked to t")
	}
	if !contains(g.Dependents("c"), "t") {
		t.Errorf("new dependee c not linked to t")
	}
}

func TestMissingKeyIsEmpty(t *testing.T) {
	g := New()
	if len(g.Dependents("nope")) != 0 || len(g.Dependees("nope")) != 0 {
		t.Errorf("missing key should yield empty slices")
	}
}
