package warden

import (
	"errors"
	"testing"
)

type ftComp1 struct{ V int }
type ftComp2 struct{ V int }
type ftSpriteA struct{ F int }
type ftSpriteB struct{ F int }
type ftHidden struct{}

func newFilterWorld() (*World, Kind[ftComp1], Kind[ftComp2]) {
	r := NewRegistry()
	c1 := Register[ftComp1](r, Single)
	c2 := Register[ftComp2](r, Single)
	return NewWorld(r), c1, c2
}

// S4, scaled down from the spec's 1,000,000-entity scenario for unit-test
// speed.
func TestScenarioExcludeFilterMatchesExactlyHalf(t *testing.T) {
	w, c1, c2 := newFilterWorld()
	const n = 2000
	for i := 0; i < n; i++ {
		e := w.NewEntity()
		if i%2 == 0 {
			_ = Add(e, ftComp1{})
		} else {
			_ = Add(e, ftComp2{})
		}
	}
	f, err := w.NewFilter().Of(c1.Ref(w))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, err = f.Exclude(c2.Ref(w))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := f.Count()
	if got != n/2 {
		t.Fatalf("expected %d matches, got %d", n/2, got)
	}
	visited := make(map[EntityID]bool)
	f.Each(func(e Entity) bool {
		if visited[e.ID()] {
			t.Fatalf("entity %d visited more than once", e.ID())
		}
		visited[e.ID()] = true
		return true
	})
	if len(visited) != n/2 {
		t.Fatalf("expected %d distinct visits, got %d", n/2, len(visited))
	}
}

func TestFilterMatchesNaivePredicateEvaluation(t *testing.T) {
	w, c1, _ := newFilterWorld()
	for i := 0; i < 50; i++ {
		e := w.NewEntity()
		if i%3 != 0 {
			_ = Add(e, ftComp1{})
		}
		if i%5 == 0 {
			_ = Add(e, ftComp2{})
		}
	}
	f, err := w.NewFilter().Of(c1.Ref(w))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var naive []EntityID
	w.EachEntity(func(e Entity) bool {
		if _, ok := GetOpt[ftComp1](e); ok {
			naive = append(naive, e.ID())
		}
		return true
	})
	var via []EntityID
	f.Each(func(e Entity) bool {
		via = append(via, e.ID())
		return true
	})
	if len(naive) != len(via) {
		t.Fatalf("expected equal match counts, got naive=%d via filter=%d", len(naive), len(via))
	}
	seen := make(map[EntityID]bool)
	for _, id := range via {
		seen[id] = true
	}
	for _, id := range naive {
		if !seen[id] {
			t.Fatalf("filter missed entity %d that the naive scan matched", id)
		}
	}
}

func TestFilterAnyOfRequiresAtLeastOne(t *testing.T) {
	w, c1, c2 := newFilterWorld()
	e1 := w.NewEntity()
	_ = Add(e1, ftComp1{})
	e2 := w.NewEntity()
	_ = Add(e2, ftComp2{})
	e3 := w.NewEntity()

	f, err := w.NewFilter().AnyOf(c1.Ref(w), c2.Ref(w))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.Count(); got != 2 {
		t.Fatalf("expected 2 matches, got %d", got)
	}
	_ = e3
}

func TestFilterSelectShortCircuitsAfterPriorClauses(t *testing.T) {
	w, c1, _ := newFilterWorld()
	for i := 0; i < 5; i++ {
		e := w.NewEntity()
		if i%2 == 0 {
			_ = Add(e, ftComp1{V: i})
		}
	}
	var seenInSelect []EntityID
	f, err := w.NewFilter().Of(c1.Ref(w))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f = f.Select(func(e Entity) bool {
		seenInSelect = append(seenInSelect, e.ID())
		return true
	})
	f.Count()
	for _, id := range seenInSelect {
		if _, ok := GetOpt[ftComp1](Entity{world: w, id: id}); !ok {
			t.Fatalf("select saw entity %d, which failed the prior all_of clause", id)
		}
	}
}

func TestFilterOverSingletonRejectedAtConfiguration(t *testing.T) {
	r := NewRegistry()
	diff := Register[ftHidden](r, Singleton)
	w := NewWorld(r)
	_, err := w.NewFilter().Of(diff.Ref(w))
	if !errors.Is(err, ErrIllegalFilter) {
		t.Fatalf("expected ErrIllegalFilter, got %v", err)
	}
}

// S6
func TestScenarioFilterWithTwoMultipleKindsIsIllegal(t *testing.T) {
	r := NewRegistry()
	a := Register[ftSpriteA](r, Multiple)
	b := Register[ftSpriteB](r, Multiple)
	w := NewWorld(r)
	_, err := w.NewFilter().AllOf(a.Ref(w), b.Ref(w))
	if !errors.Is(err, ErrIllegalFilter) {
		t.Fatalf("expected ErrIllegalFilter, got %v", err)
	}
}

func TestFilterWithNoClausesMatchesEveryEntity(t *testing.T) {
	w, _, _ := newFilterWorld()
	for i := 0; i < 4; i++ {
		w.NewEntity()
	}
	f := w.NewFilter()
	if got := f.Count(); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
}

func TestFindEntityReturnsFirstMatchOrAbsent(t *testing.T) {
	w, c1, _ := newFilterWorld()
	f, err := w.NewFilter().Of(c1.Ref(w))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := f.FindEntity(); ok {
		t.Fatal("expected no match in an empty world")
	}
	e := w.NewEntity()
	_ = Add(e, ftComp1{})
	found, ok := f.FindEntity()
	if !ok || found.ID() != e.ID() {
		t.Fatalf("expected to find entity %d, got %+v ok=%v", e.ID(), found, ok)
	}
}
