package scoremap

import (
	"testing"

	"github.com/anthropics/pkgsearch/pkg/types"
)

func TestIsEmpty(t *testing.T) {
	if !(Score{}).IsEmpty() {
		t.Error("empty score should report IsEmpty")
	}
	if New(map[types.DocID]float64{"a": 1}).IsEmpty() {
		t.Error("non-empty score should not report IsEmpty")
	}
}

func TestMaxValue_EmptyIsZero(t *testing.T) {
	if got := (Score{}).MaxValue(); got != 0.0 {
		t.Errorf("MaxValue() on empty = %v, want 0.0", got)
	}
}

func TestGet_MissingKeyIsZero(t *testing.T) {
	s := New(map[types.DocID]float64{"a": 0.5})
	if got := s.Get("missing"); got != 0.0 {
		t.Errorf("Get(missing) = %v, want 0.0", got)
	}
	if got := s.Get("a"); got != 0.5 {
		t.Errorf("Get(a) = %v, want 0.5", got)
	}
}

func TestMultiply_SingleInputIsItself(t *testing.T) {
	s := New(map[types.DocID]float64{"a": 0.5, "b": 0.25})
	got := Multiply(s)
	if len(got) != 2 || got["a"] != 0.5 || got["b"] != 0.25 {
		t.Errorf("Multiply(s) = %v, want copy of s", got)
	}
}

func TestMultiply_WithEmptyIsEmpty(t *testing.T) {
	s := New(map[types.DocID]float64{"a": 0.5})
	got := Multiply(s, Score{})
	if !got.IsEmpty() {
		t.Errorf("Multiply(s, empty) = %v, want empty", got)
	}
}

func TestMultiply_Commutative(t *testing.T) {
	a := New(map[types.DocID]float64{"x": 2, "y": 3})
	b := New(map[types.DocID]float64{"x": 5, "z": 7})
	ab := Multiply(a, b)
	ba := Multiply(b, a)
	if len(ab) != len(ba) {
		t.Fatalf("len mismatch: %v vs %v", ab, ba)
	}
	for k, v := range ab {
		if ba[k] != v {
			t.Errorf("Multiply not commutative at %q: %v vs %v", k, v, ba[k])
		}
	}
	if got := ab["x"]; got != 10 {
		t.Errorf(`ab["x"] = %v, want 10`, got)
	}
	if _, ok := ab["y"]; ok {
		t.Error(`"y" should be excluded (not in intersection)`)
	}
}

func TestMax_IdempotentAndCommutative(t *testing.T) {
	a := New(map[types.DocID]float64{"x": 2, "y": 5})
	b := New(map[types.DocID]float64{"x": 9, "z": 1})

	ab := Max(a, b)
	ba := Max(b, a)
	for k, v := range ab {
		if ba[k] != v {
			t.Errorf("Max not commutative at %q", k)
		}
	}

	idempotent := Max(ab, ab)
	for k, v := range ab {
		if idempotent[k] != v {
			t.Errorf("Max not idempotent at %q: %v vs %v", k, v, idempotent[k])
		}
	}

	if got := ab["x"]; got != 9 {
		t.Errorf(`ab["x"] = %v, want 9`, got)
	}
	if got := ab["y"]; got != 5 {
		t.Errorf(`ab["y"] = %v, want 5`, got)
	}
}

func TestRemoveLowValues_NeverBelowFractionOfMax(t *testing.T) {
	s := New(map[types.DocID]float64{"a": 100, "b": 50, "c": 9, "d": 0})
	got := s.RemoveLowValues(0.1, 0)
	threshold := 0.1 * 100
	for k, v := range got {
		if v < threshold {
			t.Errorf("RemoveLowValues retained %q=%v below threshold %v", k, v, threshold)
		}
	}
	if _, ok := got["c"]; ok {
		t.Error("c=9 should have been pruned below threshold 10")
	}
	if _, ok := got["a"]; !ok {
		t.Error("a=100 should survive")
	}
}

func TestRemoveLowValues_MinValueFloor(t *testing.T) {
	s := New(map[types.DocID]float64{"a": 10, "b": 3})
	got := s.RemoveLowValues(0, 5)
	if _, ok := got["b"]; ok {
		t.Error("b=3 should be pruned by min_value=5")
	}
	if _, ok := got["a"]; !ok {
		t.Error("a=10 should survive min_value=5")
	}
}

func TestTop_BoundedAndDominant(t *testing.T) {
	s := New(map[types.DocID]float64{"a": 1, "b": 5, "c": 3, "d": 5})
	top := s.Top(2, 0)
	if len(top) != 2 {
		t.Fatalf("len(top) = %d, want 2", len(top))
	}
	// ties (b, d both 5) broken by doc-id ascending.
	if top[0].DocID != "b" || top[1].DocID != "d" {
		t.Errorf("top = %+v, want b then d", top)
	}
	omittedMax := 3.0 // c
	for _, e := range top {
		if e.Value < omittedMax {
			t.Errorf("top entry %+v below an omitted entry's value %v", e, omittedMax)
		}
	}
}

func TestProject_Intersection(t *testing.T) {
	s := New(map[types.DocID]float64{"a": 1, "b": 2, "c": 3})
	got := s.Project(map[types.DocID]struct{}{"b": {}, "z": {}})
	if len(got) != 1 || got["b"] != 2 {
		t.Errorf("Project = %v, want {b:2}", got)
	}
}

func TestMap_TransformsValues(t *testing.T) {
	s := New(map[types.DocID]float64{"a": 2, "b": 3})
	got := s.Map(func(v float64) float64 { return v * 10 })
	if got["a"] != 20 || got["b"] != 30 {
		t.Errorf("Map result = %v", got)
	}
	if s["a"] != 2 {
		t.Error("Map must not mutate the receiver")
	}
}

func TestOperationsDoNotMutateInputs(t *testing.T) {
	a := New(map[types.DocID]float64{"x": 1})
	b := New(map[types.DocID]float64{"x": 2})
	_ = Multiply(a, b)
	_ = Max(a, b)
	_ = a.RemoveLowValues(0.5, 0)
	if a["x"] != 1 || b["x"] != 2 {
		t.Error("inputs were mutated")
	}
}
