package worklist

import (
	"testing"
)

func TestStartVisitsInFIFOOrder(t *testing.T) {
	var seen []int
	Start(1, func(next int, add func(int)) {
		seen = append(seen, next)
		if next < 4 {
			add(next * 2)
			add(next*2 + 1)
		}
	})

	expected := []int{1, 2, 3, 4, 5, 6, 7}
	if len(seen) != len(expected) {
		t.Fatalf("visited %v, expected %v", seen, expected)
	}
	for i := range expected {
		if seen[i] != expected[i] {
			t.Errorf("visited %v, expected %v", seen, expected)
			break
		}
	}
}

func TestProcessTracksDepth(t *testing.T) {
	w := Empty[int]()
	w.Add(0)
	w.Add(0)

	deepest := 0
	w.Process(func(next, depth int, add func(int)) {
		if depth != next {
			t.Errorf("element %d reported at depth %d", next, depth)
		}
		deepest = depth
		if next < 3 {
			add(next + 1)
		}
	})
	if deepest != 3 {
		t.Errorf("deepest = %d, expected 3", deepest)
	}
}
