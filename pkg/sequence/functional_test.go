package sequence

import (
	"reflect"
	"testing"
)

func TestFromCollect(t *testing.T) {
	in := []int{3, 1, 2}
	got := From(in).Collect()
	if !reflect.DeepEqual(got, in) {
		t.Errorf("Collect() = %v, want %v", got, in)
	}

	if got = From([]int(nil)).Collect(); got != nil {
		t.Errorf("Collect() of empty = %v", got)
	}
}

func TestSort(t *testing.T) {
	got := From([]int{3, 1, 2}).Sort(func(a, b int) bool { return a < b }).Collect()
	want := []int{1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sort() = %v, want %v", got, want)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := []string{"b", "a"}
	From(in).Sort(func(a, b string) bool { return a < b }).Collect()
	if in[0] != "b" {
		t.Errorf("input mutated: %v", in)
	}
}

func TestPull(t *testing.T) {
	next, stop := From([]int{10, 20}).Pull()
	defer stop()

	v, ok := next()
	if !ok || v != 10 {
		t.Fatalf("first = %d, %v", v, ok)
	}
	v, ok = next()
	if !ok || v != 20 {
		t.Fatalf("second = %d, %v", v, ok)
	}
	if _, ok = next(); ok {
		t.Fatal("next() valid past the end")
	}
}

func TestSeqEarlyStop(t *testing.T) {
	var seen []int
	for v := range From([]int{1, 2, 3}).Seq() {
		seen = append(seen, v)
		if len(seen) == 2 {
			break
		}
	}
	if len(seen) != 2 {
		t.Errorf("seen = %v", seen)
	}
}
