package depthmask

import (
	"errors"
	"testing"
)

func TestMaskStrictBounds(t *testing.T) {
	distances := []int16{799, 800, 801, 3999, 4000, 4001}
	got, err := Mask(distances, 6, 1, Threshold{Min: 800, Max: 4000})
	if err != nil {
		t.Fatalf("Mask() error = %v", err)
	}
	want := []Pixel{OutOfRange, OutOfRange, InRange, InRange, OutOfRange, OutOfRange}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMaskDimensionMismatch(t *testing.T) {
	_, err := Mask([]int16{1, 2, 3}, 2, 2, Threshold{Min: 0, Max: 10})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}

func TestMaskInvalidThreshold(t *testing.T) {
	_, err := Mask([]int16{1}, 1, 1, Threshold{Min: 10, Max: 10})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestMaskNeverUndefined(t *testing.T) {
	distances := make([]int16, 100)
	got, err := Mask(distances, 10, 10, Threshold{Min: 0, Max: 1})
	if err != nil {
		t.Fatalf("Mask() error = %v", err)
	}
	for i, p := range got {
		if p == Undefined {
			t.Fatalf("pixel[%d] = Undefined, Mask must never emit it", i)
		}
	}
}

func TestAtOutOfBounds(t *testing.T) {
	mask := []Pixel{InRange, InRange, InRange, InRange}
	if got := At(mask, 2, 2, -1, 0); got != OutOfRange {
		t.Errorf("At(-1,0) = %v, want OutOfRange", got)
	}
	if got := At(mask, 2, 2, 2, 0); got != OutOfRange {
		t.Errorf("At(2,0) = %v, want OutOfRange", got)
	}
	if got := At(mask, 2, 2, 0, 0); got != InRange {
		t.Errorf("At(0,0) = %v, want InRange", got)
	}
}

func TestMaskParallelMatchesSerial(t *testing.T) {
	width, height := 50, 40
	distances := make([]int16, width*height)
	for i := range distances {
		distances[i] = int16(i % 5000)
	}
	threshold := Threshold{Min: 1000, Max: 4000}

	parallel, err := Mask(distances, width, height, threshold)
	if err != nil {
		t.Fatalf("Mask() error = %v", err)
	}

	serial := make([]Pixel, len(distances))
	maskRows(distances, serial, 0, height, width, threshold)

	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("pixel[%d]: serial=%v parallel=%v", i, serial[i], parallel[i])
		}
	}
}
