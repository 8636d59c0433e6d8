package smooth

import (
	"errors"
	"testing"

	"github.com/ayusman/handtrace/internal/finger"
	"github.com/ayusman/handtrace/internal/vector"
)

func TestVector3Example(t *testing.T) {
	got := Vector3(vector.New(10, 20, 30), vector.New(0, 0, 0), 0.5)
	want := vector.New(5, 10, 15)
	if got != want {
		t.Errorf("Vector3() = %v, want %v", got, want)
	}
}

func TestVector3IdempotentOnConstantStream(t *testing.T) {
	v := vector.New(7, -3, 2)
	for _, alpha := range []float64{0.1, 0.5, 0.9} {
		if got := Vector3(v, v, alpha); got != v {
			t.Errorf("Vector3(v,v,%v) = %v, want %v", alpha, got, v)
		}
	}
}

func TestHandInvalidAlpha(t *testing.T) {
	_, err := Hand(finger.Hand{}, finger.Hand{}, 0)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
	_, err = Hand(finger.Hand{}, finger.Hand{}, 1)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}

func TestEMAExample(t *testing.T) {
	obs := []vector.Vector{
		vector.New(0, 0, 0),
		vector.New(2, 0, 0),
		vector.New(4, 0, 0),
		vector.New(6, 0, 0),
	}
	got := EMA(obs, 0.5)
	want := vector.New(1.75, 0, 0)
	if got != want {
		t.Errorf("EMA() = %v, want %v", got, want)
	}
}

func TestEMAConstantStream(t *testing.T) {
	v := vector.New(3, 3, 3)
	obs := []vector.Vector{v, v, v, v, v}
	if got := EMA(obs, 0.5); got != v {
		t.Errorf("EMA(constant) = %v, want %v", got, v)
	}
}

func TestPredictExample(t *testing.T) {
	obs := []vector.Vector{
		vector.New(0, 0, 0),
		vector.New(2, 0, 0),
		vector.New(4, 0, 0),
		vector.New(6, 0, 0),
	}
	got := Predict(obs, 0.5)
	want := vector.New(10.25, 0, 0)
	if got != want {
		t.Errorf("Predict() = %v, want %v", got, want)
	}
}

func TestPredictHandInvalidWeight(t *testing.T) {
	_, err := PredictHand([]finger.Hand{{}}, 1.5)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("error = %v, want ErrInvalidParameter", err)
	}
}
