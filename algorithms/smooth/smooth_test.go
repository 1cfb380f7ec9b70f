package smooth

import (
	"errors"
	"math"
	"testing"
)

func TestNewMedianValidation(t *testing.T) {
	if _, err := NewMedian(0); !errors.Is(err, ErrInvalidWindowSize) {
		t.Fatalf("expected ErrInvalidWindowSize, got %v", err)
	}
	if _, err := NewMedian(-3); !errors.Is(err, ErrInvalidWindowSize) {
		t.Fatalf("expected ErrInvalidWindowSize, got %v", err)
	}
	if _, err := NewMedian(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMedianRejectsSpike(t *testing.T) {
	m, err := NewMedian(3)
	if err != nil {
		t.Fatal(err)
	}

	inputs := []float64{100, 100, 100, 500, 100}
	want := []float64{100, 100, 100, 100, 100}

	for i, in := range inputs {
		if got := m.Push(in); got != want[i] {
			t.Errorf("push %d: median = %v, want %v", i, got, want[i])
		}
	}
}

func TestMedianEviction(t *testing.T) {
	m, err := NewMedian(3)
	if err != nil {
		t.Fatal(err)
	}

	// Once 100 has been evicted, the window is all 500s.
	for _, v := range []float64{100, 500, 500} {
		m.Push(v)
	}
	if got := m.Push(500); got != 500 {
		t.Errorf("median after eviction = %v, want 500", got)
	}
	if m.Len() != 3 {
		t.Errorf("window length = %d, want 3", m.Len())
	}
}

func TestMedianEvenWindowLowerMiddle(t *testing.T) {
	m, err := NewMedian(4)
	if err != nil {
		t.Fatal(err)
	}

	m.Push(10)
	m.Push(20)
	m.Push(30)
	// Window [10 20 30 40]: even length uses the lower-middle element.
	if got := m.Push(40); got != 20 {
		t.Errorf("even-window median = %v, want 20", got)
	}
}

func TestMedianReset(t *testing.T) {
	m, err := NewMedian(5)
	if err != nil {
		t.Fatal(err)
	}

	m.Push(100)
	m.Push(100)
	m.Reset()

	if m.Len() != 0 {
		t.Fatalf("window not empty after reset: %d", m.Len())
	}
	// Previous history must have no effect.
	if got := m.Push(300); got != 300 {
		t.Errorf("median after reset = %v, want 300", got)
	}
}

func TestNewEMAValidation(t *testing.T) {
	for _, alpha := range []float64{0, -0.1, 1.1} {
		if _, err := NewEMA(alpha); !errors.Is(err, ErrInvalidAlpha) {
			t.Errorf("alpha %v: expected ErrInvalidAlpha, got %v", alpha, err)
		}
	}
	if _, err := NewEMA(1); err != nil {
		t.Errorf("alpha 1 rejected: %v", err)
	}
}

func TestEMA(t *testing.T) {
	e, err := NewEMA(0.5)
	if err != nil {
		t.Fatal(err)
	}

	if got := e.Push(100); got != 100 {
		t.Errorf("first push = %v, want 100 (pass-through)", got)
	}
	if got := e.Push(200); got != 150 {
		t.Errorf("second push = %v, want 150", got)
	}

	v, primed := e.Value()
	if !primed || v != 150 {
		t.Errorf("Value() = %v, %v", v, primed)
	}
}

func TestEMALowAlphaAdaptsSlowly(t *testing.T) {
	slow, _ := NewEMA(0.1)
	fast, _ := NewEMA(0.9)

	slow.Push(100)
	fast.Push(100)
	s := slow.Push(200)
	f := fast.Push(200)

	if s >= f {
		t.Errorf("low alpha should lag: slow %v, fast %v", s, f)
	}
	if math.Abs(s-110) > 1e-12 || math.Abs(f-190) > 1e-12 {
		t.Errorf("unexpected values: slow %v fast %v", s, f)
	}
}

func TestEMAReset(t *testing.T) {
	e, err := NewEMA(0.25)
	if err != nil {
		t.Fatal(err)
	}

	e.Push(100)
	e.Reset()

	if _, primed := e.Value(); primed {
		t.Fatal("still primed after reset")
	}
	if got := e.Push(400); got != 400 {
		t.Errorf("first push after reset = %v, want 400", got)
	}
}
