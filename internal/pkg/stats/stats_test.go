package stats

import (
	"math"
	"math/rand"
	"testing"
)

const eps = 1e-9

func TestPearsonPerfectLinear(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 6}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = 3*x + 7
	}
	if r := Pearson(xs, ys); math.Abs(r-1) > eps {
		t.Fatalf("Pearson(linear) = %v, want 1", r)
	}
	for i, x := range xs {
		ys[i] = -2*x + 1
	}
	if r := Pearson(xs, ys); math.Abs(r+1) > eps {
		t.Fatalf("Pearson(negative linear) = %v, want -1", r)
	}
}

func TestPearsonDegenerate(t *testing.T) {
	cases := []struct {
		name   string
		xs, ys []float64
	}{
		{"constant x", []float64{4, 4, 4, 4}, []float64{1, 2, 3, 4}},
		{"constant y", []float64{1, 2, 3, 4}, []float64{9, 9, 9, 9}},
		{"single sample", []float64{1}, []float64{2}},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}},
		{"empty", nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Pearson(tc.xs, tc.ys)
			if r != 0 || math.IsNaN(r) {
				t.Fatalf("Pearson = %v, want 0", r)
			}
		})
	}
}

func TestPearsonBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 500; trial++ {
		n := 2 + rng.Intn(60)
		xs := make([]float64, n)
		ys := make([]float64, n)
		for i := 0; i < n; i++ {
			xs[i] = rng.NormFloat64() * 100
			ys[i] = rng.NormFloat64()*5 + xs[i]*rng.Float64()
		}
		r := Pearson(xs, ys)
		if r < -1 || r > 1 || math.IsNaN(r) {
			t.Fatalf("trial %d: Pearson out of bounds: %v", trial, r)
		}
	}
}

func TestVariance(t *testing.T) {
	if v := Variance(nil); v != 0 {
		t.Fatalf("Variance(nil) = %v", v)
	}
	if v := Variance([]float64{5}); v != 0 {
		t.Fatalf("Variance(single) = %v", v)
	}
	// population variance of 2,4,4,4,5,5,7,9 is 4
	if v := Variance([]float64{2, 4, 4, 4, 5, 5, 7, 9}); math.Abs(v-4) > eps {
		t.Fatalf("Variance = %v, want 4", v)
	}
}

func TestLinearTrendSlope(t *testing.T) {
	if s := LinearTrendSlope([]float64{1, 2}); s != 0 {
		t.Fatalf("slope with n<3 = %v", s)
	}
	if s := LinearTrendSlope([]float64{1, 3, 5, 7}); math.Abs(s-2) > eps {
		t.Fatalf("slope = %v, want 2", s)
	}
	if s := LinearTrendSlope([]float64{6, 6, 6}); s != 0 {
		t.Fatalf("flat slope = %v", s)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(11, 1, 10) != 10 || Clamp(-3, 1, 10) != 1 || Clamp(4.5, 1, 10) != 4.5 {
		t.Fatalf("Clamp mismatch")
	}
}
