package lstsq

import (
	"math"
	"testing"
)

func TestLineRecoversSlopeIntercept(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, xv := range x {
		y[i] = 2.5*xv - 1.25
	}

	slope, intercept, err := Line(x, y)
	if err != nil {
		t.Fatalf("Line: %v", err)
	}
	if math.Abs(slope-2.5) > 1e-12 || math.Abs(intercept+1.25) > 1e-12 {
		t.Fatalf("got slope=%v intercept=%v, want 2.5 and -1.25", slope, intercept)
	}
}

func TestLineRejectsZeroVariance(t *testing.T) {
	x := []float64{3, 3, 3, 3}
	y := []float64{1, 2, 3, 4}
	if _, _, err := Line(x, y); err != ErrSingular {
		t.Fatalf("got %v, want ErrSingular", err)
	}
}

func TestPolyFitQuadratic(t *testing.T) {
	x := make([]float64, 50)
	y := make([]float64, 50)
	for i := range x {
		x[i] = float64(i) / 49
		y[i] = 3 - 2*x[i] + 0.5*x[i]*x[i]
	}

	coeffs, err := PolyFit(x, y, 2)
	if err != nil {
		t.Fatalf("PolyFit: %v", err)
	}
	want := []float64{3, -2, 0.5}
	for i := range want {
		if math.Abs(coeffs[i]-want[i]) > 1e-9 {
			t.Fatalf("coeff[%d]=%v, want %v", i, coeffs[i], want[i])
		}
	}

	eval := PolyVal(coeffs, x)
	for i := range eval {
		if math.Abs(eval[i]-y[i]) > 1e-9 {
			t.Fatalf("PolyVal[%d]=%v, want %v", i, eval[i], y[i])
		}
	}
}

func TestPolyFitBadShapes(t *testing.T) {
	if _, err := PolyFit([]float64{1, 2}, []float64{1}, 1); err != ErrBadShape {
		t.Fatalf("length mismatch: got %v", err)
	}
	if _, err := PolyFit([]float64{1, 2}, []float64{1, 2}, 2); err != ErrBadShape {
		t.Fatalf("underdetermined: got %v", err)
	}
}

func TestFitMultipleRegressors(t *testing.T) {
	// y = 1 + 2*a + 3*b over a small grid.
	var x [][]float64
	var y []float64
	for a := 0.0; a < 4; a++ {
		for b := 0.0; b < 4; b++ {
			x = append(x, []float64{1, a, b})
			y = append(y, 1+2*a+3*b)
		}
	}

	beta, err := Fit(x, y)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	want := []float64{1, 2, 3}
	for i := range want {
		if math.Abs(beta[i]-want[i]) > 1e-9 {
			t.Fatalf("beta[%d]=%v, want %v", i, beta[i], want[i])
		}
	}
}

func TestFitSingular(t *testing.T) {
	// Duplicated column makes the normal equations singular.
	x := [][]float64{{1, 1}, {2, 2}, {3, 3}}
	y := []float64{1, 2, 3}
	if _, err := Fit(x, y); err != ErrSingular {
		t.Fatalf("got %v, want ErrSingular", err)
	}
}
