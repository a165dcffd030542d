// Package lstsq implements small dense ordinary-least-squares fits: the
// polynomial detrending, reference-to-signal regression, and lagged
// causality predictors all reduce to problems with a handful of unknowns,
// so normal equations with partial pivoting are accurate enough and keep
// the hot path allocation-light.
package lstsq

import (
	"errors"
	"math"
)

// Errors returned by the solvers.
var (
	ErrBadShape = errors.New("lstsq: rows/columns mismatch or empty system")
	ErrSingular = errors.New("lstsq: singular normal equations")
)

// Fit solves min ||X·b - y||² for b. Each row of x holds the regressor
// values for one observation; len(x) must equal len(y) and every row must
// have the same width.
func Fit(x [][]float64, y []float64) ([]float64, error) {
	rows := len(x)
	if rows == 0 || rows != len(y) {
		return nil, ErrBadShape
	}
	cols := len(x[0])
	if cols == 0 || rows < cols {
		return nil, ErrBadShape
	}

	// Normal equations: (XᵀX) b = Xᵀy.
	xtx := make([][]float64, cols)
	for i := range xtx {
		xtx[i] = make([]float64, cols)
	}
	xty := make([]float64, cols)

	for r := 0; r < rows; r++ {
		row := x[r]
		if len(row) != cols {
			return nil, ErrBadShape
		}
		for i := 0; i < cols; i++ {
			xty[i] += row[i] * y[r]
			for j := i; j < cols; j++ {
				xtx[i][j] += row[i] * row[j]
			}
		}
	}
	for i := 1; i < cols; i++ {
		for j := 0; j < i; j++ {
			xtx[i][j] = xtx[j][i]
		}
	}

	return solve(xtx, xty)
}

// solve performs Gaussian elimination with partial pivoting in place.
func solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)

	for col := 0; col < n; col++ {
		pivot := col
		maxAbs := math.Abs(a[col][col])
		for r := col + 1; r < n; r++ {
			if abs := math.Abs(a[r][col]); abs > maxAbs {
				maxAbs = abs
				pivot = r
			}
		}
		if maxAbs < 1e-12 {
			return nil, ErrSingular
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
			b[col], b[pivot] = b[pivot], b[col]
		}

		for r := col + 1; r < n; r++ {
			f := a[r][col] / a[col][col]
			if f == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	out := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * out[c]
		}
		out[r] = sum / a[r][r]
	}

	return out, nil
}

// PolyFit fits a polynomial of the given degree to (x, y) and returns the
// coefficients in ascending-power order.
func PolyFit(x, y []float64, degree int) ([]float64, error) {
	if degree < 0 || len(x) != len(y) || len(x) <= degree {
		return nil, ErrBadShape
	}

	rows := make([][]float64, len(x))
	for r, xv := range x {
		row := make([]float64, degree+1)
		p := 1.0
		for c := 0; c <= degree; c++ {
			row[c] = p
			p *= xv
		}
		rows[r] = row
	}

	return Fit(rows, y)
}

// PolyVal evaluates ascending-power coefficients at every x via Horner's rule.
func PolyVal(coeffs, x []float64) []float64 {
	out := make([]float64, len(x))
	for i, xv := range x {
		var acc float64
		for c := len(coeffs) - 1; c >= 0; c-- {
			acc = acc*xv + coeffs[c]
		}
		out[i] = acc
	}

	return out
}

// Line fits y = slope*x + intercept by the closed-form least-squares
// solution. Returns ErrSingular when x has (near) zero variance.
func Line(x, y []float64) (slope, intercept float64, err error) {
	n := len(x)
	if n == 0 || n != len(y) {
		return 0, 0, ErrBadShape
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
	}
	if sxx < 1e-18 {
		return 0, 0, ErrSingular
	}

	slope = sxy / sxx
	intercept = meanY - slope*meanX

	return slope, intercept, nil
}
