// Package sqem implements the Sphere Quadric Error Metric.
//
// An SQEM is a quadratic form over 4D sphere space s = (x, y, z, r):
//
//	Q(s) = sᵀ A s - 2 bᵀ s + c
//
// For a plane through p with unit normal n, Q(s) is the squared signed
// distance between the plane and the sphere of center (x, y, z) and radius r,
// so its zero set is every sphere tangent to the plane on the side opposite
// the normal. Summing plane metrics gives the metric of a surface patch, and
// minimizing the sum gives the sphere that best fits that patch.
//
// References:
//   - Thiery, Guy, Boubekeur: "Sphere-Meshes: Shape Approximation using
//     Spherical Quadric Error Metrics" (2013)
package sqem

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultRegularization is the ridge weight, relative to the mean diagonal
	// of A, pulling the solution toward the edge midpoint with zero radius.
	// It keeps rank-deficient metrics (flat or empty patches) solvable.
	DefaultRegularization = 1e-6

	// minRidge keeps the system positive definite when A is the zero matrix.
	minRidge = 1e-12
)

// SQEM is a symmetric quadratic form over (center, radius).
// The zero value is the identity for Add.
type SQEM struct {
	A mgl64.Mat4
	B mgl64.Vec4
	C float64
}

// Zero returns the empty metric.
func Zero() SQEM {
	return SQEM{}
}

// FromPlane builds the metric of the plane through point with the given normal.
// The normal is normalized; a zero normal yields the zero metric.
func FromPlane(point, normal mgl64.Vec3) SQEM {
	length := normal.Len()
	if length < 1e-12 {
		return SQEM{}
	}
	n := normal.Mul(1.0 / length).Vec4(1)
	d := n.Dot(point.Vec4(0))

	return SQEM{
		A: outer(n, n),
		B: n.Mul(d),
		C: d * d,
	}
}

// Add returns q + o.
func (q SQEM) Add(o SQEM) SQEM {
	return SQEM{
		A: q.A.Add(o.A),
		B: q.B.Add(o.B),
		C: q.C + o.C,
	}
}

// Scale returns w * q.
func (q SQEM) Scale(w float64) SQEM {
	return SQEM{
		A: q.A.Mul(w),
		B: q.B.Mul(w),
		C: q.C * w,
	}
}

// Evaluate returns Q(s) for the sphere s = (center, radius).
func (q SQEM) Evaluate(s mgl64.Vec4) float64 {
	return s.Dot(q.A.Mul4x1(s)) - 2*q.B.Dot(s) + q.C
}

// EvaluateSphere is Evaluate for a center and radius given separately.
func (q SQEM) EvaluateSphere(center mgl64.Vec3, radius float64) float64 {
	return q.Evaluate(center.Vec4(radius))
}

// IsZero reports whether q is the empty metric.
func (q SQEM) IsZero() bool {
	return q == SQEM{}
}

// Minimize returns the sphere minimizing q for the edge (a, b) together with
// the residual cost, using DefaultRegularization.
func (q SQEM) Minimize(a, b mgl64.Vec3) (center mgl64.Vec3, radius, cost float64) {
	return q.MinimizeRegularized(a, b, DefaultRegularization)
}

// MinimizeRegularized returns the sphere minimizing q for the edge (a, b).
//
// The 4x4 system is solved with a ridge of weight lambda toward the sphere
// (midpoint(a, b), 0). A negative radius is clamped by re-solving the 3x3
// center block with r = 0. The result is then compared against spheres
// centered on a, b and their midpoint, each with its best non-negative
// radius, and the cheapest wins. Results are always finite, radius and cost
// are never negative.
func (q SQEM) MinimizeRegularized(a, b mgl64.Vec3, lambda float64) (center mgl64.Vec3, radius, cost float64) {
	mid := a.Add(b).Mul(0.5)
	ridge := math.Max(lambda*q.A.Trace()/4, minRidge)

	best := mid.Vec4(0)
	bestCost := math.Inf(1)

	if s, ok := q.solve(mid.Vec4(0), ridge); ok {
		best, bestCost = s, q.Evaluate(s)
	}

	for _, c := range [3]mgl64.Vec3{mid, a, b} {
		s := c.Vec4(q.bestRadius(c))
		if e := q.Evaluate(s); e < bestCost {
			best, bestCost = s, e
		}
	}

	if math.IsInf(bestCost, 0) || math.IsNaN(bestCost) {
		return mid, 0, 0
	}

	return best.Vec3(), best.W(), math.Max(bestCost, 0)
}

// solve minimizes Q(s) + ridge*|s - s0|², falling back to r = 0 when the
// unconstrained radius is negative.
func (q SQEM) solve(s0 mgl64.Vec4, ridge float64) (mgl64.Vec4, bool) {
	x, ok := solveSPD(4, q.A.At, func(i int) float64 {
		return q.B[i] + ridge*s0[i]
	}, ridge)
	if !ok {
		return mgl64.Vec4{}, false
	}
	s := mgl64.Vec4{x[0], x[1], x[2], x[3]}
	if s.W() >= 0 {
		return s, finite(s)
	}

	// With r pinned to 0 the radius column drops out of the system.
	x, ok = solveSPD(3, q.A.At, func(i int) float64 {
		return q.B[i] + ridge*s0[i]
	}, ridge)
	if !ok {
		return mgl64.Vec4{}, false
	}
	s = mgl64.Vec4{x[0], x[1], x[2], 0}
	return s, finite(s)
}

// bestRadius returns the non-negative radius minimizing Q for a fixed center.
func (q SQEM) bestRadius(c mgl64.Vec3) float64 {
	arr := q.A.At(3, 3)
	if arr < 1e-12 {
		return 0
	}
	// dQ/dr = 2(A₃·s - b₃) = 0 with s = (c, r)
	r := (q.B[3] - q.A.At(3, 0)*c[0] - q.A.At(3, 1)*c[1] - q.A.At(3, 2)*c[2]) / arr
	if r < 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// solveSPD solves (M + ridge*I) x = rhs for the leading n×n block of M.
func solveSPD(n int, at func(row, col int) float64, rhs func(i int) float64, ridge float64) ([]float64, bool) {
	sym := mat.NewSymDense(n, nil)
	b := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			v := at(i, j)
			if i == j {
				v += ridge
			}
			sym.SetSym(i, j, v)
		}
		b.SetVec(i, rhs(i))
	}

	var chol mat.Cholesky
	if !chol.Factorize(sym) {
		return nil, false
	}
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, b); err != nil {
		return nil, false
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return out, true
}

func outer(u, v mgl64.Vec4) mgl64.Mat4 {
	var m mgl64.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			m.Set(row, col, u[row]*v[col])
		}
	}
	return m
}

func finite(v mgl64.Vec4) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
