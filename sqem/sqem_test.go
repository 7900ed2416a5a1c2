package sqem

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vec3ApproxEqual(a, b mgl64.Vec3, tolerance float64) bool {
	return math.Abs(a.X()-b.X()) < tolerance &&
		math.Abs(a.Y()-b.Y()) < tolerance &&
		math.Abs(a.Z()-b.Z()) < tolerance
}

// cubePlanes returns the metric of the six faces of the axis-aligned cube
// of half extent h centered at c, normals pointing outward.
func cubePlanes(c mgl64.Vec3, h float64) SQEM {
	q := Zero()
	for _, n := range []mgl64.Vec3{
		{1, 0, 0}, {-1, 0, 0},
		{0, 1, 0}, {0, -1, 0},
		{0, 0, 1}, {0, 0, -1},
	} {
		q = q.Add(FromPlane(c.Add(n.Mul(h)), n))
	}
	return q
}

func TestFromPlane_Evaluate(t *testing.T) {
	p := mgl64.Vec3{0, 0, 0}
	n := mgl64.Vec3{0, 0, 1}
	q := FromPlane(p, n)

	tests := []struct {
		name     string
		center   mgl64.Vec3
		radius   float64
		expected float64
	}{
		{name: "point on plane", center: mgl64.Vec3{3, -2, 0}, radius: 0, expected: 0},
		{name: "point above plane", center: mgl64.Vec3{0, 0, 2}, radius: 0, expected: 4},
		{name: "point below plane", center: mgl64.Vec3{1, 1, -3}, radius: 0, expected: 9},
		{name: "tangent sphere behind plane", center: mgl64.Vec3{5, 5, -0.5}, radius: 0.5, expected: 0},
		{name: "sphere crossing plane", center: mgl64.Vec3{0, 0, 0}, radius: 1, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := q.EvaluateSphere(tt.center, tt.radius)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Evaluate(%v, %v) = %v, want %v", tt.center, tt.radius, got, tt.expected)
			}
		})
	}
}

func TestFromPlane_NormalIsNormalized(t *testing.T) {
	a := FromPlane(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 4, 0})
	b := FromPlane(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 1, 0})

	s := mgl64.Vec4{0.3, -1, 7, 0.2}
	if math.Abs(a.Evaluate(s)-b.Evaluate(s)) > 1e-9 {
		t.Errorf("scaled normal changed the metric: %v vs %v", a.Evaluate(s), b.Evaluate(s))
	}
}

func TestFromPlane_ZeroNormal(t *testing.T) {
	q := FromPlane(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{})
	if !q.IsZero() {
		t.Errorf("zero normal should give the zero metric, got %+v", q)
	}
}

func TestAddAndScaleAreLinear(t *testing.T) {
	a := FromPlane(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{0, 0, 1})
	b := FromPlane(mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 1, 0})
	samples := []mgl64.Vec4{
		{0, 0, 0, 0},
		{1, 2, 3, 0.5},
		{-4, 0.25, 1, 2},
	}

	for _, s := range samples {
		sum := a.Add(b).Evaluate(s)
		if want := a.Evaluate(s) + b.Evaluate(s); math.Abs(sum-want) > 1e-9 {
			t.Errorf("(a+b)(%v) = %v, want %v", s, sum, want)
		}
		scaled := a.Scale(2.5).Evaluate(s)
		if want := 2.5 * a.Evaluate(s); math.Abs(scaled-want) > 1e-9 {
			t.Errorf("(2.5a)(%v) = %v, want %v", s, scaled, want)
		}
	}

	if Zero().Add(a) != a {
		t.Errorf("Zero should be the identity of Add")
	}
}

func TestMinimize_ZeroMetric(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{2, 4, -6}

	center, radius, cost := Zero().Minimize(a, b)

	for _, v := range []float64{center.X(), center.Y(), center.Z(), radius, cost} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("Minimize on zero metric produced non-finite result: %v %v %v", center, radius, cost)
		}
	}
	if radius < 0 {
		t.Errorf("radius = %v, want >= 0", radius)
	}
	if cost != 0 {
		t.Errorf("cost = %v, want 0", cost)
	}
	if !vec3ApproxEqual(center, mgl64.Vec3{1, 2, -3}, 1e-9) {
		t.Errorf("center = %v, want edge midpoint", center)
	}
}

func TestMinimize_CubeInscribedSphere(t *testing.T) {
	tests := []struct {
		name   string
		center mgl64.Vec3
		half   float64
	}{
		{name: "unit cube at origin", center: mgl64.Vec3{0, 0, 0}, half: 1},
		{name: "offset cube", center: mgl64.Vec3{3, -1, 2}, half: 0.5},
		{name: "large cube", center: mgl64.Vec3{-10, 0, 10}, half: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := cubePlanes(tt.center, tt.half)
			a := tt.center.Sub(mgl64.Vec3{tt.half, tt.half, tt.half})
			b := tt.center.Add(mgl64.Vec3{tt.half, tt.half, tt.half})

			center, radius, cost := q.Minimize(a, b)

			if !vec3ApproxEqual(center, tt.center, 1e-4*tt.half) {
				t.Errorf("center = %v, want %v", center, tt.center)
			}
			if math.Abs(radius-tt.half) > 1e-4*tt.half {
				t.Errorf("radius = %v, want %v", radius, tt.half)
			}
			if cost > 1e-6 {
				t.Errorf("cost = %v, want ~0", cost)
			}
		})
	}
}

func TestMinimize_NegativeRadiusIsClamped(t *testing.T) {
	q := FromPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 1})

	center, radius, cost := q.Minimize(mgl64.Vec3{0, 0, 2}, mgl64.Vec3{0, 0, 4})

	if radius != 0 {
		t.Errorf("radius = %v, want 0", radius)
	}
	if math.Abs(center.Z()) > 1e-4 {
		t.Errorf("center = %v, want a point on the plane", center)
	}
	if cost > 1e-6 {
		t.Errorf("cost = %v, want ~0", cost)
	}
}

func TestMinimize_TriangleFace(t *testing.T) {
	p0 := mgl64.Vec3{0, 0, 0}
	p1 := mgl64.Vec3{1, 0, 0}
	p2 := mgl64.Vec3{0, 1, 0}
	normal := p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	q := FromPlane(p0, normal)

	center, radius, cost := q.Minimize(p0, p1)
	if math.Abs(center.Z())+radius > 1e-4 {
		t.Errorf("optimum (%v, %v) should lie near the face plane", center, radius)
	}
	if cost > 1e-6 {
		t.Errorf("cost = %v, want ~0", cost)
	}

	centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)
	onPlane := q.EvaluateSphere(centroid, 0)
	offPlane := q.EvaluateSphere(centroid.Add(normal.Mul(2)), 0)
	if onPlane > 1e-12 {
		t.Errorf("cost on plane = %v, want ~0", onPlane)
	}
	if offPlane <= onPlane {
		t.Errorf("cost off plane %v should exceed cost on plane %v", offPlane, onPlane)
	}
}

func TestMinimize_DegenerateEdge(t *testing.T) {
	p := mgl64.Vec3{1, 1, 1}
	q := FromPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}).
		Add(FromPlane(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}))

	center, radius, cost := q.Minimize(p, p)

	for _, v := range []float64{center.X(), center.Y(), center.Z(), radius, cost} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("non-finite result: %v %v %v", center, radius, cost)
		}
	}
	if radius < 0 || cost < 0 {
		t.Errorf("radius %v and cost %v must be non-negative", radius, cost)
	}
}

func BenchmarkMinimize(b *testing.B) {
	q := cubePlanes(mgl64.Vec3{0, 0, 0}, 1)
	lo := mgl64.Vec3{-1, -1, -1}
	hi := mgl64.Vec3{1, 1, 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Minimize(lo, hi)
	}
}
