package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Center returns the midpoint of the box
func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Size returns the extent of the box along each axis
func (a AABB) Size() mgl64.Vec3 {
	return a.Max.Sub(a.Min)
}

// Bounds returns the bounding box of all vertex positions.
// An empty mesh has a zero box at the origin.
func (m *Mesh) Bounds() AABB {
	if m.NumVertices() == 0 {
		return AABB{}
	}

	min := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.Vertices() {
		for i := 0; i < 3; i++ {
			min[i] = math.Min(min[i], v.Position[i])
			max[i] = math.Max(max[i], v.Position[i])
		}
	}

	return AABB{Min: min, Max: max}
}
