package mesh

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Sphere is the sphere carried by a vertex.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// Segment is an edge seen as the cone-sphere blending its two end spheres.
type Segment struct {
	A, B Sphere
}

// Triangle is a face with its corner positions resolved.
type Triangle struct {
	Points [3]mgl64.Vec3
	Normal mgl64.Vec3
}

// Spheres returns the sphere of every vertex whose radius is at least minRadius.
func (m *Mesh) Spheres(minRadius float64) []Sphere {
	out := make([]Sphere, 0, m.NumVertices())
	for _, v := range m.Vertices() {
		if v.Radius >= minRadius {
			out = append(out, Sphere{Center: v.Position, Radius: v.Radius})
		}
	}
	return out
}

// Segments returns every edge whose two end radii are at least minRadius.
func (m *Mesh) Segments(minRadius float64) []Segment {
	out := make([]Segment, 0, m.NumEdges())
	for _, e := range m.Edges() {
		a, b := m.Vertex(e.V[0]), m.Vertex(e.V[1])
		if a.Radius < minRadius || b.Radius < minRadius {
			continue
		}
		out = append(out, Segment{
			A: Sphere{Center: a.Position, Radius: a.Radius},
			B: Sphere{Center: b.Position, Radius: b.Radius},
		})
	}
	return out
}

// Triangles returns every face with its corner positions and normal.
func (m *Mesh) Triangles() []Triangle {
	out := make([]Triangle, 0, m.NumFaces())
	for _, f := range m.Faces() {
		out = append(out, Triangle{
			Points: [3]mgl64.Vec3{
				m.Vertex(f.V[0]).Position,
				m.Vertex(f.V[1]).Position,
				m.Vertex(f.V[2]).Position,
			},
			Normal: f.Normal,
		})
	}
	return out
}

// Export numbers the vertices in store order, recording the number in
// Vertex.ID, and returns their positions and the corner indices of every face.
func (m *Mesh) Export() (positions []mgl64.Vec3, indices []uint32) {
	positions = make([]mgl64.Vec3, 0, m.NumVertices())
	for _, v := range m.Vertices() {
		v.ID = len(positions)
		positions = append(positions, v.Position)
	}

	indices = make([]uint32, 0, 3*m.NumFaces())
	for _, f := range m.Faces() {
		for _, c := range f.V {
			indices = append(indices, uint32(m.Vertex(c).ID))
		}
	}
	return positions, indices
}
