// Package mesh implements a dynamic triangle mesh supporting incremental
// local mutation, most notably topology-preserving edge collapse.
//
// The Mesh exclusively owns every Vertex, Edge and Face. Elements refer to
// each other through ids (vertex -> incident edges, edge -> endpoints and
// faces, face -> corners) that are unlinked before the referenced element is
// destroyed. Per-vertex face sets are not stored; VertexFaces walks the
// incident edges on demand.
package mesh

import (
	"iter"
	"log/slog"
	"math"
	"slices"

	"github.com/akmonengine/spheremesh/arena"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Mesh is a vertex/edge/face incidence structure.
// The zero value is an empty mesh ready to use.
type Mesh struct {
	// Logger receives build summaries. Nil discards them.
	Logger *slog.Logger

	vertices arena.List[Vertex]
	edges    arena.List[Edge]
	faces    arena.List[Face]
}

// New builds a mesh from triangle soup, see Set.
func New(vertices []mgl64.Vec3, indices []uint32) (*Mesh, error) {
	m := &Mesh{}
	if err := m.Set(vertices, indices); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mesh) logger() *slog.Logger {
	if m.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return m.Logger
}

// Set replaces the content of m with the triangles of an indexed list.
// Every three successive indices form a triangle in CCW order. Edges shared
// by adjacent triangles are created once.
//
// Set fails without building anything if len(indices) is not a multiple of
// three or an index is out of range. Triangles repeating a corner are skipped.
func (m *Mesh) Set(vertices []mgl64.Vec3, indices []uint32) error {
	m.Clear()

	if len(indices)%3 != 0 {
		return errors.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return errors.Errorf("index %d at position %d out of range [0, %d)", idx, i, len(vertices))
		}
	}

	ids := make([]VertexID, len(vertices))
	for i, p := range vertices {
		ids[i] = VertexID(m.vertices.Add(Vertex{Position: p}))
	}

	skipped := 0
	for i := 0; i+2 < len(indices); i += 3 {
		corners := [3]VertexID{ids[indices[i]], ids[indices[i+1]], ids[indices[i+2]]}
		if corners[0] == corners[1] || corners[1] == corners[2] || corners[2] == corners[0] {
			skipped++
			continue
		}

		f := FaceID(m.faces.Add(Face{V: corners}))
		m.updateNormal(f)

		for j := 0; j < 3; j++ {
			a, b := corners[j], corners[(j+1)%3]
			e := m.EdgeBetween(a, b)
			if e.IsNil() {
				e = m.addEdge(a, b)
			}
			m.Edge(e).addFace(f)
		}
	}

	if skipped > 0 {
		m.logger().Warn("skipped degenerate triangles", "count", skipped)
	}
	m.logger().Info("dynamic mesh built",
		"vertices", m.NumVertices(),
		"edges", m.NumEdges(),
		"faces", m.NumFaces())

	return nil
}

// Clear removes every vertex, edge and face. Outstanding ids become stale.
func (m *Mesh) Clear() {
	m.vertices.Clear()
	m.edges.Clear()
	m.faces.Clear()
}

func (m *Mesh) NumVertices() int { return m.vertices.Len() }
func (m *Mesh) NumEdges() int    { return m.edges.Len() }
func (m *Mesh) NumFaces() int    { return m.faces.Len() }

// Vertex returns the vertex referenced by id. It panics on a stale id.
// The pointer is valid until the next element is added to m.
func (m *Mesh) Vertex(id VertexID) *Vertex {
	invariant(m.vertices.Valid(arena.Handle(id)), "stale vertex %v", id)
	return m.vertices.Get(arena.Handle(id))
}

// Edge returns the edge referenced by id, which may be an extracted tombstone.
// It panics on a stale id.
func (m *Mesh) Edge(id EdgeID) *Edge {
	invariant(m.edges.Valid(arena.Handle(id)), "stale edge %v", id)
	return m.edges.Get(arena.Handle(id))
}

// Face returns the face referenced by id. It panics on a stale id.
func (m *Mesh) Face(id FaceID) *Face {
	invariant(m.faces.Valid(arena.Handle(id)), "stale face %v", id)
	return m.faces.Get(arena.Handle(id))
}

// HasVertex reports whether id refers to a vertex in m.
func (m *Mesh) HasVertex(id VertexID) bool { return m.vertices.Linked(arena.Handle(id)) }

// HasEdge reports whether id refers to an edge in m. Extracted edges are not in m.
func (m *Mesh) HasEdge(id EdgeID) bool { return m.edges.Linked(arena.Handle(id)) }

// HasFace reports whether id refers to a face in m.
func (m *Mesh) HasFace(id FaceID) bool { return m.faces.Linked(arena.Handle(id)) }

// Vertices iterates all vertices in store order.
func (m *Mesh) Vertices() iter.Seq2[VertexID, *Vertex] {
	return func(yield func(VertexID, *Vertex) bool) {
		for h, v := range m.vertices.All() {
			if !yield(VertexID(h), v) {
				return
			}
		}
	}
}

// Edges iterates all edges in store order.
func (m *Mesh) Edges() iter.Seq2[EdgeID, *Edge] {
	return func(yield func(EdgeID, *Edge) bool) {
		for h, e := range m.edges.All() {
			if !yield(EdgeID(h), e) {
				return
			}
		}
	}
}

// Faces iterates all faces in store order.
func (m *Mesh) Faces() iter.Seq2[FaceID, *Face] {
	return func(yield func(FaceID, *Face) bool) {
		for h, f := range m.faces.All() {
			if !yield(FaceID(h), f) {
				return
			}
		}
	}
}

// VertexIDs returns a snapshot of the vertex ids in store order.
func (m *Mesh) VertexIDs() []VertexID {
	return convert(m.vertices.Handles(), func(h arena.Handle) VertexID { return VertexID(h) })
}

// EdgeIDs returns a snapshot of the edge ids in store order.
func (m *Mesh) EdgeIDs() []EdgeID {
	return convert(m.edges.Handles(), func(h arena.Handle) EdgeID { return EdgeID(h) })
}

// FaceIDs returns a snapshot of the face ids in store order.
func (m *Mesh) FaceIDs() []FaceID {
	return convert(m.faces.Handles(), func(h arena.Handle) FaceID { return FaceID(h) })
}

func convert[ID any](hs []arena.Handle, as func(arena.Handle) ID) []ID {
	out := make([]ID, len(hs))
	for i, h := range hs {
		out[i] = as(h)
	}
	return out
}

// EdgeBetween returns the edge connecting a and b, or the zero id.
// Only the endpoint with the smaller incidence set is scanned.
func (m *Mesh) EdgeBetween(a, b VertexID) EdgeID {
	if a == b {
		return EdgeID{}
	}
	scan, other := m.Vertex(a), b
	if vb := m.Vertex(b); len(vb.Edges) < len(scan.Edges) {
		scan, other = vb, a
	}
	for _, e := range scan.Edges {
		if m.Edge(e).HasVertex(other) {
			return e
		}
	}
	return EdgeID{}
}

// VertexFaces returns the faces incident to v, computed from its edges.
func (m *Mesh) VertexFaces(v VertexID) []FaceID {
	var faces []FaceID
	for _, e := range m.Vertex(v).Edges {
		for _, f := range m.Edge(e).Faces {
			if !slices.Contains(faces, f) {
				faces = append(faces, f)
			}
		}
	}
	return faces
}

// SharedEdge returns the edge along which faces f and g touch, or the zero id.
func (m *Mesh) SharedEdge(f, g FaceID) EdgeID {
	if f == g {
		return EdgeID{}
	}
	shared := m.Face(f).sharedVertices(m.Face(g))
	if len(shared) < 2 {
		return EdgeID{}
	}
	return m.EdgeBetween(shared[0], shared[1])
}

// FaceArea returns the area of f.
func (m *Mesh) FaceArea(f FaceID) float64 {
	face := m.Face(f)
	p0 := m.Vertex(face.V[0]).Position
	p1 := m.Vertex(face.V[1]).Position
	p2 := m.Vertex(face.V[2]).Position
	return p1.Sub(p0).Cross(p2.Sub(p0)).Len() / 2
}

// updateNormal recomputes the unit normal of f from its corners.
// A zero-area face gets a zero normal.
func (m *Mesh) updateNormal(f FaceID) {
	face := m.Face(f)
	p0 := m.Vertex(face.V[0]).Position
	p1 := m.Vertex(face.V[1]).Position
	p2 := m.Vertex(face.V[2]).Position

	normal := p1.Sub(p0).Cross(p2.Sub(p0))
	length := normal.Len()
	if length < 1e-12 || math.IsNaN(length) {
		face.Normal = mgl64.Vec3{}
		return
	}
	face.Normal = normal.Mul(1.0 / length)
}

// addEdge creates an edge between a and b and links it into both endpoints.
func (m *Mesh) addEdge(a, b VertexID) EdgeID {
	e := EdgeID(m.edges.Add(Edge{V: [2]VertexID{a, b}}))
	m.Vertex(a).addEdge(e)
	m.Vertex(b).addEdge(e)
	return e
}

// unlinkFace removes f from the face set of every edge along its corners.
func (m *Mesh) unlinkFace(f FaceID) {
	face := m.Face(f)
	for i := 0; i < 3; i++ {
		if e := m.EdgeBetween(face.V[i], face.V[(i+1)%3]); !e.IsNil() {
			m.Edge(e).removeFace(f)
		}
	}
}
