package mesh

import (
	"slices"

	"github.com/akmonengine/spheremesh/arena"
)

// DetachEdge unlinks e from both endpoints and extracts it from the store.
// The edge stays readable through Edge until ReleaseEdge.
func (m *Mesh) DetachEdge(e EdgeID) {
	edge := m.Edge(e)
	m.Vertex(edge.V[0]).removeEdge(e)
	m.Vertex(edge.V[1]).removeEdge(e)
	m.edges.Extract(arena.Handle(e))
}

// ExtractEdge extracts an edge already unlinked from its endpoints, such as
// one reported by CollapseEdgeDeferred. Its endpoints may be gone.
func (m *Mesh) ExtractEdge(e EdgeID) {
	for _, v := range m.Edge(e).V {
		invariant(!m.HasVertex(v) || !m.Vertex(v).hasEdge(e), "extract of edge %v still linked to %v", e, v)
	}
	m.edges.Extract(arena.Handle(e))
}

// ReleaseEdge destroys an extracted edge.
func (m *Mesh) ReleaseEdge(e EdgeID) {
	m.edges.Release(arena.Handle(e))
}

// RenewEdge detaches e and links a fresh edge with the same endpoints and
// faces in its place. The old edge stays extracted and readable.
func (m *Mesh) RenewEdge(e EdgeID) EdgeID {
	old := m.Edge(e)
	ends := old.V
	faces := slices.Clone(old.Faces)
	m.DetachEdge(e)

	fresh := EdgeID(m.edges.Add(Edge{V: ends, Faces: faces}))
	m.Vertex(ends[0]).addEdge(fresh)
	m.Vertex(ends[1]).addEdge(fresh)
	return fresh
}

// IsExtracted reports whether e was extracted and not yet released.
func (m *Mesh) IsExtracted(e EdgeID) bool {
	h := arena.Handle(e)
	return m.edges.Valid(h) && !m.edges.Linked(h)
}
