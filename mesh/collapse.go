package mesh

import (
	"slices"

	"github.com/akmonengine/spheremesh/arena"
	"github.com/go-gl/mathgl/mgl64"
)

// CollapseEdge contracts e into its first endpoint, moved to position, and
// returns that surviving vertex. The second endpoint, e itself, faces that
// degenerate and edges made redundant are destroyed.
//
// The operator is purely topological: callers assign the metric and sphere
// of the survivor afterwards.
func (m *Mesh) CollapseEdge(e EdgeID, position mgl64.Vec3) VertexID {
	v, _ := m.collapse(e, position, nil, false)
	return v
}

// CollapseEdgeDeferred is CollapseEdge, except that edges made redundant are
// only detached from their endpoints and appended to removed instead of
// being destroyed. They remain in the store until the caller extracts or
// removes them.
func (m *Mesh) CollapseEdgeDeferred(e EdgeID, position mgl64.Vec3, removed []EdgeID) (VertexID, []EdgeID) {
	return m.collapse(e, position, removed, true)
}

// EdgeCollapseToCenter collapses e to its midpoint.
func (m *Mesh) EdgeCollapseToCenter(e EdgeID) VertexID {
	edge := m.Edge(e)
	mid := m.Vertex(edge.V[0]).Position.Add(m.Vertex(edge.V[1]).Position).Mul(0.5)
	return m.CollapseEdge(e, mid)
}

// collapse merges v1 = e.V[1] into v0 = e.V[0].
//
// For every other edge (v0, vi) whose far end vi is also adjacent to v1
// through ej = (vi, v1), the faces of ej are either dropped (they coincide
// with a face of (v0, vi), or share an edge away from v0 and v1 with one,
// so they would degenerate or duplicate) or re-pointed from v1 to v0 and
// registered on (v0, vi). ej is then redundant. Edges of v1 without a
// counterpart on v0 are moved over as they are.
func (m *Mesh) collapse(e EdgeID, position mgl64.Vec3, removed []EdgeID, deferred bool) (VertexID, []EdgeID) {
	invariant(m.HasEdge(e), "collapse of edge %v not in mesh", e)

	edge := m.Edge(e)
	v0, v1 := edge.V[0], edge.V[1]
	invariant(v0 != v1, "edge %v is a loop", e)
	invariant(m.HasVertex(v0) && m.HasVertex(v1), "edge %v has a removed endpoint", e)

	var redundant []EdgeID
	var doomed []FaceID

	for _, ei := range slices.Clone(m.Vertex(v0).Edges) {
		if ei == e {
			continue
		}
		vi := m.Edge(ei).Other(v0)
		ej := m.EdgeBetween(vi, v1)
		if ej.IsNil() {
			continue
		}

		for _, fj := range slices.Clone(m.Edge(ej).Faces) {
			if !m.HasFace(fj) {
				continue
			}
			if m.duplicatesAcross(fj, ei, v0, v1) {
				doomed = append(doomed, fj)
				continue
			}
			m.Face(fj).replaceVertex(v1, v0)
			m.Edge(ei).addFace(fj)
		}

		for _, f := range doomed {
			m.unlinkFace(f)
			m.Edge(ej).removeFace(f)
			m.faces.Remove(arena.Handle(f))
		}
		doomed = doomed[:0]

		redundant = append(redundant, ej)
	}

	for _, ej := range redundant {
		m.Vertex(m.Edge(ej).Other(v1)).removeEdge(ej)
		m.Vertex(v1).removeEdge(ej)
		if deferred {
			removed = append(removed, ej)
		} else {
			m.edges.Remove(arena.Handle(ej))
		}
	}

	survivor := m.Vertex(v0)
	absorbed := m.Vertex(v1)
	absorbed.removeEdge(e)

	for _, ek := range absorbed.Edges {
		moved := m.Edge(ek)
		moved.replaceVertex(v1, v0)
		survivor.addEdge(ek)
		for _, f := range moved.Faces {
			m.Face(f).replaceVertex(v1, v0)
		}
	}
	absorbed.Edges = nil

	survivor.Position = position
	survivor.removeEdge(e)

	invariant(len(m.Edge(e).Faces) == 0, "collapsed edge %v still has faces %v", e, m.Edge(e).Faces)
	m.vertices.Remove(arena.Handle(v1))
	m.edges.Remove(arena.Handle(e))

	for _, f := range m.VertexFaces(v0) {
		m.updateNormal(f)
	}

	return v0, removed
}

// duplicatesAcross reports whether fj, a face of the edge (vi, v1), would
// coincide with a face of ei = (v0, vi) once v1 is merged into v0: either
// it is the same face, or the two share an edge touching neither v0 nor v1.
func (m *Mesh) duplicatesAcross(fj FaceID, ei EdgeID, v0, v1 VertexID) bool {
	face := m.Face(fj)
	for _, fi := range m.Edge(ei).Faces {
		if fi == fj {
			return true
		}

		var away []VertexID
		for _, v := range face.sharedVertices(m.Face(fi)) {
			if v != v0 && v != v1 {
				away = append(away, v)
			}
		}
		if len(away) >= 2 && !m.EdgeBetween(away[0], away[1]).IsNil() {
			return true
		}
	}
	return false
}
