package mesh

import (
	"github.com/pkg/errors"
)

// Validate walks every vertex, edge and face and returns the first broken
// incidence invariant, or nil:
//   - every edge is in the incidence set of both its endpoints, and is the
//     edge found between them;
//   - no two edges connect the same pair of vertices;
//   - every face has three distinct corners, and each corner pair has an edge
//     whose face set contains the face;
//   - every reference points to an element that is still in the mesh.
func (m *Mesh) Validate() error {
	for vid, v := range m.Vertices() {
		for i, eid := range v.Edges {
			if !m.HasEdge(eid) {
				return errors.Errorf("vertex %v references edge %v which is not in the mesh", vid, eid)
			}
			for _, prev := range v.Edges[:i] {
				if prev == eid {
					return errors.Errorf("vertex %v references edge %v twice", vid, eid)
				}
			}
			e := m.Edge(eid)
			if !e.HasVertex(vid) {
				return errors.Errorf("vertex %v references edge %v which does not contain it", vid, eid)
			}
			if found := m.EdgeBetween(e.Other(vid), vid); found != eid {
				return errors.Errorf("edge between %v and %v is %v, vertex %v lists %v", e.Other(vid), vid, found, vid, eid)
			}
		}
	}

	type pair struct{ a, b VertexID }
	pairs := make(map[pair]EdgeID, m.NumEdges())
	for eid, e := range m.Edges() {
		v0, v1 := e.V[0], e.V[1]
		if v0 == v1 {
			return errors.Errorf("edge %v is a loop on %v", eid, v0)
		}
		for _, v := range e.V {
			if !m.HasVertex(v) {
				return errors.Errorf("edge %v references vertex %v which is not in the mesh", eid, v)
			}
			if !m.Vertex(v).hasEdge(eid) {
				return errors.Errorf("edge %v is missing from the edges of its endpoint %v", eid, v)
			}
		}

		key := pair{v0, v1}
		if v1.Index() < v0.Index() {
			key = pair{v1, v0}
		}
		if other, ok := pairs[key]; ok {
			return errors.Errorf("edges %v and %v both connect %v and %v", other, eid, v0, v1)
		}
		pairs[key] = eid

		for _, fid := range e.Faces {
			if !m.HasFace(fid) {
				return errors.Errorf("edge %v references face %v which is not in the mesh", eid, fid)
			}
			f := m.Face(fid)
			if !f.HasVertex(v0) || !f.HasVertex(v1) {
				return errors.Errorf("edge %v references face %v which does not contain it", eid, fid)
			}
			if third := f.OtherVertex(v0, v1); third.IsNil() || third == v0 || third == v1 {
				return errors.Errorf("face %v of edge %v has no distinct third corner", fid, eid)
			}
		}
	}

	for fid, f := range m.Faces() {
		for i := 0; i < 3; i++ {
			a, b := f.V[i], f.V[(i+1)%3]
			if !m.HasVertex(a) {
				return errors.Errorf("face %v references vertex %v which is not in the mesh", fid, a)
			}
			if a == b {
				return errors.Errorf("face %v is degenerate, corner %v repeats", fid, a)
			}
		}
		for i := 0; i < 3; i++ {
			a, b := f.V[i], f.V[(i+1)%3]
			eid := m.EdgeBetween(a, b)
			if eid.IsNil() {
				return errors.Errorf("face %v has no edge between %v and %v", fid, a, b)
			}
			if !m.Edge(eid).HasFace(fid) {
				return errors.Errorf("edge %v between %v and %v does not list face %v", eid, a, b, fid)
			}
		}
	}

	return nil
}

// MustValidate panics with the first broken invariant.
func (m *Mesh) MustValidate() {
	err := m.Validate()
	invariant(err == nil, "mesh integrity: %v", err)
}
