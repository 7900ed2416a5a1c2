package mesh

import (
	"slices"

	"github.com/akmonengine/spheremesh/arena"
	"github.com/akmonengine/spheremesh/sqem"
	"github.com/go-gl/mathgl/mgl64"
)

// VertexID, EdgeID and FaceID are non-owning references into a Mesh.
// They are checked against the owning store on every dereference, so a
// reference to a removed element panics instead of aliasing a new one.
type (
	VertexID arena.Handle
	EdgeID   arena.Handle
	FaceID   arena.Handle
)

func (id VertexID) IsNil() bool    { return arena.Handle(id).IsNil() }
func (id VertexID) String() string { return "v" + arena.Handle(id).String() }
func (id VertexID) Index() int     { return arena.Handle(id).Index() }
func (id EdgeID) IsNil() bool      { return arena.Handle(id).IsNil() }
func (id EdgeID) String() string   { return "e" + arena.Handle(id).String() }
func (id FaceID) IsNil() bool      { return arena.Handle(id).IsNil() }
func (id FaceID) String() string   { return "f" + arena.Handle(id).String() }

// Vertex is a mesh corner. After simplification it carries the sphere
// interpolated for the patch it absorbed.
type Vertex struct {
	Position mgl64.Vec3
	// Edges is the set of incident edges, in insertion order.
	Edges []EdgeID
	Q     sqem.SQEM
	// Radius of the vertex sphere, 0 until a collapse assigns one.
	Radius float64
	// ID is assigned by Export.
	ID int
}

func (v *Vertex) hasEdge(e EdgeID) bool {
	return slices.Contains(v.Edges, e)
}

func (v *Vertex) addEdge(e EdgeID) {
	if !v.hasEdge(e) {
		v.Edges = append(v.Edges, e)
	}
}

func (v *Vertex) removeEdge(e EdgeID) {
	if i := slices.Index(v.Edges, e); i >= 0 {
		v.Edges = slices.Delete(v.Edges, i, i+1)
	}
}

// Edge connects two distinct vertices. V is positionally fixed but the pair
// is unordered for adjacency purposes.
type Edge struct {
	V [2]VertexID
	// Faces sharing this edge; usually at most two.
	Faces []FaceID

	// Collapse data, filled by the simplifier.
	Q      sqem.SQEM
	Cost   float64
	Center mgl64.Vec3
	Radius float64

	// NeedsRemoval marks a queue tombstone.
	NeedsRemoval bool
}

// Other returns the endpoint that is not v.
// v is assumed to be an endpoint of e.
func (e *Edge) Other(v VertexID) VertexID {
	if e.V[0] == v {
		return e.V[1]
	}
	return e.V[0]
}

// HasVertex reports whether v is an endpoint of e.
func (e *Edge) HasVertex(v VertexID) bool {
	return e.V[0] == v || e.V[1] == v
}

// HasFace reports whether f is in the face set of e.
func (e *Edge) HasFace(f FaceID) bool {
	return slices.Contains(e.Faces, f)
}

// replaceVertex is a no-op if from is not an endpoint.
func (e *Edge) replaceVertex(from, to VertexID) {
	if e.V[0] == from {
		e.V[0] = to
	} else if e.V[1] == from {
		e.V[1] = to
	}
}

func (e *Edge) addFace(f FaceID) {
	if !e.HasFace(f) {
		e.Faces = append(e.Faces, f)
	}
}

func (e *Edge) removeFace(f FaceID) {
	if i := slices.Index(e.Faces, f); i >= 0 {
		e.Faces = slices.Delete(e.Faces, i, i+1)
	}
}

// Face is a triangle with corners in CCW order.
type Face struct {
	V      [3]VertexID
	Normal mgl64.Vec3
	Q      sqem.SQEM
}

// HasVertex reports whether v is a corner of f.
func (f *Face) HasVertex(v VertexID) bool {
	return f.V[0] == v || f.V[1] == v || f.V[2] == v
}

// OtherVertex returns the corner that is neither a nor b, or the zero id if
// a and b are not both corners of f.
func (f *Face) OtherVertex(a, b VertexID) VertexID {
	for i, v := range f.V {
		if v == a {
			j, k := f.V[(i+1)%3], f.V[(i+2)%3]
			if j == b {
				return k
			}
			if k == b {
				return j
			}
			return VertexID{}
		}
	}
	return VertexID{}
}

// replaceVertex is a no-op if from is not a corner.
func (f *Face) replaceVertex(from, to VertexID) {
	for i := range f.V {
		if f.V[i] == from {
			f.V[i] = to
			return
		}
	}
}

// sharedVertices returns the corners of f that are also corners of g.
func (f *Face) sharedVertices(g *Face) []VertexID {
	shared := make([]VertexID, 0, 3)
	for _, v := range f.V {
		if g.HasVertex(v) {
			shared = append(shared, v)
		}
	}
	return shared
}
