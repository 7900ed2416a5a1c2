package mesh

import (
	"fmt"
	"strings"
)

// DebugString dumps every vertex with its edges, every face, and every edge
// with its faces.
func (m *Mesh) DebugString() string {
	var sb strings.Builder

	sb.WriteString("### VERTICES ###\n")
	i := 0
	for id, v := range m.Vertices() {
		fmt.Fprintf(&sb, "vertices[%d] %v: %v r=%g\n", i, id, v.Position, v.Radius)
		for j, e := range v.Edges {
			fmt.Fprintf(&sb, "  edges[%d]: %s\n", j, m.edgeString(e))
		}
		i++
	}

	sb.WriteString("### FACES ###\n")
	i = 0
	for id := range m.Faces() {
		fmt.Fprintf(&sb, "faces[%d]: %s\n", i, m.faceString(id))
		i++
	}

	sb.WriteString("### EDGES ###\n")
	i = 0
	for id, e := range m.Edges() {
		fmt.Fprintf(&sb, "edges[%d]: %s cost=%g\n", i, m.edgeString(id), e.Cost)
		for j, f := range e.Faces {
			fmt.Fprintf(&sb, "  faces[%d]: %s\n", j, m.faceString(f))
		}
		i++
	}

	return sb.String()
}

func (m *Mesh) edgeString(id EdgeID) string {
	e := m.Edge(id)
	return fmt.Sprintf("%v(%v %v)", id, m.Vertex(e.V[0]).Position, m.Vertex(e.V[1]).Position)
}

func (m *Mesh) faceString(id FaceID) string {
	f := m.Face(id)
	return fmt.Sprintf("%v(%v %v %v)", id,
		m.Vertex(f.V[0]).Position, m.Vertex(f.V[1]).Position, m.Vertex(f.V[2]).Position)
}
