package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport_RoundTrip(t *testing.T) {
	vertices, indices := tetrahedron()
	m := build(t, tetrahedron)

	positions, exported := m.Export()

	assert.Equal(t, vertices, positions)
	assert.Equal(t, indices, exported)
	i := 0
	for _, v := range m.Vertices() {
		assert.Equal(t, i, v.ID)
		i++
	}
}

func TestExport_AfterCollapse(t *testing.T) {
	m := build(t, cube)
	m.EdgeCollapseToCenter(m.EdgeIDs()[0])

	positions, indices := m.Export()
	require.Len(t, positions, m.NumVertices())
	require.Len(t, indices, 3*m.NumFaces())
	for _, idx := range indices {
		assert.Less(t, int(idx), len(positions))
	}

	rebuilt, err := New(positions, indices)
	require.NoError(t, err)
	assert.Equal(t, m.NumFaces(), rebuilt.NumFaces())
	assert.Equal(t, m.NumVertices(), rebuilt.NumVertices())
}

func TestSpheresAndSegments(t *testing.T) {
	m := build(t, quad)
	ids := m.VertexIDs()
	m.Vertex(ids[0]).Radius = 0.5
	m.Vertex(ids[2]).Radius = 0.25

	tests := []struct {
		name      string
		minRadius float64
		spheres   int
		segments  int
	}{
		{name: "no filter", minRadius: 0, spheres: 4, segments: 5},
		{name: "skip points", minRadius: 0.1, spheres: 2, segments: 1},
		{name: "largest only", minRadius: 0.4, spheres: 1, segments: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, m.Spheres(tt.minRadius), tt.spheres)
			assert.Len(t, m.Segments(tt.minRadius), tt.segments)
		})
	}

	seg := m.Segments(0.1)[0]
	assert.ElementsMatch(t,
		[]Sphere{{Center: mgl64.Vec3{0, 0, 0}, Radius: 0.5}, {Center: mgl64.Vec3{1, 1, 0}, Radius: 0.25}},
		[]Sphere{seg.A, seg.B})
}

func TestTriangles(t *testing.T) {
	m := build(t, quad)
	triangles := m.Triangles()

	require.Len(t, triangles, 2)
	for _, tri := range triangles {
		assert.Equal(t, mgl64.Vec3{0, 0, 1}, tri.Normal)
	}
	assert.Equal(t, [3]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}, triangles[0].Points)
}

func TestDebugString(t *testing.T) {
	m := build(t, tetrahedron)
	s := m.DebugString()

	assert.Contains(t, s, "### VERTICES ###")
	assert.Contains(t, s, "### FACES ###")
	assert.Contains(t, s, "### EDGES ###")
	assert.Contains(t, s, "faces[3]")
	assert.Contains(t, s, "edges[5]")
}
