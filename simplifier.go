// Package spheremesh approximates a triangle mesh by a sphere mesh: a graph
// of spheres whose edges and faces blend neighbouring spheres.
//
// The Simplifier greedily collapses the mesh edge of least SQEM cost, moving
// the surviving vertex to the center of the sphere that best fits the
// collapsed patch, until the requested number of spheres remains.
package spheremesh

import (
	"container/heap"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/akmonengine/spheremesh/mesh"
	"github.com/akmonengine/spheremesh/sqem"
)

const DEFAULT_WORKERS = 1

type Simplifier struct {
	Mesh *mesh.Mesh
	// Workers is the number of goroutines computing face and vertex metrics
	// in InitSQEM. Collapses always run on the calling goroutine.
	Workers int
	// Debug validates the whole mesh after every step.
	Debug bool
	// Regularization is the ridge weight given to sqem.MinimizeRegularized.
	// Zero means sqem.DefaultRegularization.
	Regularization float64
	Logger         *slog.Logger

	queue   edgeQueue
	seq     uint64
	removed []mesh.EdgeID
}

// New returns a Simplifier over m with default settings.
func New(m *mesh.Mesh) *Simplifier {
	return &Simplifier{
		Mesh:           m,
		Workers:        DEFAULT_WORKERS,
		Regularization: sqem.DefaultRegularization,
	}
}

func (s *Simplifier) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func (s *Simplifier) regularization() float64 {
	if s.Regularization <= 0 {
		return sqem.DefaultRegularization
	}
	return s.Regularization
}

// InitSQEM computes the metric of every face and vertex, resets vertex
// radii, and queues every edge with its collapse cost. Any previous queue is
// discarded.
func (s *Simplifier) InitSQEM() {
	s.Workers = max(DEFAULT_WORKERS, s.Workers)
	s.reset()

	m := s.Mesh
	task(s.Workers, m.FaceIDs(), func(f mesh.FaceID) {
		face := m.Face(f)
		face.Q = sqem.FromPlane(m.Vertex(face.V[0]).Position, face.Normal)
	})

	task(s.Workers, m.VertexIDs(), func(v mesh.VertexID) {
		q := sqem.Zero()
		for _, f := range m.VertexFaces(v) {
			q = q.Add(m.Face(f).Q.Scale(m.FaceArea(f) / 3))
		}
		vertex := m.Vertex(v)
		vertex.Q = q
		vertex.Radius = 0
	})

	for _, e := range m.EdgeIDs() {
		edge := m.Edge(e)
		edge.Q = m.Vertex(edge.V[0]).Q.Add(m.Vertex(edge.V[1]).Q)
		s.push(e)
	}

	s.logger().Info("sqem initialized",
		"faces", m.NumFaces(),
		"vertices", m.NumVertices(),
		"queued", s.queue.Len(),
		"workers", s.Workers)
}

// Pending returns the number of queue entries, tombstones included.
func (s *Simplifier) Pending() int {
	return s.queue.Len()
}

// Step collapses the cheapest edge. It returns false, leaving the mesh
// untouched, when no edge is left to collapse.
func (s *Simplifier) Step() bool {
	s.drain()
	if s.queue.Len() == 0 {
		s.logger().Info("queue empty", "vertices", s.Mesh.NumVertices())
		return false
	}

	m := s.Mesh
	it := heap.Pop(&s.queue).(entry)
	edge := m.Edge(it.edge)
	if edge.NeedsRemoval {
		panic(fmt.Sprintf("spheremesh: tombstone %v reached the collapse", it.edge))
	}

	q, center, radius := edge.Q, edge.Center, edge.Radius
	survivor, removed := m.CollapseEdgeDeferred(it.edge, center, s.removed[:0])
	s.removed = removed

	v := m.Vertex(survivor)
	v.Q = q
	v.Radius = radius

	for _, r := range removed {
		m.Edge(r).NeedsRemoval = true
		m.ExtractEdge(r)
	}

	for _, old := range slices.Clone(m.Vertex(survivor).Edges) {
		fresh := m.RenewEdge(old)
		m.Edge(old).NeedsRemoval = true

		edge := m.Edge(fresh)
		edge.Q = m.Vertex(edge.V[0]).Q.Add(m.Vertex(edge.V[1]).Q)
		s.push(fresh)
	}

	s.drain()

	if s.Debug {
		m.MustValidate()
	}
	return true
}

// Run steps until the mesh has at most target vertices or no edge is left,
// and returns the number of collapses. InitSQEM must have been called.
func (s *Simplifier) Run(target int) int {
	start := time.Now()
	before := s.Mesh.NumVertices()

	steps := 0
	for s.Mesh.NumVertices() > target && s.Step() {
		steps++
	}

	s.logger().Info("sphere approximation done",
		"target", target,
		"from", before,
		"vertices", s.Mesh.NumVertices(),
		"edges", s.Mesh.NumEdges(),
		"faces", s.Mesh.NumFaces(),
		"collapses", steps,
		"elapsed", time.Since(start))

	return steps
}

// updateSQEM minimizes the metric of e into its collapse sphere and cost.
func (s *Simplifier) updateSQEM(e mesh.EdgeID) {
	edge := s.Mesh.Edge(e)
	a := s.Mesh.Vertex(edge.V[0]).Position
	b := s.Mesh.Vertex(edge.V[1]).Position
	edge.Center, edge.Radius, edge.Cost = edge.Q.MinimizeRegularized(a, b, s.regularization())
}

func (s *Simplifier) push(e mesh.EdgeID) {
	s.updateSQEM(e)
	heap.Push(&s.queue, entry{edge: e, cost: s.Mesh.Edge(e).Cost, seq: s.seq})
	s.seq++
}

// drain pops and frees tombstones until a live edge is on top.
func (s *Simplifier) drain() {
	for s.queue.Len() > 0 {
		e := s.queue.top().edge
		if !s.Mesh.Edge(e).NeedsRemoval {
			return
		}
		heap.Pop(&s.queue)
		s.Mesh.ReleaseEdge(e)
	}
}

// reset frees the tombstones of a previous run and empties the queue.
// Entries left stale by Mesh.Set or Mesh.Clear are dropped.
func (s *Simplifier) reset() {
	for _, it := range s.queue {
		if s.Mesh.IsExtracted(it.edge) {
			s.Mesh.ReleaseEdge(it.edge)
		}
	}
	s.queue = s.queue[:0]
	s.seq = 0
}
