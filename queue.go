package spheremesh

import (
	"github.com/akmonengine/spheremesh/mesh"
)

// entry is a collapse candidate. seq breaks cost ties in push order.
type entry struct {
	edge mesh.EdgeID
	cost float64
	seq  uint64
}

// edgeQueue is a min-heap of collapse candidates for container/heap.
// It has no arbitrary removal: superseded edges are flagged
// mesh.Edge.NeedsRemoval and dropped when they reach the top.
type edgeQueue []entry

func (q edgeQueue) Len() int { return len(q) }

func (q edgeQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	return q[i].seq < q[j].seq
}

func (q edgeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *edgeQueue) Push(x any) {
	*q = append(*q, x.(entry))
}

func (q *edgeQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

func (q edgeQueue) top() entry { return q[0] }
