package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddEdgeDedup(t *testing.T) {
	g := New[int]()
	g.AddEdge(1, 2)
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)

	n, ok := g.Neighbours(1)
	assert.True(t, ok)
	assert.ElementsMatch(t, []int{2, 3}, n)
}

func TestNeighboursMissing(t *testing.T) {
	g := New[int]()
	_, ok := g.Neighbours(42)
	assert.False(t, ok)
}

func TestRemoveNodeDropsInEdges(t *testing.T) {
	g := New[int]()
	g.AddEdge(1, 2)
	g.AddEdge(3, 2)

	assert.True(t, g.RemoveNode(2))
	assert.False(t, g.Has(2))

	n, ok := g.Neighbours(1)
	assert.True(t, ok)
	assert.Empty(t, n)

	assert.False(t, g.RemoveNode(2))
}

func TestString(t *testing.T) {
	g := New[int]()
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddNode(4)

	assert.Equal(t, "1 -> 2 3\n2 ->\n3 ->\n4 ->", g.String())
}
