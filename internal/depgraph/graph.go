// Package depgraph is a small adjacency-list directed graph used by
// the scheduler packages to track outgoing dependency edges between
// task groups and to render them for diagnostics.
//
// It intentionally does not implement cycle detection: spec.md's data
// model guarantees the dependency graph is a DAG by construction
// (a group may only depend on ids issued before it), so the only
// operations a scheduler needs are insertion, neighbour lookup, and a
// human-readable dump.
package depgraph

import (
	"fmt"
	"sort"
	"strings"
)

// Digraph is a directed graph keyed on a small, comparable vertex
// type. V should be int-sized for best performance; callers in this
// module use it with TaskGroupID.
type Digraph[V comparable] struct {
	adj map[V][]V
}

// New creates an empty Digraph.
func New[V comparable]() *Digraph[V] {
	return &Digraph[V]{
		adj: make(map[V][]V),
	}
}

// AddNode adds a vertex unconnected to any other vertex. It returns
// true if the node didn't already exist.
func (g *Digraph[V]) AddNode(node V) bool {
	_, ok := g.adj[node]
	if !ok {
		g.adj[node] = nil
	}
	return !ok
}

// AddEdge adds an edge from -> to. Both vertices are created if they
// don't already exist. Duplicate edges are not added twice.
func (g *Digraph[V]) AddEdge(from, to V) {
	g.AddNode(to)

	for _, tail := range g.adj[from] {
		if tail == to {
			return
		}
	}
	g.adj[from] = append(g.adj[from], to)
}

// RemoveNode removes a vertex and every edge that starts or ends at
// it. It returns true if the vertex existed.
func (g *Digraph[V]) RemoveNode(node V) bool {
	if _, ok := g.adj[node]; !ok {
		return false
	}
	delete(g.adj, node)

	var zeroV V
	for n, l := range g.adj {
		for i, to := range l {
			if to == node {
				l[i], l[len(l)-1] = l[len(l)-1], zeroV
				g.adj[n] = l[:len(l)-1]
				break
			}
		}
	}
	return true
}

// Has returns true if node is in the graph.
func (g *Digraph[V]) Has(node V) bool {
	_, ok := g.adj[node]
	return ok
}

// Neighbours returns the out-edges of node, in no particular order.
// (nil, false) is returned if node is not in the graph.
func (g *Digraph[V]) Neighbours(node V) ([]V, bool) {
	l, ok := g.adj[node]
	if !ok {
		return nil, false
	}
	if len(l) == 0 {
		return nil, true
	}
	out := make([]V, len(l))
	copy(out, l)
	return out, true
}

type line struct {
	node string
	outs []string
}

// String returns a deterministic, sorted dump of the graph: one line
// per vertex, listing its out-edges. Useful for logging the
// dependency shape of a stuck sync() call.
func (g *Digraph[V]) String() string {
	var lines []line
	for node, to := range g.adj {
		toStr := make([]string, len(to))
		for i, neighbour := range to {
			toStr[i] = fmt.Sprint(neighbour)
		}
		sort.Strings(toStr)
		lines = append(lines, line{node: fmt.Sprint(node), outs: toStr})
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].node < lines[j].node
	})

	var sb strings.Builder
	for i, l := range lines {
		sb.WriteString(l.node)
		sb.WriteString(" ->")
		for _, neighbour := range l.outs {
			sb.WriteRune(' ')
			sb.WriteString(neighbour)
		}
		if i < len(lines)-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}
