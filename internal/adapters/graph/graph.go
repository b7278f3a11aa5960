// Package graph implements ports.DependencyGraph on top of github.com/dominikbraun/graph.
package graph

import (
	"errors"
	"slices"
	"sync"

	graphlib "github.com/dominikbraun/graph"
	"go.trai.ch/stitch/internal/core/ports"
)

var _ ports.DependencyGraph = (*Graph)(nil)

// Graph is a directed "depends on" graph. Every edge is weighted with its insertion
// sequence so that out-edges can be walked in the order they were declared.
type Graph struct {
	mu  sync.RWMutex
	g   graphlib.Graph[string, string]
	seq int
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{g: newStore()}
}

func newStore() graphlib.Graph[string, string] {
	return graphlib.New(graphlib.StringHash, graphlib.Directed())
}

// AddEdge records that from depends on to. Missing vertices are created and a
// repeated edge keeps its original position.
func (g *Graph) AddEdge(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, v := range [...]string{from, to} {
		if err := g.g.AddVertex(v); err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
			return err
		}
	}

	g.seq++
	err := g.g.AddEdge(from, to, graphlib.EdgeWeight(g.seq))
	if errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return nil
	}
	return err
}

// Dependencies returns the direct dependencies of path in insertion order.
func (g *Graph) Dependencies(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	adj, err := g.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	return ordered(adj[path])
}

// Chain returns every transitive dependency of path, deepest first. Each file
// appears once and path itself is never included. Cycles are cut where they
// close: a file already on the walk stack is not revisited.
func (g *Graph) Chain(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	chain := []string{}
	adj, err := g.g.AdjacencyMap()
	if err != nil {
		return chain
	}
	if _, ok := adj[path]; !ok {
		return chain
	}

	visited := map[string]bool{path: true}
	var visit func(node string)
	visit = func(node string) {
		for _, dep := range ordered(adj[node]) {
			if visited[dep] {
				continue
			}
			visited[dep] = true
			visit(dep)
			chain = append(chain, dep)
		}
	}
	visit(path)

	return chain
}

// Len returns the number of vertices.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n, err := g.g.Order()
	if err != nil {
		return 0
	}
	return n
}

// Reset drops every vertex and edge.
func (g *Graph) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.g = newStore()
	g.seq = 0
}

// ordered sorts out-edges by insertion sequence.
func ordered(edges map[string]graphlib.Edge[string]) []string {
	list := make([]graphlib.Edge[string], 0, len(edges))
	for _, e := range edges {
		list = append(list, e)
	}
	slices.SortFunc(list, func(a, b graphlib.Edge[string]) int {
		return a.Properties.Weight - b.Properties.Weight
	})

	deps := make([]string, len(list))
	for i, e := range list {
		deps[i] = e.Target
	}
	return deps
}
