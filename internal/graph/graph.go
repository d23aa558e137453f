// Package graph implements the labeled directed multigraph used as the
// in-memory exchange structure between the notation front end and the
// plant-model back end. Nodes and edges carry free-form string attribute
// maps; the graph itself imposes no schema.
package graph

import (
	"fmt"
	"sort"
	"sync"
)

// Node is a labeled vertex with an attribute map.
type Node struct {
	ID    string
	Attrs map[string]string
}

// Edge is a directed, attributed connection between two nodes.
type Edge struct {
	From  string
	To    string
	Attrs map[string]string
}

// Graph is a directed multigraph with attributed nodes and edges. It is safe
// for concurrent reads after construction; mutation is guarded by a mutex so
// builders may share one instance.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	edges []*Edge
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
	}
}

// AddNode adds a node with the given ID and attributes. Adding an existing
// node merges the new attributes over the old ones.
func (g *Graph) AddNode(id string, attrs map[string]string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		n = &Node{ID: id, Attrs: make(map[string]string)}
		g.nodes[id] = n
	}
	for k, v := range attrs {
		n.Attrs[k] = v
	}
}

// AddEdge creates a directed edge between two existing nodes. An error is
// returned if either endpoint is missing.
func (g *Graph) AddEdge(from, to string, attrs map[string]string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("source node not found: %s", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("destination node not found: %s", to)
	}

	e := &Edge{From: from, To: to, Attrs: make(map[string]string)}
	for k, v := range attrs {
		e.Attrs[k] = v
	}
	g.edges = append(g.edges, e)
	return nil
}

// Node returns the node with the given ID, or nil if absent.
func (g *Graph) Node(id string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.nodes[id]
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}
