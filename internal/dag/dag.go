// Package dag provides directed graph operations for variable derivations.
// It supports cycle detection, topological sorting, and upstream/downstream queries.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed graph over variable names. An edge runs from a
// dependency (parent) to the variable derived from it (child).
// Self-loops are allowed so that a variable derived from itself is
// reported as a cycle.
type Graph struct {
	order   []string            // node IDs in insertion order
	nodes   map[string]bool     // node set
	edges   map[string][]string // parent -> children (dependents)
	parents map[string][]string // child -> parents (dependencies)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]bool),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// Build creates a graph with a node per name, in order, and an edge from
// every dependency to its dependent. Dependencies that are not in names
// become nodes too.
func Build(names []string, deps func(name string) []string) *Graph {
	g := NewGraph()
	for _, name := range names {
		g.AddNode(name)
	}
	for _, name := range names {
		for _, parent := range deps(name) {
			g.AddNode(parent)
			g.AddEdge(parent, name)
		}
	}
	return g
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(id string) {
	if g.nodes[id] {
		return
	}
	g.nodes[id] = true
	g.order = append(g.order, id)
}

// AddEdge adds a directed edge from parent to child (child depends on parent).
// Missing nodes are added.
func (g *Graph) AddEdge(parentID, childID string) {
	g.AddNode(parentID)
	g.AddNode(childID)
	if !contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
}

// HasNode reports whether id is a node.
func (g *Graph) HasNode(id string) bool { return g.nodes[id] }

// Nodes returns node IDs in insertion order.
func (g *Graph) Nodes() []string { return append([]string(nil), g.order...) }

// Parents returns the direct dependencies of a node.
func (g *Graph) Parents(id string) []string { return g.parents[id] }

// Children returns the direct dependents of a node.
func (g *Graph) Children(id string) []string { return g.edges[id] }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// HasCycle reports whether following dependencies from any node that has
// dependencies leads back to a node on the current path. Nodes are tried in
// insertion order; the returned path starts and ends at the first node
// found to reference itself.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var stack []string
	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		onPath[id] = true
		stack = append(stack, id)

		for _, parentID := range g.parents[id] {
			if onPath[parentID] {
				for i, s := range stack {
					if s == parentID {
						cyclePath = append(append([]string(nil), stack[i:]...), parentID)
						break
					}
				}
				return true
			}
			if !visited[parentID] && dfs(parentID) {
				return true
			}
		}

		stack = stack[:len(stack)-1]
		onPath[id] = false
		return false
	}

	for _, id := range g.order {
		if len(g.parents[id]) == 0 || visited[id] {
			continue
		}
		if dfs(id) {
			return true, cyclePath
		}
	}
	return false, nil
}

// TopologicalSort returns node IDs with dependencies before dependents.
// Ties keep insertion order. Returns an error if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("cycle detected: %v", cyclePath)
	}

	visited := make(map[string]bool)
	result := make([]string, 0, len(g.order))

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		visited[id] = true
		for _, parentID := range g.parents[id] {
			visit(parentID)
		}
		result = append(result, id)
	}

	for _, id := range g.order {
		visit(id)
	}
	return result, nil
}

// Levels groups nodes by derivation depth. Level 0 holds nodes with no
// dependencies; a node sits one level above its deepest dependency.
func (g *Graph) Levels() ([][]string, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	assigned := make(map[string]int, len(order))
	var levels [][]string
	for _, id := range order {
		level := 0
		for _, parentID := range g.parents[id] {
			if l := assigned[parentID] + 1; l > level {
				level = l
			}
		}
		assigned[id] = level
		for len(levels) <= level {
			levels = append(levels, nil)
		}
		levels[level] = append(levels[level], id)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}
	return levels, nil
}

// Upstream returns every transitive dependency of id, sorted.
func (g *Graph) Upstream(id string) []string {
	return g.reach(id, g.parents)
}

// Downstream returns every transitive dependent of id, sorted.
func (g *Graph) Downstream(id string) []string {
	return g.reach(id, g.edges)
}

func (g *Graph) reach(id string, next map[string][]string) []string {
	seen := make(map[string]bool)
	var walk func(nodeID string)
	walk = func(nodeID string) {
		for _, n := range next[nodeID] {
			if !seen[n] {
				seen[n] = true
				walk(n)
			}
		}
	}
	walk(id)
	delete(seen, id)

	result := make([]string, 0, len(seen))
	for n := range seen {
		result = append(result, n)
	}
	sort.Strings(result)
	return result
}

// Roots returns nodes with no dependencies, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// contains checks if a slice contains a string.
func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
