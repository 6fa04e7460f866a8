// Package graph provides dependency-graph validation for the planning engine.
// It performs cycle detection and dependency ordering over any node set that
// exposes an ID and a list of dependency IDs, and is used identically for
// task-dependency graphs and branch-prerequisite graphs.
package graph

import (
	"fmt"
)

// Node is the minimal shape the validator needs: an identifier and the
// identifiers this node depends on.
type Node struct {
	ID        string
	DependsOn []string
}

// Result is the outcome of a validation run.
type Result struct {
	// Acyclic is true when no cycle was found.
	Acyclic bool

	// CycleMembers contains the node IDs participating in the first cycle
	// found, in traversal order. Empty when Acyclic is true.
	CycleMembers []string
}

// Validator provides validation functionality for dependency DAGs.
// It's a stateless validator that can check for cycles, validate that
// referenced dependencies exist, and produce a topological order.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the dependency graph formed by the given nodes for cycles.
// Dependencies referencing unknown node IDs are ignored for cycle purposes;
// use ValidateDependencies to surface them.
//
// Complexity is O(V+E).
func (v *Validator) Validate(nodes []Node) Result {
	cycle := v.DetectCycle(nodes)
	return Result{
		Acyclic:      len(cycle) == 0,
		CycleMembers: cycle,
	}
}

// DetectCycle uses depth-first search with color marking to detect cycles.
// Colors: white (0) = unvisited, gray (1) = in-progress, black (2) = done.
// A back-edge into a gray node is a cycle. Returns the nodes involved in the
// first cycle found, otherwise an empty slice.
func (v *Validator) DetectCycle(nodes []Node) []string {
	if len(nodes) == 0 {
		return nil
	}

	adjList := buildAdjacencyList(nodes)

	// Color map: 0 = white (unvisited), 1 = gray (in-progress), 2 = black (done)
	color := make(map[string]int, len(nodes))
	parent := make(map[string]string, len(nodes))

	var dfs func(nodeID string) []string
	dfs = func(nodeID string) []string {
		color[nodeID] = 1 // Mark as in-progress (gray)

		for _, neighbor := range adjList[nodeID] {
			if color[neighbor] == 0 {
				parent[neighbor] = nodeID
				if cycle := dfs(neighbor); cycle != nil {
					return cycle
				}
			} else if color[neighbor] == 1 {
				// Found a back edge (cycle detected).
				// Reconstruct the cycle path from the parent chain.
				cycle := []string{neighbor}
				current := nodeID
				for current != neighbor {
					cycle = append([]string{current}, cycle...)
					current = parent[current]
				}
				cycle = append([]string{neighbor}, cycle...)
				return cycle
			}
			// color[neighbor] == 2 (black) is already processed, skip
		}

		color[nodeID] = 2 // Mark as done (black)
		return nil
	}

	// Run DFS from all unvisited nodes. Iterate the input slice so the
	// traversal order (and therefore the reported cycle) is deterministic.
	for _, node := range nodes {
		if color[node.ID] == 0 {
			if cycle := dfs(node.ID); cycle != nil {
				return cycle
			}
		}
	}

	return []string{}
}

// TopologicalSort produces a dependency-respecting order of node IDs using
// Kahn's algorithm (BFS with in-degree tracking). Returns an error if a
// cycle prevents a complete ordering.
func (v *Validator) TopologicalSort(nodes []Node) ([]string, error) {
	if len(nodes) == 0 {
		return []string{}, nil
	}

	adjList := buildAdjacencyList(nodes)

	inDegree := make(map[string]int, len(nodes))
	for _, node := range nodes {
		inDegree[node.ID] = 0
	}
	for _, neighbors := range adjList {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	// Seed the queue with zero in-degree nodes in input order for
	// deterministic output.
	queue := []string{}
	for _, node := range nodes {
		if inDegree[node.ID] == 0 {
			queue = append(queue, node.ID)
		}
	}

	result := make([]string, 0, len(nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, neighbor := range adjList[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(nodes) {
		return nil, fmt.Errorf("cannot perform topological sort: cycle detected")
	}

	return result, nil
}

// ValidateDependencies checks that every dependency referenced by a node
// exists in the node set. Returns an error naming the first dangling
// reference found.
func (v *Validator) ValidateDependencies(nodes []Node) error {
	known := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		known[node.ID] = true
	}

	for _, node := range nodes {
		for _, depID := range node.DependsOn {
			if !known[depID] {
				return fmt.Errorf("node %q has dependency %q which does not exist in the graph", node.ID, depID)
			}
		}
	}

	return nil
}

// buildAdjacencyList constructs an adjacency list from dependency edges.
// If node A depends on node B, there's an edge from B to A. Dependencies
// on unknown IDs are skipped.
func buildAdjacencyList(nodes []Node) map[string][]string {
	known := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		known[node.ID] = true
	}

	adjList := make(map[string][]string, len(nodes))
	for _, node := range nodes {
		if _, ok := adjList[node.ID]; !ok {
			adjList[node.ID] = []string{}
		}
		for _, depID := range node.DependsOn {
			if !known[depID] {
				continue
			}
			adjList[depID] = append(adjList[depID], node.ID)
		}
	}

	return adjList
}
