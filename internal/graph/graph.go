// Package graph builds the table dependency graph from foreign keys,
// breaks cycles so every table can be ordered before its dependents, and
// produces the insertion order the engine walks.
package graph

import (
	"fmt"

	"github.com/kclaka/seedkit/internal/schema"
)

// Edge is one foreign-key dependency: SourceTable depends on (must be
// inserted after) TargetTable.
type Edge struct {
	SourceTable     string
	SourceColumns   []string
	TargetTable     string
	TargetColumns   []string
	ConstraintName  string
	Nullable        bool
	Deferrable      bool
}

// Graph is the dependency graph over a database's tables. Edges point from
// dependent table to referenced table (child -> parent), matching FK
// direction.
type Graph struct {
	tables []string // insertion order of nodes, for deterministic SCC iteration
	edges  map[string][]*Edge // adjacency list keyed by source table
}

// Build constructs the dependency graph from db's foreign keys.
func Build(db *schema.Database) *Graph {
	g := &Graph{edges: make(map[string][]*Edge)}
	for _, t := range db.Tables {
		g.tables = append(g.tables, t.Name)
	}
	for _, t := range db.Tables {
		for _, fk := range t.ForeignKeys {
			g.edges[t.Name] = append(g.edges[t.Name], &Edge{
				SourceTable:    t.Name,
				SourceColumns:  fk.SourceColumns,
				TargetTable:    fk.ReferencedTable,
				TargetColumns:  fk.ReferencedColumns,
				ConstraintName: fk.Name,
				Nullable:       fk.AllColumnsNullable(t),
				Deferrable:     fk.Deferrable,
			})
		}
	}
	return g
}

// TableCount returns the number of tables (nodes) in the graph.
func (g *Graph) TableCount() int { return len(g.tables) }

// EdgeCount returns the number of FK edges (including self-references).
func (g *Graph) EdgeCount() int {
	n := 0
	for _, es := range g.edges {
		n += len(es)
	}
	return n
}

// removeEdge drops the first edge matching e from its source's adjacency list.
func (g *Graph) removeEdge(e *Edge) {
	list := g.edges[e.SourceTable]
	for i, candidate := range list {
		if candidate == e {
			g.edges[e.SourceTable] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// UnbreakableCycleError reports an SCC with no candidate edge to break —
// cannot occur in practice since every cycle has at least one edge, but is
// kept as a defensive error path matching the original implementation's
// shape.
type UnbreakableCycleError struct {
	Tables []string
}

func (e *UnbreakableCycleError) Error() string {
	return fmt.Sprintf("cannot break cycle among tables: %v", e.Tables)
}

// BreakCycles repeatedly finds strongly connected components (Tarjan's
// algorithm) and removes one edge from each until the graph is acyclic,
// then strips self-referencing edges. break_at holds user-specified
// "table.column" break points, honored with highest priority; failing that,
// a nullable edge is preferred, then a deferrable one, then any edge in the
// SCC. Returns the edges removed, in removal order, for deferred UPDATE
// application after all rows are inserted.
func (g *Graph) BreakCycles(breakAt []string) ([]*Edge, error) {
	var deferred []*Edge
	breakSet := make(map[string]bool, len(breakAt))
	for _, b := range breakAt {
		breakSet[b] = true
	}

	for {
		sccs := g.tarjanSCC()
		cyclic := sccs[:0]
		for _, scc := range sccs {
			if len(scc) > 1 {
				cyclic = append(cyclic, scc)
			}
		}
		if len(cyclic) == 0 {
			break
		}
		for _, scc := range cyclic {
			edge, err := g.bestEdgeToBreak(scc, breakSet)
			if err != nil {
				return nil, err
			}
			deferred = append(deferred, edge)
			g.removeEdge(edge)
		}
	}

	for _, t := range g.tables {
		remaining := g.edges[t][:0]
		for _, e := range g.edges[t] {
			if e.TargetTable == t {
				deferred = append(deferred, e)
				continue
			}
			remaining = append(remaining, e)
		}
		g.edges[t] = remaining
	}

	return deferred, nil
}

func (g *Graph) bestEdgeToBreak(scc []string, breakSet map[string]bool) (*Edge, error) {
	inSCC := make(map[string]bool, len(scc))
	for _, t := range scc {
		inSCC[t] = true
	}

	var candidates []*Edge
	for _, t := range scc {
		for _, e := range g.edges[t] {
			if inSCC[e.TargetTable] {
				candidates = append(candidates, e)
			}
		}
	}
	if len(candidates) == 0 {
		return nil, &UnbreakableCycleError{Tables: scc}
	}

	for _, e := range candidates {
		for _, col := range e.SourceColumns {
			if breakSet[e.SourceTable+"."+col] {
				return e, nil
			}
		}
	}
	for _, e := range candidates {
		if e.Nullable {
			return e, nil
		}
	}
	for _, e := range candidates {
		if e.Deferrable {
			return e, nil
		}
	}
	return candidates[0], nil
}

// tarjanSCC returns the graph's strongly connected components, each as a
// list of table names, in an order determined by node discovery (not
// semantically significant beyond determinism: tables are walked in the
// order schema.Database listed them).
func (g *Graph) tarjanSCC() [][]string {
	index := 0
	indices := make(map[string]int)
	lowlink := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var result [][]string

	var strongConnect func(v string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range g.edges[v] {
			w := e.TargetTable
			if _, seen := indices[w]; !seen {
				strongConnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			result = append(result, scc)
		}
	}

	for _, t := range g.tables {
		if _, seen := indices[t]; !seen {
			strongConnect(t)
		}
	}
	return result
}

// InsertionOrder is the result of topological sort: tables ordered parents
// first, plus the edges that had to be deferred to break cycles.
type InsertionOrder struct {
	Tables   []string
	Deferred []*Edge
}

// CircularDependencyError reports that TopologicalSort was called on a
// graph that still contains a cycle (BreakCycles was not run, or a bug
// left one standing).
type CircularDependencyError struct {
	Table string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency involving table %q; call BreakCycles first", e.Table)
}

// TopologicalSort orders tables so every table appears after all tables it
// depends on (FK targets before FK sources). Requires an acyclic graph —
// call BreakCycles first.
func (g *Graph) TopologicalSort() (*InsertionOrder, error) {
	inDegree := make(map[string]int, len(g.tables))
	for _, t := range g.tables {
		inDegree[t] = 0
	}
	for _, t := range g.tables {
		for _, e := range g.edges[t] {
			inDegree[e.TargetTable]++
		}
	}

	// Tables with in-degree 0 (nothing depends on them yet, in terms of
	// being a target) are leaves of the dependency graph (no FKs pointing
	// at them) — process children before the parents they point to would
	// be wrong, so we instead do a reverse approach: emit parents (nodes
	// with no outgoing, unresolved edges) first.
	outDegree := make(map[string]int, len(g.tables))
	for _, t := range g.tables {
		outDegree[t] = len(g.edges[t])
	}

	var queue []string
	for _, t := range g.tables {
		if outDegree[t] == 0 {
			queue = append(queue, t)
		}
	}

	reverseEdges := make(map[string][]string)
	for _, t := range g.tables {
		for _, e := range g.edges[t] {
			reverseEdges[e.TargetTable] = append(reverseEdges[e.TargetTable], t)
		}
	}

	var order []string
	visited := make(map[string]bool, len(g.tables))
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		if visited[t] {
			continue
		}
		visited[t] = true
		order = append(order, t)
		for _, dependent := range reverseEdges[t] {
			outDegree[dependent]--
			if outDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if len(order) != len(g.tables) {
		for _, t := range g.tables {
			if !visited[t] {
				return nil, &CircularDependencyError{Table: t}
			}
		}
	}

	return &InsertionOrder{Tables: order}, nil
}
