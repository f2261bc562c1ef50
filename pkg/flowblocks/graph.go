package flowblocks

// Graph is an immutable, indexed view over a flow snapshot.
// It is created with NewGraph from the editor's node and edge lists.
//
// Graph is safe for concurrent reads. It has no mutation methods: when the
// flow changes, build a new Graph (Mutator does this after every edit).
//
// Example:
//
//	g := flowblocks.NewGraph(nodes, edges)
//	for _, next := range g.Adjacency("cond") {
//	    fmt.Println(next)
//	}
type Graph struct {
	nodes []Node
	edges []Edge

	// Pre-computed for efficient lookup
	index        map[string]int      // nodeID -> position in nodes (first occurrence)
	adjacency    map[string][]string // source -> targets, in input edge order
	outgoing     map[string][]Edge
	incoming     map[string][]Edge
	predecessors map[string][]string
}

// NewGraph builds a Graph from the given nodes and edges.
// Both slices are copied; the caller may keep mutating its own copies.
//
// Edges are grouped by source preserving input order. Edges referencing
// unknown nodes are kept in the index: they simply lead nowhere.
// If two nodes share an ID, the first one wins.
func NewGraph(nodes []Node, edges []Edge) *Graph {
	g := &Graph{
		nodes:        make([]Node, len(nodes)),
		edges:        make([]Edge, len(edges)),
		index:        make(map[string]int, len(nodes)),
		adjacency:    make(map[string][]string),
		outgoing:     make(map[string][]Edge),
		incoming:     make(map[string][]Edge),
		predecessors: make(map[string][]string),
	}
	copy(g.nodes, nodes)
	copy(g.edges, edges)

	for i, n := range g.nodes {
		if _, exists := g.index[n.ID]; !exists {
			g.index[n.ID] = i
		}
	}

	for _, e := range g.edges {
		g.adjacency[e.Source] = append(g.adjacency[e.Source], e.Target)
		g.outgoing[e.Source] = append(g.outgoing[e.Source], e)
		g.incoming[e.Target] = append(g.incoming[e.Target], e)
		g.predecessors[e.Target] = append(g.predecessors[e.Target], e.Source)
	}

	return g
}

// Node returns the node with the given ID.
// The returned pointer refers to the graph's own copy and must not be modified.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// HasNode checks if a node exists in the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Adjacency returns the targets of id's outgoing edges in input edge order.
// Returns nil for unknown nodes or nodes without outgoing edges.
func (g *Graph) Adjacency(id string) []string {
	return g.adjacency[id]
}

// Outgoing returns the edges leaving id in input order.
func (g *Graph) Outgoing(id string) []Edge {
	return g.outgoing[id]
}

// Incoming returns the edges entering id in input order.
func (g *Graph) Incoming(id string) []Edge {
	return g.incoming[id]
}

// Predecessors returns the sources of id's incoming edges.
func (g *Graph) Predecessors(id string) []string {
	return g.predecessors[id]
}

// Nodes returns a copy of the graph's nodes in input order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns a copy of the graph's edges in input order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Roots returns the IDs of nodes without incoming edges, in node order.
// A well-formed flow has exactly one root: its trigger.
func (g *Graph) Roots() []string {
	var roots []string
	seen := make(map[string]bool, len(g.nodes))
	for _, n := range g.nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		if len(g.incoming[n.ID]) == 0 {
			roots = append(roots, n.ID)
		}
	}
	return roots
}

// reachable returns the set of nodes reachable from start, never expanding
// the nodes in skip. start itself is included unless skipped.
func (g *Graph) reachable(start string, skip map[string]bool) map[string]bool {
	seen := make(map[string]bool)
	if start == "" || skip[start] {
		return seen
	}

	queue := []string{start}
	seen[start] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.adjacency[current] {
			if seen[next] || skip[next] {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}

	return seen
}

// ancestors returns id and every node that can reach it, or an empty set
// when id is not in the graph.
func (g *Graph) ancestors(id string) map[string]bool {
	seen := make(map[string]bool)
	if !g.HasNode(id) {
		return seen
	}

	queue := []string{id}
	seen[id] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, prev := range g.predecessors[current] {
			if !seen[prev] {
				seen[prev] = true
				queue = append(queue, prev)
			}
		}
	}
	return seen
}
