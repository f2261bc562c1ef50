package flowblocks

import "fmt"

// Test fixtures used across tests.

// node builds a node of the given kind.
func node(id string, kind NodeKind) Node {
	return Node{ID: id, Type: kind}
}

// mergeNode builds a merge placeholder.
func mergeNode(id string) Node {
	return Node{ID: id, Type: KindMerge, Data: NodeData{IsMergePlaceholder: true}}
}

// edge builds an unlabelled edge.
func edge(from, to string) Edge {
	return Edge{Source: from, Target: to}
}

// branch builds a labelled edge.
func branch(from, to, label string) Edge {
	return Edge{Source: from, Target: to, BranchID: label}
}

// simpleBlock is start -> cond -> {true1, false1} -> merge -> end.
func simpleBlock() ([]Node, []Edge) {
	nodes := []Node{
		node("start", KindTrigger),
		node("cond", KindCondition),
		node("true1", KindAction),
		node("false1", KindAction),
		mergeNode("merge"),
		node("end", KindEnd),
	}
	edges := []Edge{
		edge("start", "cond"),
		branch("cond", "true1", "Branch 1"),
		branch("cond", "false1", "Branch 2"),
		edge("true1", "merge"),
		edge("false1", "merge"),
		edge("merge", "end"),
	}
	return nodes, edges
}

// nestedBlock has an outer condition whose second branch holds a fully
// nested condition:
//
//	start -> cond -> p1 -> merge
//	         cond -> nested_cond -> {n_t, n_f} -> nested_merge -> merge
//	merge -> end
func nestedBlock() ([]Node, []Edge) {
	nodes := []Node{
		node("start", KindTrigger),
		node("cond", KindCondition),
		node("p1", KindAction),
		node("nested_cond", KindCondition),
		node("n_t", KindAction),
		node("n_f", KindAction),
		mergeNode("nested_merge"),
		mergeNode("merge"),
		node("end", KindEnd),
	}
	edges := []Edge{
		edge("start", "cond"),
		branch("cond", "p1", "Branch 1"),
		branch("cond", "nested_cond", "Branch 2"),
		branch("nested_cond", "n_t", "Branch 1"),
		branch("nested_cond", "n_f", "Branch 2"),
		edge("n_t", "nested_merge"),
		edge("n_f", "nested_merge"),
		edge("nested_merge", "merge"),
		edge("p1", "merge"),
		edge("merge", "end"),
	}
	return nodes, edges
}

// unbalancedBlock has one long branch and one short branch through a nested
// block whose merge is fewer hops from the head than the outer merge:
//
//	cond -> step1 -> step2 -> merge
//	cond -> nested_cond -> nested_merge -> merge
func unbalancedBlock() ([]Node, []Edge) {
	nodes := []Node{
		node("start", KindTrigger),
		node("cond", KindCondition),
		node("step1", KindAction),
		node("step2", KindAction),
		node("nested_cond", KindCondition),
		mergeNode("nested_merge"),
		mergeNode("merge"),
		node("end", KindEnd),
	}
	edges := []Edge{
		edge("start", "cond"),
		branch("cond", "step1", "Branch 1"),
		branch("cond", "nested_cond", "Branch 2"),
		edge("step1", "step2"),
		edge("step2", "merge"),
		branch("nested_cond", "nested_merge", "Branch 1"),
		branch("nested_cond", "nested_merge", "Branch 2"),
		edge("nested_merge", "merge"),
		edge("merge", "end"),
	}
	return nodes, edges
}

// linearChain builds n action nodes in a row after a trigger.
func linearChain(n int) ([]Node, []Edge) {
	nodes := []Node{node("start", KindTrigger)}
	var edges []Edge
	prev := "start"
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("a%d", i)
		nodes = append(nodes, node(id, KindAction))
		edges = append(edges, edge(prev, id))
		prev = id
	}
	return nodes, edges
}

// sequentialIDs returns an ID generator producing id-1, id-2, ...
func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// targetsOf returns the targets of source's outgoing edges in order.
func targetsOf(edges []Edge, source string) []string {
	var out []string
	for _, e := range edges {
		if e.Source == source {
			out = append(out, e.Target)
		}
	}
	return out
}

// nodeIDs returns the IDs of nodes in order.
func nodeIDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
