package benchmarks

import (
	"fmt"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks"
)

func nodeID(i int) string {
	return fmt.Sprintf("node-%d", i)
}

// buildNestedFlow builds depth condition blocks nested in each other's first
// branch. The outermost head is "head-0".
func buildNestedFlow(depth int) ([]flowblocks.Node, []flowblocks.Edge) {
	nodes := []flowblocks.Node{{ID: "trigger", Type: flowblocks.KindTrigger}}
	edges := []flowblocks.Edge{{Source: "trigger", Target: "head-0"}}

	for d := 0; d < depth; d++ {
		head := fmt.Sprintf("head-%d", d)
		merge := fmt.Sprintf("merge-%d", d)
		side := fmt.Sprintf("side-%d", d)
		nodes = append(nodes,
			flowblocks.Node{ID: head, Type: flowblocks.KindCondition},
			flowblocks.Node{ID: side, Type: flowblocks.KindAction},
			flowblocks.Node{ID: merge, Type: flowblocks.KindMerge, Data: flowblocks.NodeData{IsMergePlaceholder: true}},
		)

		inner := fmt.Sprintf("head-%d", d+1)
		if d == depth-1 {
			inner = "leaf"
			nodes = append(nodes, flowblocks.Node{ID: "leaf", Type: flowblocks.KindAction})
			edges = append(edges, flowblocks.Edge{Source: "leaf", Target: merge})
		} else {
			edges = append(edges, flowblocks.Edge{Source: fmt.Sprintf("merge-%d", d+1), Target: merge})
		}
		edges = append(edges,
			flowblocks.Edge{Source: head, Target: inner, BranchID: "Branch 1"},
			flowblocks.Edge{Source: head, Target: side, BranchID: "Branch 2"},
			flowblocks.Edge{Source: side, Target: merge},
		)
	}
	return nodes, edges
}

// buildWideFlow builds one parallel block with the given number of branches,
// each a chain of length steps.
func buildWideFlow(branches, length int) ([]flowblocks.Node, []flowblocks.Edge) {
	nodes := []flowblocks.Node{
		{ID: "trigger", Type: flowblocks.KindTrigger},
		{ID: "fan", Type: flowblocks.KindParallel},
		{ID: "join", Type: flowblocks.KindMerge, Data: flowblocks.NodeData{IsMergeNode: true}},
	}
	edges := []flowblocks.Edge{{Source: "trigger", Target: "fan"}}

	n := 0
	for b := 0; b < branches; b++ {
		prev := "fan"
		for s := 0; s < length; s++ {
			id := nodeID(n)
			n++
			nodes = append(nodes, flowblocks.Node{ID: id, Type: flowblocks.KindAction})
			e := flowblocks.Edge{Source: prev, Target: id}
			if prev == "fan" {
				e.BranchID = fmt.Sprintf("Branch %d", b+1)
			}
			edges = append(edges, e)
			prev = id
		}
		edges = append(edges, flowblocks.Edge{Source: prev, Target: "join"})
	}
	return nodes, edges
}
