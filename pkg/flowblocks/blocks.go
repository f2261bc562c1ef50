package flowblocks

import "sort"

// Branch is one outgoing path of a block head.
type Branch struct {
	// BranchID is the edge's branch label, possibly empty.
	BranchID string `json:"branchId,omitempty"`
	// EntryID is the first node of the branch.
	EntryID string `json:"entryId"`
}

// Block describes a branching construct: its head, its branches, and the
// merge node where they rejoin.
type Block struct {
	// HeadID is the block head node.
	HeadID string `json:"headId"`
	// Kind is the head's node kind.
	Kind NodeKind `json:"kind"`
	// Branches are the head's outgoing edges in input order.
	Branches []Branch `json:"branches"`
	// MergeID is the closing merge node, empty when Found is false.
	MergeID string `json:"mergeId,omitempty"`
	// Found is false for open blocks.
	Found bool `json:"found"`
}

// Blocks returns every block head of g in node order with its branches and
// resolved merge node.
func Blocks(g *Graph, opts ...ResolveOption) []Block {
	r := NewResolver(g, opts...)

	var blocks []Block
	seen := make(map[string]bool)
	for _, n := range g.nodes {
		if seen[n.ID] || !IsBlockHead(&n) {
			continue
		}
		seen[n.ID] = true

		mergeID, found := liveMerge(r, n.ID)
		block := Block{
			HeadID:  n.ID,
			Kind:    n.Type,
			MergeID: mergeID,
			Found:   found,
		}
		for _, e := range g.Outgoing(n.ID) {
			block.Branches = append(block.Branches, Branch{BranchID: e.BranchID, EntryID: e.Target})
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// Extent returns the nodes strictly inside the block opened at headID:
// everything reachable from the head without passing through its merge
// node. For open blocks this is everything reachable from the head.
// The result is sorted and excludes the head and the merge node.
func Extent(g *Graph, headID string, opts ...ResolveOption) []string {
	mergeID, _ := liveMerge(NewResolver(g, opts...), headID)
	return sortedKeys(extent(g, headID, mergeID))
}

// liveMerge resolves headID like FindMergeNode, but a MergeNodeID memo
// naming a node that is not in the graph is ignored and the merge is found
// by traversal instead.
func liveMerge(r *Resolver, headID string) (string, bool) {
	mergeID, found := r.FindMergeNode(headID)
	if !found || r.graph.HasNode(mergeID) {
		return mergeID, found
	}

	nodes := r.graph.Nodes()
	for i := range nodes {
		if nodes[i].ID == headID {
			nodes[i].Data.MergeNodeID = ""
		}
	}
	fresh := &Resolver{graph: NewGraph(nodes, r.graph.Edges()), cfg: r.cfg}
	mergeID, found = fresh.FindMergeNode(headID)
	if found && !fresh.graph.HasNode(mergeID) {
		return "", false
	}
	return mergeID, found
}

// extent returns the interior of a block as a set.
func extent(g *Graph, headID, mergeID string) map[string]bool {
	skip := map[string]bool{headID: true}
	if mergeID != "" {
		skip[mergeID] = true
	}

	inside := make(map[string]bool)
	for _, child := range g.Adjacency(headID) {
		for id := range g.reachable(child, skip) {
			inside[id] = true
		}
	}
	return inside
}

// MergeUsers returns the block heads, in node order, whose branches close at
// mergeID. Only heads that can reach mergeID are resolved.
func MergeUsers(g *Graph, mergeID string, opts ...ResolveOption) []string {
	ancestors := g.ancestors(mergeID)
	if len(ancestors) == 0 {
		return nil
	}

	r := NewResolver(g, opts...)
	var users []string
	seen := make(map[string]bool)
	for _, n := range g.nodes {
		if seen[n.ID] || !ancestors[n.ID] || !IsBlockHead(&n) {
			continue
		}
		seen[n.ID] = true
		if found, ok := liveMerge(r, n.ID); ok && found == mergeID {
			users = append(users, n.ID)
		}
	}
	return users
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
