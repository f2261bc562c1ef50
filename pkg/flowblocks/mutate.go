package flowblocks

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks/observability"
)

// Edit operation names used in errors, logs and telemetry.
const (
	OpDelete      = "delete"
	OpSwap        = "swap"
	OpInsertBlock = "insert_block"
	OpInsertStep  = "insert_step"
)

// Loop branch labels. A loop block has exactly one body branch and one
// bypass branch.
const (
	BranchLoop   = "loop"
	BranchBypass = "bypass"
)

// mutatorConfig holds configuration for a Mutator.
type mutatorConfig struct {
	resolveOpts []ResolveOption
	newID       func() string
}

// MutatorOption configures a Mutator.
type MutatorOption func(*mutatorConfig)

// WithResolveOptions sets the options used for every merge lookup the
// mutator performs. The logger, metrics and spans configured here are also
// used for the edits themselves.
func WithResolveOptions(opts ...ResolveOption) MutatorOption {
	return func(c *mutatorConfig) {
		c.resolveOpts = append(c.resolveOpts, opts...)
	}
}

// WithIDFunc sets the generator for IDs of inserted nodes.
// Default: uuid.NewString
func WithIDFunc(fn func() string) MutatorOption {
	return func(c *mutatorConfig) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// InsertPoint names where a new node goes: on the outgoing edge of After.
// Branch selects the edge by BranchID when After has several outgoing
// edges (a block head); it may be empty otherwise.
type InsertPoint struct {
	After  string
	Branch string
}

// DeleteResult describes what a Delete removed and rewired.
type DeleteResult struct {
	// Removed lists the removed node IDs, sorted.
	Removed []string
	// MergeID is the merge node of a deleted block head, if one was found.
	MergeID string
	// MergeRemoved is true when the merge node went away with its block.
	MergeRemoved bool
	// Reconnected lists the edges added to bridge the gap.
	Reconnected []Edge
}

// InsertResult identifies the nodes created by InsertBlock.
type InsertResult struct {
	HeadID  string
	MergeID string
}

// Mutator applies structure-preserving edits to a flow.
//
// It owns a private copy of the nodes and edges and rebuilds its Graph after
// every successful edit. A failed edit leaves the flow unchanged.
//
// Mutator is NOT safe for concurrent use.
type Mutator struct {
	nodes []Node
	edges []Edge
	graph *Graph
	cfg   mutatorConfig
	rcfg  resolveConfig
}

// NewMutator creates a mutator over a copy of nodes and edges.
func NewMutator(nodes []Node, edges []Edge, opts ...MutatorOption) *Mutator {
	cfg := mutatorConfig{newID: uuid.NewString}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Mutator{
		nodes: make([]Node, len(nodes)),
		edges: make([]Edge, len(edges)),
		cfg:   cfg,
		rcfg:  newResolveConfig(cfg.resolveOpts),
	}
	copy(m.nodes, nodes)
	copy(m.edges, edges)
	m.graph = NewGraph(m.nodes, m.edges)
	return m
}

// Graph returns the current flow as an immutable Graph.
func (m *Mutator) Graph() *Graph {
	return m.graph
}

// Nodes returns a copy of the current nodes.
func (m *Mutator) Nodes() []Node {
	return m.graph.Nodes()
}

// Edges returns a copy of the current edges.
func (m *Mutator) Edges() []Edge {
	return m.graph.Edges()
}

// run wraps an edit with telemetry and error context.
func (m *Mutator) run(ctx context.Context, op, nodeID string, fn func() error) error {
	ctx, span := m.rcfg.spans.StartMutationSpan(ctx, op, nodeID)
	nodes, edges := m.nodes, m.edges

	err := fn()
	if err != nil {
		err = &MutationError{Op: op, NodeID: nodeID, Err: err}
		observability.LogMutationError(m.rcfg.logger, op, nodeID, err)
	} else {
		observability.LogMutation(m.rcfg.logger, op, nodeID, editCounts(nodes, edges, m.nodes, m.edges))
	}

	m.rcfg.spans.EndSpanWithError(span, err)
	m.rcfg.metrics.RecordMutation(ctx, op, err)
	return err
}

// commit replaces the flow and rebuilds the graph.
func (m *Mutator) commit(nodes []Node, edges []Edge) {
	m.nodes = nodes
	m.edges = edges
	m.graph = NewGraph(nodes, edges)
}

// Delete removes a node while keeping the flow single-entry/single-exit.
//
// A plain node is removed and its predecessors are wired to its successors.
//
// A block head is removed together with the nodes owned only by its block.
// Its merge node is removed as well when no other block head closes there and
// nothing else leads into it; predecessors are then wired to the merge's
// successors. Otherwise the merge node stays and predecessors are wired to it.
// An open block (no merge found) extends to the end of the flow.
//
// Returns ErrNodeNotFound, ErrRootNode or ErrMergeNode wrapped in a
// MutationError.
func (m *Mutator) Delete(ctx context.Context, id string) (DeleteResult, error) {
	var result DeleteResult
	err := m.run(ctx, OpDelete, id, func() error {
		var err error
		result, err = m.delete(id)
		return err
	})
	return result, err
}

func (m *Mutator) delete(id string) (DeleteResult, error) {
	g := m.graph
	var result DeleteResult

	n, ok := g.Node(id)
	if !ok {
		return result, ErrNodeNotFound
	}
	if IsMergeNode(n) {
		return result, ErrMergeNode
	}
	if len(g.Incoming(id)) == 0 {
		return result, ErrRootNode
	}

	removed := map[string]bool{id: true}
	var targets []string

	if !IsBlockHead(n) {
		targets = g.Adjacency(id)
	} else {
		mergeID, found := liveMerge(NewResolver(g, m.cfg.resolveOpts...), id)

		// Nodes still reachable from a root once the head is gone belong to
		// someone else and survive.
		outside := make(map[string]bool)
		for _, root := range g.Roots() {
			for reached := range g.reachable(root, removed) {
				outside[reached] = true
			}
		}

		for inner := range extent(g, id, mergeID) {
			if !outside[inner] {
				removed[inner] = true
			}
		}

		if found {
			result.MergeID = mergeID
			shared := outside[mergeID]
			for _, user := range MergeUsers(g, mergeID, m.cfg.resolveOpts...) {
				if !removed[user] {
					shared = true
				}
			}

			if shared {
				targets = []string{mergeID}
			} else {
				removed[mergeID] = true
				result.MergeRemoved = true
				for _, next := range g.Adjacency(mergeID) {
					if !removed[next] {
						targets = append(targets, next)
					}
				}
			}
		}
	}

	exists := make(map[Edge]bool, len(m.edges))
	for _, e := range m.edges {
		if !removed[e.Source] && !removed[e.Target] {
			exists[e] = true
		}
	}
	added := make(map[Edge]bool)

	edges := make([]Edge, 0, len(m.edges))
	for _, e := range m.edges {
		switch {
		case e.Target == id && !removed[e.Source]:
			// Rewire the incoming edge in place so branch order is kept.
			// An edge out of a block head is a branch of its own and is kept
			// even when a sibling branch already has the same endpoints.
			src, _ := g.Node(e.Source)
			branchEdge := IsBlockHead(src)
			for _, t := range targets {
				bridge := Edge{Source: e.Source, Target: t, BranchID: e.BranchID}
				if removed[t] || (!branchEdge && (added[bridge] || exists[bridge])) {
					continue
				}
				added[bridge] = true
				edges = append(edges, bridge)
				result.Reconnected = append(result.Reconnected, bridge)
			}
		case removed[e.Source] || removed[e.Target]:
		default:
			edges = append(edges, e)
		}
	}

	nodes := make([]Node, 0, len(m.nodes))
	for _, node := range m.nodes {
		if removed[node.ID] {
			continue
		}
		// Memos pointing at removed nodes are stale.
		if removed[node.Data.MergeNodeID] {
			node.Data.MergeNodeID = ""
		}
		nodes = append(nodes, node)
	}

	result.Removed = sortedKeys(removed)
	m.commit(nodes, edges)
	return result, nil
}

// Swap changes a node's kind in place.
//
// Swapping between block kinds (for example condition to parallel) keeps the
// block's merge node and any MergeNodeID memo: the block's shape does not
// change. Swapping between plain kinds only retypes the node. Swapping across
// the two categories would orphan or invent a merge node and is rejected
// with ErrInvalidSwap.
func (m *Mutator) Swap(ctx context.Context, id string, kind NodeKind) error {
	return m.run(ctx, OpSwap, id, func() error {
		if kind == "" {
			return ErrInvalidKind
		}
		n, ok := m.graph.Node(id)
		if !ok {
			return ErrNodeNotFound
		}
		if IsMergeNode(n) {
			return ErrMergeNode
		}
		if n.Type.IsBlockHead() != kind.IsBlockHead() {
			return fmt.Errorf("%w: %s to %s", ErrInvalidSwap, n.Type, kind)
		}

		nodes := make([]Node, len(m.nodes))
		copy(nodes, m.nodes)
		for i := range nodes {
			if nodes[i].ID == id {
				nodes[i].Type = kind
				break
			}
		}
		m.commit(nodes, m.edges)
		return nil
	})
}

// InsertBlock inserts a new block head of the given kind at the insert
// point, together with its merge placeholder. Each branch starts as a direct
// edge from the head to the merge; the merge takes over the insert point's
// former successor.
//
// branches is the number of branches (0 means 2). Loops always have exactly
// two branches, labelled "loop" and "bypass"; other blocks label branches
// "Branch 1", "Branch 2", and so on.
//
// The new head's MergeNodeID memo is set, so later lookups are O(1).
func (m *Mutator) InsertBlock(ctx context.Context, at InsertPoint, kind NodeKind, branches int) (InsertResult, error) {
	var result InsertResult
	err := m.run(ctx, OpInsertBlock, at.After, func() error {
		var err error
		result, err = m.insertBlock(at, kind, branches)
		return err
	})
	return result, err
}

func (m *Mutator) insertBlock(at InsertPoint, kind NodeKind, branches int) (InsertResult, error) {
	if !kind.IsBlockHead() {
		return InsertResult{}, fmt.Errorf("%w: %q is not a block kind", ErrInvalidKind, kind)
	}
	if branches == 0 {
		branches = 2
	}
	if branches < 2 || (kind == KindLoop && branches != 2) {
		return InsertResult{}, fmt.Errorf("%w: %s with %d branches", ErrInvalidBranches, kind, branches)
	}

	edgeIdx, err := m.insertionEdge(at)
	if err != nil {
		return InsertResult{}, err
	}

	headID, mergeID := m.cfg.newID(), m.cfg.newID()
	if m.graph.HasNode(headID) || m.graph.HasNode(mergeID) || headID == mergeID {
		return InsertResult{}, ErrDuplicateID
	}

	head := Node{
		ID:   headID,
		Type: kind,
		Data: NodeData{Label: string(kind), MergeNodeID: mergeID},
	}
	merge := Node{
		ID:   mergeID,
		Type: KindMerge,
		Data: NodeData{IsMergePlaceholder: true},
	}

	inner := make([]Edge, 0, branches+1)
	for i := 0; i < branches; i++ {
		inner = append(inner, Edge{Source: headID, Target: mergeID, BranchID: branchLabel(kind, i)})
	}

	m.splice(at.After, edgeIdx, []Node{head, merge}, headID, mergeID, inner)
	return InsertResult{HeadID: headID, MergeID: mergeID}, nil
}

// InsertStep inserts a plain node at the insert point and returns its ID.
// An empty node.ID is filled in with a generated one. Block kinds must go
// through InsertBlock and merge nodes cannot be inserted on their own.
func (m *Mutator) InsertStep(ctx context.Context, at InsertPoint, node Node) (string, error) {
	err := m.run(ctx, OpInsertStep, at.After, func() error {
		if node.Type.IsBlockHead() {
			return fmt.Errorf("%w: use InsertBlock for %s", ErrInvalidKind, node.Type)
		}
		if IsMergeNode(&node) {
			return ErrMergeNode
		}
		if node.ID == "" {
			node.ID = m.cfg.newID()
		}
		if m.graph.HasNode(node.ID) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, node.ID)
		}

		edgeIdx, err := m.insertionEdge(at)
		if err != nil {
			return err
		}

		m.splice(at.After, edgeIdx, []Node{node}, node.ID, node.ID, nil)
		return nil
	})
	if err != nil {
		return "", err
	}
	return node.ID, nil
}

// editCounts compares a flow before and after an edit. Nodes are compared
// by ID and edges as a multiset.
func editCounts(beforeNodes []Node, beforeEdges []Edge, afterNodes []Node, afterEdges []Edge) observability.EditCounts {
	var c observability.EditCounts

	nodes := make(map[string]int)
	for _, n := range beforeNodes {
		nodes[n.ID]++
	}
	for _, n := range afterNodes {
		nodes[n.ID]--
	}
	for _, d := range nodes {
		if d > 0 {
			c.NodesRemoved += d
		} else {
			c.NodesAdded -= d
		}
	}

	edges := make(map[Edge]int)
	for _, e := range beforeEdges {
		edges[e]++
	}
	for _, e := range afterEdges {
		edges[e]--
	}
	for _, d := range edges {
		if d > 0 {
			c.EdgesRemoved += d
		} else {
			c.EdgesAdded -= d
		}
	}
	return c
}

// insertionEdge returns the index in m.edges of the edge the insert point
// splits, or -1 when the node has no outgoing edge.
func (m *Mutator) insertionEdge(at InsertPoint) (int, error) {
	if !m.graph.HasNode(at.After) {
		return -1, ErrNodeNotFound
	}

	var candidates []int
	for i, e := range m.edges {
		if e.Source != at.After {
			continue
		}
		if at.Branch != "" && e.BranchID != at.Branch {
			continue
		}
		candidates = append(candidates, i)
	}

	switch {
	case at.Branch != "" && len(candidates) == 0:
		return -1, fmt.Errorf("%w: %s on %s", ErrBranchNotFound, at.Branch, at.After)
	case len(candidates) > 1:
		return -1, ErrAmbiguousInsert
	case len(candidates) == 0:
		return -1, nil
	}
	return candidates[0], nil
}

// splice inserts newNodes after the node `after`, routes the split edge
// (or a fresh edge when edgeIdx is -1) into entryID, adds inner, and hands
// the former successor over to exitID.
func (m *Mutator) splice(after string, edgeIdx int, newNodes []Node, entryID, exitID string, inner []Edge) {
	nodes := make([]Node, 0, len(m.nodes)+len(newNodes))
	for _, n := range m.nodes {
		nodes = append(nodes, n)
		if n.ID == after {
			nodes = append(nodes, newNodes...)
		}
	}

	edges := make([]Edge, 0, len(m.edges)+len(inner)+2)
	if edgeIdx < 0 {
		edges = append(edges, m.edges...)
		edges = append(edges, Edge{Source: after, Target: entryID})
		edges = append(edges, inner...)
	} else {
		split := m.edges[edgeIdx]
		for i, e := range m.edges {
			if i != edgeIdx {
				edges = append(edges, e)
				continue
			}
			edges = append(edges, Edge{Source: split.Source, Target: entryID, BranchID: split.BranchID})
			edges = append(edges, inner...)
			edges = append(edges, Edge{Source: exitID, Target: split.Target})
		}
	}

	m.commit(nodes, edges)
}

// branchLabel returns the BranchID of the i-th branch of a new block.
func branchLabel(kind NodeKind, i int) string {
	if kind == KindLoop {
		if i == 0 {
			return BranchLoop
		}
		return BranchBypass
	}
	return fmt.Sprintf("Branch %d", i+1)
}
