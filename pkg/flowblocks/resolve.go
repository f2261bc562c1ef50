package flowblocks

import (
	"context"
	"time"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks/observability"
)

// Outcome describes how a resolution ended.
type Outcome string

// Resolution outcomes.
const (
	// OutcomeCached means the start node carried a MergeNodeID memo.
	OutcomeCached Outcome = "cached"
	// OutcomeFound means the traversal found the closing merge node.
	OutcomeFound Outcome = "found"
	// OutcomeNotFound means every path was explored without a match.
	OutcomeNotFound Outcome = "not_found"
	// OutcomeExhausted means the iteration cap stopped the traversal.
	OutcomeExhausted Outcome = "exhausted"
)

// Resolution is the detailed result of a merge lookup.
type Resolution struct {
	// StartID is the node the lookup started from.
	StartID string
	// MergeID is the merge node closing the block, empty when Found is false.
	MergeID string
	// Found is true when MergeID is set.
	Found bool
	// Outcome tells whether the answer came from the memo, the traversal,
	// or why there is none.
	Outcome Outcome
	// Iterations is the number of stack pops performed (0 for cached answers).
	Iterations int
}

// frame is one pending traversal step: a node and the number of blocks
// opened and not yet closed on the path that reached it.
type frame struct {
	id    string
	depth int
}

// Resolver finds the merge node that closes the block opened by a node.
// Create one with NewResolver; it is cheap and holds no state between calls,
// so it can be used concurrently.
type Resolver struct {
	graph *Graph
	cfg   resolveConfig
}

// NewResolver creates a resolver over g.
//
// Panics if g is nil.
func NewResolver(g *Graph, opts ...ResolveOption) *Resolver {
	if g == nil {
		panic("flowblocks: graph cannot be nil")
	}
	return &Resolver{graph: g, cfg: newResolveConfig(opts)}
}

// Graph returns the graph the resolver reads.
func (r *Resolver) Graph() *Graph {
	return r.graph
}

// FindMergeNode returns the ID of the merge node that closes the block
// started at startID. The boolean is false when no such node is reachable.
func (r *Resolver) FindMergeNode(startID string) (string, bool) {
	res := r.Resolve(context.Background(), startID)
	return res.MergeID, res.Found
}

// Resolve is FindMergeNode with the full Resolution. ctx only carries
// telemetry; resolution never blocks and cannot be cancelled.
//
// The lookup works as follows:
//  1. If the start node has a MergeNodeID memo, it is returned as-is.
//  2. Otherwise a depth-first walk carries, per path, the number of blocks
//     opened and not yet closed. Visiting a block head adds one, visiting a
//     merge node then subtracts one.
//  3. The first merge node that brings the count back to zero is the answer.
//     Merges of nested blocks only bring the count back to their own level
//     and are walked through.
//  4. A path whose count goes negative closed a block it never opened and is
//     abandoned.
//  5. Nodes are expanded at most once, and the total number of steps is capped.
func (r *Resolver) Resolve(ctx context.Context, startID string) Resolution {
	start := time.Now()
	ctx, span := r.cfg.spans.StartResolveSpan(ctx, startID)

	res := r.resolve(startID)

	duration := time.Since(start)
	r.cfg.spans.EndResolveSpan(span, res.MergeID, string(res.Outcome), res.Iterations)
	r.cfg.metrics.RecordResolution(ctx, string(res.Outcome), res.Iterations, duration)
	if res.Outcome == OutcomeExhausted {
		observability.LogResolveExhausted(r.cfg.logger, startID, r.cfg.maxIterations)
	} else {
		observability.LogResolve(r.cfg.logger, startID, res.MergeID, string(res.Outcome), res.Iterations, float64(duration.Microseconds())/1000)
	}

	return res
}

func (r *Resolver) resolve(startID string) Resolution {
	res := Resolution{StartID: startID, Outcome: OutcomeNotFound}

	if n, ok := r.graph.Node(startID); ok && n.Data.MergeNodeID != "" {
		res.MergeID = n.Data.MergeNodeID
		res.Found = true
		res.Outcome = OutcomeCached
		return res
	}

	stack := []frame{{id: startID, depth: 0}}
	visited := make(map[string]bool)

	for len(stack) > 0 {
		if res.Iterations >= r.cfg.maxIterations {
			res.Outcome = OutcomeExhausted
			return res
		}
		res.Iterations++

		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n, _ := r.graph.Node(top.id)
		depth := top.depth
		if IsBlockHead(n) {
			depth++
		}
		isMerge := IsMergeNode(n)
		if isMerge {
			depth--
		}

		if depth == 0 && isMerge {
			res.MergeID = top.id
			res.Found = true
			res.Outcome = OutcomeFound
			return res
		}

		// This path closed a block it never opened.
		if depth < 0 {
			continue
		}

		if visited[top.id] {
			continue
		}
		visited[top.id] = true

		for _, child := range r.graph.Adjacency(top.id) {
			stack = append(stack, frame{id: child, depth: depth})
		}
	}

	return res
}

// FindMergeNode builds a graph from nodes and edges and returns the merge
// node closing the block started at startID.
//
// It never panics for well-formed input types: unknown IDs, dangling edges,
// missing node data and cycles all end in ("", false).
func FindMergeNode(nodes []Node, edges []Edge, startID string, opts ...ResolveOption) (string, bool) {
	return NewResolver(NewGraph(nodes, edges), opts...).FindMergeNode(startID)
}
