/*
Package flowblocks resolves the block structure of visual workflow graphs.

# Overview

A flow is a directed graph of steps. Branching constructs are ordinary
nodes: a block head (condition, parallel or loop) fans out into branches,
and the branches rejoin at a node flagged as a merge. Blocks nest, and
branches may differ in length. flowblocks answers one question reliably:
for a given block head, which merge node closes it? Safe edits (deleting a
block, swapping its kind, inserting a new one) are built on that answer.

flowblocks never executes flows, never persists them, and never validates
step parameters. Every call is a synchronous query over an in-memory
snapshot supplied by the caller.

# Basic Usage

	nodes := []flowblocks.Node{
	    {ID: "start", Type: flowblocks.KindTrigger},
	    {ID: "cond", Type: flowblocks.KindCondition},
	    {ID: "yes", Type: flowblocks.KindAction},
	    {ID: "no", Type: flowblocks.KindAction},
	    {ID: "merge", Type: flowblocks.KindMerge, Data: flowblocks.NodeData{IsMergePlaceholder: true}},
	}
	edges := []flowblocks.Edge{
	    {Source: "start", Target: "cond"},
	    {Source: "cond", Target: "yes", BranchID: "Branch 1"},
	    {Source: "cond", Target: "no", BranchID: "Branch 2"},
	    {Source: "yes", Target: "merge"},
	    {Source: "no", Target: "merge"},
	}

	mergeID, ok := flowblocks.FindMergeNode(nodes, edges, "cond") // "merge", true

# Resolution

The resolver walks the graph depth-first, carrying per path the number of
blocks opened and not yet closed. A block head adds one, a merge node
subtracts one, and the first merge that brings the count back to zero is
the answer. Merges of nested blocks are therefore walked through even when
they are closer to the head than the outer merge. Paths that close more
blocks than they opened are abandoned.

A MergeNodeID stored on the head's data is trusted without traversal. The
editor owns that memo and must clear it when it restructures the graph
around the head; Mutator does so for the edits it performs.

Unknown IDs, dangling edges, missing node data and cycles never cause an
error: the lookup reports no merge node. The traversal expands each node at
most once and is capped at 1000 steps by default (WithMaxIterations).

# Edits

	m := flowblocks.NewMutator(nodes, edges)
	if _, err := m.Delete(ctx, "cond"); err != nil {
	    var mutErr *flowblocks.MutationError
	    if errors.As(err, &mutErr) {
	        log.Printf("%s %s failed: %v", mutErr.Op, mutErr.NodeID, mutErr.Err)
	    }
	}
	nodes, edges = m.Nodes(), m.Edges()

# Observability

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	r := flowblocks.NewResolver(g,
	    flowblocks.WithLogger(logger),
	    flowblocks.WithMetrics(observability.NewMetricsRecorder()),
	    flowblocks.WithSpans(observability.NewSpanManager()))

OpenTelemetry metrics: flowblocks.resolve.calls, flowblocks.resolve.iterations,
flowblocks.resolve.latency_ms, flowblocks.mutation.count.
OpenTelemetry spans: flowblocks.resolve, flowblocks.mutation.{op}.

# Thread Safety

  - Graph and Resolver ARE safe for concurrent use (immutable)
  - Mutator is NOT safe for concurrent use

# Subpackages

  - config: resolver and CLI settings
  - observability: logging, metrics, and tracing helpers
  - query: named read-only queries over stored flows
  - snapshot: flow snapshot decoding and stores (memory, SQLite)
*/
package flowblocks
