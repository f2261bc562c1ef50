package flowblocks

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFindMergeNode_SimpleBlock resolves a plain if/else block.
func TestFindMergeNode_SimpleBlock(t *testing.T) {
	nodes, edges := simpleBlock()

	mergeID, ok := FindMergeNode(nodes, edges, "cond")

	require.True(t, ok)
	assert.Equal(t, "merge", mergeID)
}

// TestFindMergeNode_NestedBlock skips the merge of a nested block.
func TestFindMergeNode_NestedBlock(t *testing.T) {
	nodes, edges := nestedBlock()

	mergeID, ok := FindMergeNode(nodes, edges, "cond")
	require.True(t, ok)
	assert.Equal(t, "merge", mergeID)

	innerID, ok := FindMergeNode(nodes, edges, "nested_cond")
	require.True(t, ok)
	assert.Equal(t, "nested_merge", innerID)
}

// TestFindMergeNode_UnbalancedBlock is the case a nearest-merge search gets
// wrong: nested_merge is fewer hops from cond than merge.
func TestFindMergeNode_UnbalancedBlock(t *testing.T) {
	nodes, edges := unbalancedBlock()

	mergeID, ok := FindMergeNode(nodes, edges, "cond")

	require.True(t, ok)
	assert.Equal(t, "merge", mergeID)
	assert.NotEqual(t, "nested_merge", mergeID)
}

// TestFindMergeNode_UnbalancedBlock_EdgeOrder checks the answer does not
// depend on which branch is walked first.
func TestFindMergeNode_UnbalancedBlock_EdgeOrder(t *testing.T) {
	nodes, edges := unbalancedBlock()

	// Swap the two branches of cond.
	edges[1], edges[2] = edges[2], edges[1]

	mergeID, ok := FindMergeNode(nodes, edges, "cond")

	require.True(t, ok)
	assert.Equal(t, "merge", mergeID)
}

// TestFindMergeNode_ParallelAndLoop covers the other block kinds.
func TestFindMergeNode_ParallelAndLoop(t *testing.T) {
	nodes := []Node{
		node("start", KindTrigger),
		node("fan", KindParallel),
		node("a", KindAction),
		node("b", KindAction),
		node("c", KindAction),
		mergeNode("join"),
		node("each", KindLoop),
		node("body", KindAction),
		{ID: "after_loop", Type: KindAction, Data: NodeData{IsMergeNode: true}},
	}
	edges := []Edge{
		edge("start", "fan"),
		branch("fan", "a", "0"),
		branch("fan", "b", "1"),
		branch("fan", "c", "2"),
		edge("a", "join"),
		edge("b", "join"),
		edge("c", "join"),
		edge("join", "each"),
		branch("each", "body", BranchLoop),
		branch("each", "after_loop", BranchBypass),
		edge("body", "after_loop"),
	}

	mergeID, ok := FindMergeNode(nodes, edges, "fan")
	require.True(t, ok)
	assert.Equal(t, "join", mergeID)

	// isMergeNode counts regardless of the node's type.
	mergeID, ok = FindMergeNode(nodes, edges, "each")
	require.True(t, ok)
	assert.Equal(t, "after_loop", mergeID)
}

// TestFindMergeNode_CachedMemo returns the memo without looking at edges.
func TestFindMergeNode_CachedMemo(t *testing.T) {
	nodes, edges := simpleBlock()
	nodes[1].Data.MergeNodeID = "somewhere_else"

	r := NewResolver(NewGraph(nodes, edges))
	res := r.Resolve(context.Background(), "cond")

	assert.Equal(t, "somewhere_else", res.MergeID)
	assert.True(t, res.Found)
	assert.Equal(t, OutcomeCached, res.Outcome)
	assert.Zero(t, res.Iterations)
}

// TestFindMergeNode_CachedMemo_NoEdges trusts the memo even when the graph
// no longer supports it.
func TestFindMergeNode_CachedMemo_NoEdges(t *testing.T) {
	nodes := []Node{{ID: "cond", Type: KindCondition, Data: NodeData{MergeNodeID: "gone"}}}

	mergeID, ok := FindMergeNode(nodes, nil, "cond")

	require.True(t, ok)
	assert.Equal(t, "gone", mergeID)
}

// TestFindMergeNode_NoMerge covers dangling branches and unknown starts.
func TestFindMergeNode_NoMerge(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		edges []Edge
		start string
	}{
		{
			name:  "unknown start",
			nodes: []Node{node("a", KindAction)},
			start: "missing",
		},
		{
			name: "dangling branches",
			nodes: []Node{
				node("cond", KindCondition),
				node("x", KindAction),
				node("y", KindAction),
			},
			edges: []Edge{edge("cond", "x"), edge("cond", "y")},
			start: "cond",
		},
		{
			name:  "edge to unknown node",
			nodes: []Node{node("cond", KindCondition)},
			edges: []Edge{edge("cond", "ghost")},
			start: "cond",
		},
		{
			name: "only a nested merge",
			nodes: []Node{
				node("cond", KindCondition),
				node("inner", KindCondition),
				mergeNode("inner_merge"),
			},
			edges: []Edge{edge("cond", "inner"), edge("inner", "inner_merge")},
			start: "cond",
		},
		{
			name:  "empty graph",
			start: "cond",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mergeID, ok := FindMergeNode(tt.nodes, tt.edges, tt.start)
			assert.False(t, ok)
			assert.Empty(t, mergeID)
		})
	}
}

// TestFindMergeNode_PlainStart prunes at the first merge: a plain start
// node opens no block, so closing one drives the depth negative.
func TestFindMergeNode_PlainStart(t *testing.T) {
	nodes, edges := simpleBlock()

	mergeID, ok := FindMergeNode(nodes, edges, "true1")

	assert.False(t, ok)
	assert.Empty(t, mergeID)
}

// TestFindMergeNode_HeadAndMerge covers a node that is both a block head and
// a merge: its own entry nets to zero.
func TestFindMergeNode_HeadAndMerge(t *testing.T) {
	t.Run("start node is both", func(t *testing.T) {
		nodes := []Node{
			{ID: "both", Type: KindCondition, Data: NodeData{IsMergePlaceholder: true}},
			node("next", KindAction),
		}
		edges := []Edge{edge("both", "next")}

		mergeID, ok := FindMergeNode(nodes, edges, "both")

		require.True(t, ok)
		assert.Equal(t, "both", mergeID)
	})

	t.Run("both inside a block is walked through", func(t *testing.T) {
		nodes := []Node{
			node("cond", KindCondition),
			{ID: "both", Type: KindParallel, Data: NodeData{IsMergeNode: true}},
			mergeNode("merge"),
		}
		edges := []Edge{edge("cond", "both"), edge("both", "merge")}

		mergeID, ok := FindMergeNode(nodes, edges, "cond")

		require.True(t, ok)
		assert.Equal(t, "merge", mergeID)
	})
}

// TestFindMergeNode_MalformedNodes treats missing type and data as plain
// pass-through nodes.
func TestFindMergeNode_MalformedNodes(t *testing.T) {
	nodes := []Node{
		node("cond", KindCondition),
		{ID: "no_type"},
		{ID: "odd", Type: NodeKind("webhook-ish")},
		mergeNode("merge"),
	}
	edges := []Edge{
		edge("cond", "no_type"),
		edge("cond", "odd"),
		edge("no_type", "merge"),
		edge("odd", "merge"),
	}

	mergeID, ok := FindMergeNode(nodes, edges, "cond")

	require.True(t, ok)
	assert.Equal(t, "merge", mergeID)
}

// TestFindMergeNode_VisitedMergeStillTerminates accepts a merge that was
// already expanded on another path once it is reached at depth zero.
func TestFindMergeNode_VisitedMergeStillTerminates(t *testing.T) {
	// inner and cond close at the same node. The inner path is walked first
	// and reaches "m" at depth 1; the x path then reaches it at depth 0.
	nodes := []Node{
		node("cond", KindCondition),
		node("x", KindAction),
		node("inner", KindCondition),
		mergeNode("m"),
		node("end", KindEnd),
	}
	edges := []Edge{
		edge("cond", "x"),
		edge("cond", "inner"),
		edge("inner", "m"),
		edge("x", "m"),
		edge("m", "end"),
	}

	res := NewResolver(NewGraph(nodes, edges)).Resolve(context.Background(), "cond")

	require.True(t, res.Found)
	assert.Equal(t, "m", res.MergeID)
	assert.Equal(t, OutcomeFound, res.Outcome)
}

// TestFindMergeNode_Cycles terminates on cyclic graphs.
func TestFindMergeNode_Cycles(t *testing.T) {
	t.Run("self loop", func(t *testing.T) {
		nodes := []Node{node("cond", KindCondition)}
		edges := []Edge{edge("cond", "cond")}

		_, ok := FindMergeNode(nodes, edges, "cond")
		assert.False(t, ok)
	})

	t.Run("cycle of block heads", func(t *testing.T) {
		nodes := []Node{
			node("a", KindCondition),
			node("b", KindParallel),
			node("c", KindLoop),
		}
		edges := []Edge{edge("a", "b"), edge("b", "c"), edge("c", "a")}

		res := NewResolver(NewGraph(nodes, edges)).Resolve(context.Background(), "a")
		assert.False(t, res.Found)
		assert.Equal(t, OutcomeNotFound, res.Outcome)
		assert.LessOrEqual(t, res.Iterations, DefaultMaxIterations)
	})

	t.Run("cycle with merge found", func(t *testing.T) {
		nodes := []Node{
			node("cond", KindCondition),
			node("x", KindAction),
			mergeNode("merge"),
		}
		edges := []Edge{edge("cond", "x"), edge("x", "cond"), edge("x", "merge")}

		mergeID, ok := FindMergeNode(nodes, edges, "cond")
		require.True(t, ok)
		assert.Equal(t, "merge", mergeID)
	})
}

// TestResolve_IterationCap reports exhaustion instead of walking forever.
func TestResolve_IterationCap(t *testing.T) {
	nodes, edges := linearChain(50)
	nodes[0].Type = KindCondition

	r := NewResolver(NewGraph(nodes, edges), WithMaxIterations(10))
	res := r.Resolve(context.Background(), "start")

	assert.False(t, res.Found)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Equal(t, 10, res.Iterations)
}

// TestResolve_IterationCap_LargeFanOut stays bounded on wide graphs.
func TestResolve_IterationCap_LargeFanOut(t *testing.T) {
	nodes := []Node{node("fan", KindParallel)}
	var edges []Edge
	for i := 0; i < 400; i++ {
		a := fmt.Sprintf("a%d", i)
		b := fmt.Sprintf("b%d", i)
		nodes = append(nodes, node(a, KindAction), node(b, KindAction))
		edges = append(edges, edge("fan", a), edge(a, b), edge(b, a))
	}

	res := NewResolver(NewGraph(nodes, edges)).Resolve(context.Background(), "fan")

	assert.False(t, res.Found)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Equal(t, DefaultMaxIterations, res.Iterations)
}

// TestFindMergeNode_Idempotent returns the same answer on repeated calls.
func TestFindMergeNode_Idempotent(t *testing.T) {
	nodes, edges := unbalancedBlock()
	r := NewResolver(NewGraph(nodes, edges))

	first, ok1 := r.FindMergeNode("cond")
	second, ok2 := r.FindMergeNode("cond")

	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

// TestFindMergeNode_DoesNotMutateInput leaves the caller's slices alone.
func TestFindMergeNode_DoesNotMutateInput(t *testing.T) {
	nodes, edges := nestedBlock()
	nodesBefore := append([]Node(nil), nodes...)
	edgesBefore := append([]Edge(nil), edges...)

	_, _ = FindMergeNode(nodes, edges, "cond")

	assert.Equal(t, nodesBefore, nodes)
	assert.Equal(t, edgesBefore, edges)
}

// TestNewResolver_NilGraph panics like the other builder misuse checks.
func TestNewResolver_NilGraph(t *testing.T) {
	assert.PanicsWithValue(t, "flowblocks: graph cannot be nil", func() {
		NewResolver(nil)
	})
}

// TestWithMaxIterations_IgnoresNonPositive keeps the default.
func TestWithMaxIterations_IgnoresNonPositive(t *testing.T) {
	cfg := newResolveConfig([]ResolveOption{WithMaxIterations(0), WithMaxIterations(-5)})
	assert.Equal(t, DefaultMaxIterations, cfg.maxIterations)

	cfg = newResolveConfig([]ResolveOption{WithMaxIterations(25)})
	assert.Equal(t, 25, cfg.maxIterations)
}
