package query

import (
	"context"
	"fmt"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks"
	"github.com/randalmurphal/flowblocks/pkg/flowblocks/snapshot"
)

// Built-in query names.
const (
	QueryMergeNode   = "merge_node"   // Resolution for a block head (args: node ID)
	QueryBlockExtent = "block_extent" // Nodes inside a block (args: node ID)
	QueryBlocks      = "blocks"       // Every block in the flow
	QueryValidate    = "validate"     // Structural problems
)

// ValidationReport is the result of the validate query.
type ValidationReport struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// RegisterBuiltins registers the standard query handlers.
// The loader is used to retrieve flows; opts apply to every merge lookup.
func RegisterBuiltins(registry *Registry, loader Loader, opts ...flowblocks.ResolveOption) error {
	withGraph := func(fn func(ctx context.Context, g *flowblocks.Graph, args any) (any, error)) Handler {
		return func(ctx context.Context, flowID string, args any) (any, error) {
			snap, err := loader(ctx, flowID)
			if err != nil {
				return nil, err
			}
			if snap == nil {
				return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, flowID)
			}
			return fn(ctx, snap.Graph(), args)
		}
	}

	builtins := map[string]Handler{
		QueryMergeNode: withGraph(func(ctx context.Context, g *flowblocks.Graph, args any) (any, error) {
			nodeID, err := nodeArg(args)
			if err != nil {
				return nil, err
			}
			return flowblocks.NewResolver(g, opts...).Resolve(ctx, nodeID), nil
		}),
		QueryBlockExtent: withGraph(func(_ context.Context, g *flowblocks.Graph, args any) (any, error) {
			nodeID, err := nodeArg(args)
			if err != nil {
				return nil, err
			}
			return flowblocks.Extent(g, nodeID, opts...), nil
		}),
		QueryBlocks: withGraph(func(_ context.Context, g *flowblocks.Graph, _ any) (any, error) {
			return flowblocks.Blocks(g, opts...), nil
		}),
		QueryValidate: withGraph(func(_ context.Context, g *flowblocks.Graph, _ any) (any, error) {
			return Report(g.Validate(opts...)), nil
		}),
	}

	for name, handler := range builtins {
		if err := registry.Register(name, handler); err != nil {
			return fmt.Errorf("failed to register builtin query %q: %w", name, err)
		}
	}

	return nil
}

// Report turns a Validate error into a ValidationReport, one entry per
// joined error.
func Report(err error) ValidationReport {
	if err == nil {
		return ValidationReport{Valid: true}
	}
	report := ValidationReport{}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			report.Errors = append(report.Errors, e.Error())
		}
		return report
	}
	report.Errors = []string{err.Error()}
	return report
}

// nodeArg extracts the node ID argument of a node-scoped query.
func nodeArg(args any) (string, error) {
	id, ok := args.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("%w: node ID string required, got %T", ErrInvalidArgs, args)
	}
	return id, nil
}

// MemoryLoader serves flows from a fixed set of snapshots, keyed by flow ID.
// It is useful for tests and one-shot tools that read a single file.
func MemoryLoader(snaps ...*snapshot.Snapshot) Loader {
	byID := make(map[string]*snapshot.Snapshot, len(snaps))
	for _, s := range snaps {
		byID[s.FlowID] = s
	}
	return func(_ context.Context, flowID string) (*snapshot.Snapshot, error) {
		s, ok := byID[flowID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, flowID)
		}
		return s, nil
	}
}
