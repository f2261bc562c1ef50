package main

import (
	"github.com/spf13/cobra"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks"
	"github.com/randalmurphal/flowblocks/pkg/flowblocks/observability"
	"github.com/randalmurphal/flowblocks/pkg/flowblocks/snapshot"
)

// editOutput is printed after an edit. Flow is included only when the
// edited flow is not written to --out or back to --db.
type editOutput struct {
	Op     string             `json:"op"`
	Result any                `json:"result,omitempty"`
	Flow   *snapshot.Snapshot `json:"flow,omitempty"`
}

// runEdit loads the flow, applies fn through a Mutator and writes the
// result to --out, back to the database, or to stdout.
func (a *app) runEdit(cmd *cobra.Command, op, nodeID string, fn func(m *flowblocks.Mutator) (any, error)) error {
	src, err := a.loadSource()
	if err != nil {
		return err
	}
	defer src.Close()

	m := flowblocks.NewMutator(src.snap.Nodes, src.snap.Edges,
		flowblocks.WithResolveOptions(a.resolveOptions()...))

	result, err := fn(m)
	if err != nil {
		return err
	}

	edited := &snapshot.Snapshot{
		FlowID: src.snap.FlowID,
		Name:   src.snap.Name,
		Nodes:  m.Nodes(),
		Edges:  m.Edges(),
	}
	out := editOutput{Op: op, Result: result}
	logger := observability.EnrichLogger(a.logger, edited.FlowID, nodeID)

	switch {
	case a.out != "":
		if err := writeSnapshotFile(a.out, edited); err != nil {
			return err
		}
		logger.Debug("edited flow written", "path", a.out)
	case src.store != nil:
		if err := src.store.Save(edited); err != nil {
			return err
		}
		logger.Debug("edited flow saved", "db", a.settings.Database)
	default:
		out.Flow = edited
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func (a *app) runDelete(cmd *cobra.Command, args []string) error {
	return a.runEdit(cmd, flowblocks.OpDelete, args[0], func(m *flowblocks.Mutator) (any, error) {
		return m.Delete(cmd.Context(), args[0])
	})
}

func (a *app) runSwap(cmd *cobra.Command, args []string) error {
	return a.runEdit(cmd, flowblocks.OpSwap, args[0], func(m *flowblocks.Mutator) (any, error) {
		return nil, m.Swap(cmd.Context(), args[0], flowblocks.NodeKind(args[1]))
	})
}

func (a *app) runInsertBlock(cmd *cobra.Command, args []string) error {
	return a.runEdit(cmd, flowblocks.OpInsertBlock, args[0], func(m *flowblocks.Mutator) (any, error) {
		at := flowblocks.InsertPoint{After: args[0], Branch: a.branch}
		return m.InsertBlock(cmd.Context(), at, flowblocks.NodeKind(args[1]), a.branches)
	})
}

func (a *app) runInsertStep(cmd *cobra.Command, args []string) error {
	return a.runEdit(cmd, flowblocks.OpInsertStep, args[0], func(m *flowblocks.Mutator) (any, error) {
		at := flowblocks.InsertPoint{After: args[0], Branch: a.branch}
		n := flowblocks.Node{
			ID:   a.stepID,
			Type: flowblocks.NodeKind(args[1]),
			Data: flowblocks.NodeData{Label: a.stepLabel},
		}
		id, err := m.InsertStep(cmd.Context(), at, n)
		if err != nil {
			return nil, err
		}
		return map[string]string{"id": id}, nil
	})
}
