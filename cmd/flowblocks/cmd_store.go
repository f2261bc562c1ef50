package main

import (
	"github.com/spf13/cobra"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks/snapshot"
)

// runImport stores a snapshot file in the database. The flow ID comes from
// --flow, then the file's flowId, then the file name.
func (a *app) runImport(cmd *cobra.Command, args []string) error {
	snap, err := snapshot.FromFile(args[0])
	if err != nil {
		return err
	}
	switch {
	case a.flowID != "":
		snap.FlowID = a.flowID
	case snap.FlowID == "":
		snap.FlowID = flowIDFromPath(args[0])
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Save(snap); err != nil {
		return err
	}
	a.logger.Info("flow imported",
		"flow_id", snap.FlowID,
		"nodes", len(snap.Nodes),
		"edges", len(snap.Edges))

	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"flowId":    snap.FlowID,
		"nodeCount": len(snap.Nodes),
		"edgeCount": len(snap.Edges),
	})
}

func (a *app) runList(cmd *cobra.Command, _ []string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.List()
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), infos)
}
