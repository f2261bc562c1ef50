package main

import (
	"github.com/spf13/cobra"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks/query"
)

// runQuery loads the flow and runs a builtin query against it.
func (a *app) runQuery(cmd *cobra.Command, queryName string, args any) (any, error) {
	src, err := a.loadSource()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	registry := query.NewRegistry()
	if err := query.RegisterBuiltins(registry, query.MemoryLoader(src.snap), a.resolveOptions()...); err != nil {
		return nil, err
	}
	return query.NewExecutor(registry).Execute(cmd.Context(), src.snap.FlowID, queryName, args)
}

func (a *app) runResolve(cmd *cobra.Command, args []string) error {
	result, err := a.runQuery(cmd, query.QueryMergeNode, args[0])
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

func (a *app) runExtent(cmd *cobra.Command, args []string) error {
	result, err := a.runQuery(cmd, query.QueryBlockExtent, args[0])
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"headId": args[0],
		"nodes":  result,
	})
}

func (a *app) runBlocks(cmd *cobra.Command, _ []string) error {
	result, err := a.runQuery(cmd, query.QueryBlocks, nil)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), result)
}

// runValidate prints the report and fails when the flow has problems.
func (a *app) runValidate(cmd *cobra.Command, _ []string) error {
	result, err := a.runQuery(cmd, query.QueryValidate, nil)
	if err != nil {
		return err
	}
	if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	if report, ok := result.(query.ValidationReport); ok && !report.Valid {
		return errInvalidFlow
	}
	return nil
}
