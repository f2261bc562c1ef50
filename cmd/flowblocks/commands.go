package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// run executes one CLI invocation and flushes telemetry, whether or not the
// command succeeded.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if terr := a.teardown(context.Background()); err == nil {
		err = terr
	}
	return err
}

// newRootCmd builds the command tree bound to a.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flowblocks",
		Short: "Resolve and edit block structure in workflow snapshots",
		Long: `flowblocks reads a workflow snapshot (nodes and edges) and answers
structural questions about its branching blocks: which merge node closes a
block, which nodes a block contains, and whether every block closes.
It can also delete, swap and insert blocks without breaking the flow.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "settings file (.yaml, .yml or .json)")
	pf.StringVarP(&a.file, "file", "f", "", "flow snapshot file (.json, .yaml or .yml)")
	pf.StringVar(&a.dbPath, "db", "", "SQLite snapshot database")
	pf.StringVar(&a.flowID, "flow", "", "flow ID inside --db")
	pf.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")
	pf.IntVar(&a.maxIterations, "max-iterations", 1000, "traversal step cap per merge lookup")
	pf.BoolVar(&a.tracing, "trace", false, "write OpenTelemetry spans to stderr")
	pf.BoolVar(&a.metrics, "metrics", false, "write OpenTelemetry metrics to stderr")

	// --- Queries ---
	resolveCmd := &cobra.Command{
		Use:   "resolve <node>",
		Short: "Find the merge node that closes the block opened at a node",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runResolve,
	}
	extentCmd := &cobra.Command{
		Use:   "extent <node>",
		Short: "List the nodes inside the block opened at a node",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runExtent,
	}
	blocksCmd := &cobra.Command{
		Use:   "blocks",
		Short: "List every block with its branches and merge node",
		Args:  cobra.NoArgs,
		RunE:  a.runBlocks,
	}
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Check roots, edge references and that every block closes",
		Args:  cobra.NoArgs,
		RunE:  a.runValidate,
	}

	// --- Edits ---
	deleteCmd := &cobra.Command{
		Use:   "delete <node>",
		Short: "Delete a node, or a whole block when the node is a block head",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runDelete,
	}
	swapCmd := &cobra.Command{
		Use:   "swap <node> <kind>",
		Short: "Change a node's kind within its category",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runSwap,
	}
	insertBlockCmd := &cobra.Command{
		Use:   "insert-block <after> <kind>",
		Short: "Insert a new block with its merge placeholder after a node",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runInsertBlock,
	}
	insertStepCmd := &cobra.Command{
		Use:   "insert-step <after> <kind>",
		Short: "Insert a plain step after a node",
		Args:  cobra.ExactArgs(2),
		RunE:  a.runInsertStep,
	}

	insertBlockCmd.Flags().IntVar(&a.branches, "branches", 2, "number of branches (loops always have 2)")
	for _, cmd := range []*cobra.Command{insertBlockCmd, insertStepCmd} {
		cmd.Flags().StringVar(&a.branch, "branch", "", "branch of <after> to insert into, when it is a block head")
	}
	insertStepCmd.Flags().StringVar(&a.stepLabel, "label", "", "label of the new step")
	insertStepCmd.Flags().StringVar(&a.stepID, "id", "", "ID of the new step (generated when empty)")

	for _, cmd := range []*cobra.Command{deleteCmd, swapCmd, insertBlockCmd, insertStepCmd} {
		cmd.Flags().StringVarP(&a.out, "out", "o", "", "write the edited flow to this file")
	}

	// --- Store ---
	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a flow snapshot file into --db",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runImport,
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the flows stored in --db",
		Args:  cobra.NoArgs,
		RunE:  a.runList,
	}

	rootCmd.AddCommand(
		resolveCmd, extentCmd, blocksCmd, validateCmd,
		deleteCmd, swapCmd, insertBlockCmd, insertStepCmd,
		importCmd, listCmd,
	)
	return rootCmd
}
