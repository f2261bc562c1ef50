// Command flowblocks inspects and edits visual workflow snapshots: it
// resolves the merge node of a block, lists blocks, validates structure, and
// applies structure-preserving edits.
//
// Flows come from a JSON/YAML snapshot file (--file) or a SQLite snapshot
// database (--db with --flow). Results are printed as JSON.
package main

import (
	"context"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
