package flowblocks

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks the structural shape of the flow. Multiple errors are
// joined together.
//
// Validation checks (in order):
//  1. Node IDs must be unique
//  2. All edge sources and targets must reference existing nodes
//  3. There must be exactly one root (node without incoming edges)
//  4. Every block head must reach a merge node
//
// Nodes not reachable from the root are logged as warnings but do not
// cause validation to fail.
//
// Validate is a diagnostic for editors and tooling. The resolver itself
// never requires a valid graph.
func (g *Graph) Validate(opts ...ResolveOption) error {
	cfg := newResolveConfig(opts)
	var errs []error

	// 1. Duplicate IDs
	seen := make(map[string]bool, len(g.nodes))
	for _, n := range g.nodes {
		if seen[n.ID] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateNode, n.ID))
		}
		seen[n.ID] = true
	}

	// 2. Edge references
	for _, e := range g.edges {
		if !g.HasNode(e.Source) {
			errs = append(errs, fmt.Errorf("%w: edge source '%s' does not exist", ErrDanglingEdge, e.Source))
		}
		if !g.HasNode(e.Target) {
			errs = append(errs, fmt.Errorf("%w: edge target '%s' does not exist", ErrDanglingEdge, e.Target))
		}
	}

	// 3. Single root
	roots := g.Roots()
	switch {
	case len(g.nodes) > 0 && len(roots) == 0:
		errs = append(errs, ErrNoRoot)
	case len(roots) > 1:
		errs = append(errs, fmt.Errorf("%w: %s", ErrMultipleRoots, strings.Join(roots, ", ")))
	}

	// 4. Every block closes
	for _, b := range Blocks(g, opts...) {
		if !b.Found {
			errs = append(errs, fmt.Errorf("%w: %s", ErrOpenBlock, b.HeadID))
		}
	}

	if len(roots) == 1 {
		g.warnUnreachableNodes(roots[0], cfg.logger)
	}

	return errors.Join(errs...)
}

// warnUnreachableNodes logs warnings for nodes not reachable from root.
func (g *Graph) warnUnreachableNodes(root string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	reachable := g.reachable(root, nil)
	for _, n := range g.nodes {
		if !reachable[n.ID] {
			logger.Warn("node is unreachable from root", "node_id", n.ID)
		}
	}
}
