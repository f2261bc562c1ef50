package flowblocks

import (
	"errors"
	"fmt"
)

// Sentinel errors for flow validation.
var (
	// ErrNoRoot indicates every node has an incoming edge.
	ErrNoRoot = errors.New("flow has no root node")

	// ErrMultipleRoots indicates more than one node lacks incoming edges.
	ErrMultipleRoots = errors.New("flow has multiple root nodes")

	// ErrDuplicateNode indicates two nodes share an ID.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrDanglingEdge indicates an edge references a node that does not exist.
	ErrDanglingEdge = errors.New("edge references unknown node")

	// ErrOpenBlock indicates a block head whose branches never reach a merge node.
	ErrOpenBlock = errors.New("block has no merge node")
)

// Sentinel errors for graph edits.
var (
	// ErrNodeNotFound indicates the edit targets a node that does not exist.
	ErrNodeNotFound = errors.New("node not found")

	// ErrRootNode indicates an attempt to delete the flow's root.
	ErrRootNode = errors.New("cannot delete the root node")

	// ErrMergeNode indicates a direct edit of a merge node. Merge nodes are
	// created and removed together with their block head.
	ErrMergeNode = errors.New("merge nodes are edited through their block head")

	// ErrInvalidSwap indicates a swap between a block head kind and a plain kind.
	ErrInvalidSwap = errors.New("cannot swap between block and non-block kinds")

	// ErrInvalidKind indicates an empty kind, or a non-block kind where a
	// block kind is required.
	ErrInvalidKind = errors.New("invalid node kind")

	// ErrAmbiguousInsert indicates an insert after a node with several
	// outgoing edges, where the insertion branch is not determined.
	ErrAmbiguousInsert = errors.New("insert point has multiple outgoing edges")

	// ErrBranchNotFound indicates the insert point names a branch the node does not have.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrInvalidBranches indicates a block with too few branches.
	ErrInvalidBranches = errors.New("invalid branch count")

	// ErrDuplicateID indicates an inserted node reuses an existing ID.
	ErrDuplicateID = errors.New("node ID already in use")
)

// MutationError wraps an error with the edit that failed.
type MutationError struct {
	// Op is the edit that failed ("delete", "swap", "insert_block", "insert_step").
	Op string
	// NodeID is the node the edit targeted.
	NodeID string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *MutationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.NodeID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *MutationError) Unwrap() error {
	return e.Err
}
