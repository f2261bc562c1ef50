package flowblocks

// NodeKind is the step type of a node as stored by the editor.
// The set is open: kinds this package does not know are treated as plain
// pass-through steps.
type NodeKind string

// Node kinds understood by the resolver and the mutator.
const (
	KindTrigger     NodeKind = "trigger"
	KindAction      NodeKind = "action"
	KindCondition   NodeKind = "condition"
	KindParallel    NodeKind = "parallel"
	KindLoop        NodeKind = "loop"
	KindMerge       NodeKind = "merge"
	KindEnd         NodeKind = "end"
	KindPlaceholder NodeKind = "placeholder"
)

// IsBlockHead reports whether nodes of this kind open a branching block.
func (k NodeKind) IsBlockHead() bool {
	switch k {
	case KindCondition, KindParallel, KindLoop:
		return true
	}
	return false
}

// NodeData is the free-form payload the editor attaches to a node.
//
// MergeNodeID is a memo of a previously resolved merge node. The resolver
// trusts it without revalidation; whoever restructures the graph around a
// block head must clear it.
type NodeData struct {
	Label              string         `json:"label,omitempty" yaml:"label,omitempty"`
	Params             map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	IsMergePlaceholder bool           `json:"isMergePlaceholder,omitempty" yaml:"isMergePlaceholder,omitempty"`
	IsMergeNode        bool           `json:"isMergeNode,omitempty" yaml:"isMergeNode,omitempty"`
	MergeNodeID        string         `json:"mergeNodeId,omitempty" yaml:"mergeNodeId,omitempty"`
}

// Node is a single step of a flow.
type Node struct {
	ID   string   `json:"id" yaml:"id"`
	Type NodeKind `json:"type,omitempty" yaml:"type,omitempty"`
	Data NodeData `json:"data" yaml:"data"`
}

// Edge is a directed connection between two nodes.
// BranchID, when set, names the branch of a block head the edge belongs to
// (for example "Branch 1", "loop" or "bypass").
type Edge struct {
	Source   string `json:"source" yaml:"source"`
	Target   string `json:"target" yaml:"target"`
	BranchID string `json:"branchId,omitempty" yaml:"branchId,omitempty"`
}
