package flowblocks

// IsBlockHead reports whether n opens a branching block (condition,
// parallel or loop). A nil node is never a block head.
func IsBlockHead(n *Node) bool {
	if n == nil {
		return false
	}
	return n.Type.IsBlockHead()
}

// IsMergeNode reports whether n is explicitly flagged as the point where a
// block's branches rejoin. The flag is independent of the node's type.
func IsMergeNode(n *Node) bool {
	if n == nil {
		return false
	}
	return n.Data.IsMergePlaceholder || n.Data.IsMergeNode
}
