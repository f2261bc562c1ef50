package snapshot

import (
	"errors"
	"time"
)

// Store keeps flow snapshots by flow ID.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a snapshot, replacing any earlier one with the same flow ID.
	// Returns ErrMissingFlowID if the snapshot has no flow ID.
	Save(s *Snapshot) error

	// Load retrieves a snapshot.
	// Returns ErrNotFound if the flow doesn't exist.
	Load(flowID string) (*Snapshot, error)

	// List returns metadata for all flows, ordered by flow ID.
	// Returns empty slice (not error) if the store is empty.
	List() ([]Info, error)

	// Delete removes a flow.
	// Returns nil if the flow doesn't exist.
	Delete(flowID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the full snapshot.
type Info struct {
	FlowID    string    `json:"flowId"`
	Name      string    `json:"name,omitempty"`
	NodeCount int       `json:"nodeCount"`
	EdgeCount int       `json:"edgeCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a flow doesn't exist.
	ErrNotFound = errors.New("flow not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")
)
