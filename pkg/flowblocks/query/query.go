// Package query provides named read-only queries over stored flows.
//
// Queries never modify a flow. They are synchronous: the flow is loaded,
// inspected and the result returned immediately. Editors and tooling use
// them to ask structural questions by name, for example "which merge node
// closes this block?" or "which nodes belong to it?".
package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/randalmurphal/flowblocks/pkg/flowblocks/snapshot"
)

// Handler executes a query against a flow and returns a result.
// Handlers must not modify the flow.
type Handler func(ctx context.Context, flowID string, args any) (any, error)

// Registry manages query handlers by query name.
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

// NewRegistry creates a new query registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
	}
}

// Register adds a handler for a query name.
func (r *Registry) Register(queryName string, handler Handler) error {
	if queryName == "" {
		return errors.New("query name is required")
	}
	if handler == nil {
		return errors.New("handler is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[queryName]; exists {
		return fmt.Errorf("handler for query %q already registered", queryName)
	}

	r.handlers[queryName] = handler
	return nil
}

// MustRegister registers a handler, panicking on error.
func (r *Registry) MustRegister(queryName string, handler Handler) {
	if err := r.Register(queryName, handler); err != nil {
		panic(err)
	}
}

// Get returns the handler for a query name.
func (r *Registry) Get(queryName string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.handlers[queryName]
	return handler, exists
}

// List returns all registered query names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unregister removes a handler for a query name.
func (r *Registry) Unregister(queryName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, queryName)
}

// Sentinel errors for query execution.
var (
	// ErrQueryNotFound is returned when a query handler doesn't exist.
	ErrQueryNotFound = errors.New("query not found")

	// ErrFlowNotFound is returned when the queried flow doesn't exist.
	ErrFlowNotFound = errors.New("flow not found")

	// ErrInvalidArgs is returned when a query receives arguments it cannot use.
	ErrInvalidArgs = errors.New("invalid query arguments")
)

// Loader retrieves the snapshot of a flow.
// It returns ErrFlowNotFound (possibly wrapped) for unknown flows.
type Loader func(ctx context.Context, flowID string) (*snapshot.Snapshot, error)

// StoreLoader adapts a snapshot store to a Loader.
func StoreLoader(store snapshot.Store) Loader {
	return func(_ context.Context, flowID string) (*snapshot.Snapshot, error) {
		s, err := store.Load(flowID)
		if errors.Is(err, snapshot.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, flowID)
		}
		return s, err
	}
}

// Executor runs queries against flows.
type Executor struct {
	registry *Registry
}

// NewExecutor creates a new query executor.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute runs a query against a flow.
func (e *Executor) Execute(ctx context.Context, flowID, queryName string, args any) (any, error) {
	if flowID == "" {
		return nil, errors.New("flow ID is required")
	}
	if queryName == "" {
		return nil, errors.New("query name is required")
	}

	handler, exists := e.registry.Get(queryName)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrQueryNotFound, queryName)
	}

	return handler(ctx, flowID, args)
}

// Result wraps a query result with metadata.
type Result struct {
	// QueryName is the query that was executed.
	QueryName string `json:"query_name"`

	// FlowID is the flow that was queried.
	FlowID string `json:"flow_id"`

	// Value is the query result.
	Value any `json:"value"`

	// Error contains error details if the query failed.
	Error string `json:"error,omitempty"`
}

// ExecuteMultiple runs several queries against a flow, in query name order.
// Returns results for all queries, including any that failed.
func (e *Executor) ExecuteMultiple(ctx context.Context, flowID string, queries map[string]any) []Result {
	names := make([]string, 0, len(queries))
	for name := range queries {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]Result, 0, len(queries))
	for _, queryName := range names {
		result := Result{
			QueryName: queryName,
			FlowID:    flowID,
		}

		value, err := e.Execute(ctx, flowID, queryName, queries[queryName])
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Value = value
		}

		results = append(results, result)
	}

	return results
}
