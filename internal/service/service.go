// Package service defines the backend-agnostic interface for task persistence.
package service

import "context"

// Service is the persistence collaborator for tasks.
// Every backend goes through this interface; commands and the
// pipeline never import a storage SDK directly.
type Service interface {
	// Create stores a new task and returns it with ID and CreatedAt assigned.
	Create(ctx context.Context, task Task) (Task, error)

	// Update replaces the mutable fields of an existing task.
	// Returns a NotFound failure if the task does not exist.
	Update(ctx context.Context, task Task) error

	// Delete removes a task by ID.
	// Returns a NotFound failure if the task does not exist.
	Delete(ctx context.Context, id string) error

	// List returns every task in backend order.
	List(ctx context.Context) ([]Task, error)
}

// Ephemeral is implemented by backends whose tasks live only as long as
// the process that holds them.
type Ephemeral interface {
	Ephemeral() bool
}

// IsEphemeral reports whether svc loses its tasks when the process exits.
func IsEphemeral(svc Service) bool {
	e, ok := svc.(Ephemeral)
	return ok && e.Ephemeral()
}
