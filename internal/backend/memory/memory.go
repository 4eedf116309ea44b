// Package memory implements service.Service in process memory.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"notes/internal/service"
)

// Store is a mutex-guarded in-memory task store.
// Tasks are returned in creation order.
type Store struct {
	mu    sync.RWMutex
	order []string
	tasks map[string]service.Task
	now   func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		tasks: make(map[string]service.Task),
		now:   time.Now,
	}
}

// Ephemeral implements service.Ephemeral. Tasks are lost when the process exits.
func (s *Store) Ephemeral() bool { return true }

// Create implements service.Service.
func (s *Store) Create(ctx context.Context, task service.Task) (service.Task, error) {
	if err := ctx.Err(); err != nil {
		return service.Task{}, service.ConnectivityError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = uuid.NewString()
	task.CreatedAt = s.now()
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	return task, nil
}

// Update implements service.Service.
func (s *Store) Update(ctx context.Context, task service.Task) error {
	if err := ctx.Err(); err != nil {
		return service.ConnectivityError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.tasks[task.ID]
	if !ok {
		return service.NotFoundf("task not found: %s", task.ID)
	}
	task.CreatedAt = old.CreatedAt
	s.tasks[task.ID] = task
	return nil
}

// Delete implements service.Service.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return service.ConnectivityError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return service.NotFoundf("task not found: %s", id)
	}
	delete(s.tasks, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List implements service.Service.
func (s *Store) List(ctx context.Context) ([]service.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, service.ConnectivityError(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]service.Task, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.tasks[id])
	}
	return result, nil
}
