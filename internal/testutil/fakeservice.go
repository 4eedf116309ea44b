// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"time"

	"notes/internal/backend/memory"
	"notes/internal/service"
)

// FakeService is an in-memory service.Service with error injection for testing.
type FakeService struct {
	store *memory.Store

	mu    sync.Mutex
	calls map[string]int

	// Error injection for testing
	CreateErr error
	UpdateErr error
	DeleteErr error
	ListErr   error

	// ListHook, if set, runs before List returns (e.g. to block a refresh).
	ListHook func(ctx context.Context)
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		store: memory.New(),
		calls: make(map[string]int),
	}
}

// AddTask stores a task directly, bypassing error injection.
func (f *FakeService) AddTask(title string, completed bool) service.Task {
	task, err := f.store.Create(context.Background(), service.Task{
		Title:       title,
		Description: service.DefaultDescription,
		Completed:   completed,
	})
	if err != nil {
		panic(err)
	}
	return task
}

// Calls returns how many times method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// Get returns the stored task with id.
func (f *FakeService) Get(id string) (service.Task, bool) {
	tasks, _ := f.store.List(context.Background())
	for _, t := range tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, task service.Task) (service.Task, error) {
	f.record("Create")
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	return f.store.Create(ctx, task)
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, task service.Task) error {
	f.record("Update")
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	return f.store.Update(ctx, task)
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, id string) error {
	f.record("Delete")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	return f.store.Delete(ctx, id)
}

// List implements service.Service.
func (f *FakeService) List(ctx context.Context) ([]service.Task, error) {
	f.record("List")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	tasks, err := f.store.List(ctx)
	if f.ListHook != nil {
		f.ListHook(ctx)
	}
	return tasks, err
}

// Eventually polls cond until it holds or the timeout expires.
func Eventually(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}
