package commands

import (
	"context"
	"errors"

	"notes/internal/pipeline"
	"notes/internal/service"
)

// taskSnapshot holds both lists as published by one refresh.
type taskSnapshot struct {
	active    []service.Task
	completed []service.Task
}

// loadSnapshot refreshes store and captures both lists.
func loadSnapshot(ctx context.Context, store *pipeline.Store) (taskSnapshot, error) {
	if err := store.Refresh(ctx); err != nil {
		return taskSnapshot{}, err
	}
	var snap taskSnapshot
	var ok bool
	if snap.active, ok = store.Active().Data(); !ok {
		msg, _ := store.Active().Message()
		return taskSnapshot{}, service.AsFailure(errors.New(msg))
	}
	if snap.completed, ok = store.Completed().Data(); !ok {
		msg, _ := store.Completed().Message()
		return taskSnapshot{}, service.AsFailure(errors.New(msg))
	}
	return snap, nil
}

// find returns the task ref points at.
func (s taskSnapshot) find(ref TaskRef) (service.Task, error) {
	list := s.active
	if ref.Completed() {
		list = s.completed
	}
	if ref.TaskNum < 1 || ref.TaskNum > len(list) {
		return service.Task{}, service.Validationf("task number out of range: %s", ref)
	}
	return list[ref.TaskNum-1], nil
}
