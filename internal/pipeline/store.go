// Package pipeline coordinates task mutations and the two published task lists.
//
// A Store keeps a request.Result for the active and the completed tasks.
// Actions are applied through a service.Service; once the backend confirms a
// mutation the Store refetches every task, partitions them and publishes both
// lists to subscribers.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"notes/internal/request"
	"notes/internal/service"
)

// Store is the task list coordinator.
type Store struct {
	svc    service.Service
	logger log.FieldLogger

	// seq orders publications across both lists.
	seq       atomic.Uint64
	active    *feed
	completed *feed
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for dispatch and refresh events.
func WithLogger(l log.FieldLogger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates a Store over svc. Both lists start as Loading.
func New(svc service.Service, opts ...Option) *Store {
	s := &Store{
		svc:       svc,
		logger:    log.StandardLogger(),
		active:    newFeed("active"),
		completed: newFeed("completed"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ObserveActive subscribes to the active list. The subscription starts
// with the current state.
func (s *Store) ObserveActive() *Subscription { return s.active.subscribe() }

// ObserveCompleted subscribes to the completed list. The subscription
// starts with the current state.
func (s *Store) ObserveCompleted() *Subscription { return s.completed.subscribe() }

// Active returns the current state of the active list.
func (s *Store) Active() TasksResult { return s.active.current() }

// Completed returns the current state of the completed list.
func (s *Store) Completed() TasksResult { return s.completed.current() }

// Refresh fetches every task and publishes both lists.
// A failed fetch publishes Error to both lists. If ctx is done before the
// fetch returns, nothing is published.
func (s *Store) Refresh(ctx context.Context) error {
	seq := s.seq.Add(1)
	tasks, err := s.svc.List(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		f := service.AsFailure(err)
		s.logger.WithError(err).Warn("refresh failed")
		s.active.publish(seq, request.Error[[]service.Task](f.Msg))
		s.completed.publish(seq, request.Error[[]service.Task](f.Msg))
		return f
	}

	active, completed := service.Partition(tasks)

	// Publish the list a task leaves before the list it joins, so no
	// subscriber sees a task in both lists.
	first, second := s.active, s.completed
	firstR, secondR := request.Success(active), request.Success(completed)
	if holdsAny(s.completed.current(), active) {
		first, second = second, first
		firstR, secondR = secondR, firstR
	}
	if !first.publish(seq, firstR) {
		s.logger.WithField("list", first.name).Debug("dropped stale refresh")
	}
	if !second.publish(seq, secondR) {
		s.logger.WithField("list", second.name).Debug("dropped stale refresh")
	}
	return nil
}

// holdsAny reports whether r is a Success containing any of tasks.
func holdsAny(r TasksResult, tasks []service.Task) bool {
	held, ok := r.Data()
	if !ok || len(held) == 0 {
		return false
	}
	ids := make(map[string]struct{}, len(held))
	for _, t := range held {
		ids[t.ID] = struct{}{}
	}
	for _, t := range tasks {
		if _, ok := ids[t.ID]; ok {
			return true
		}
	}
	return false
}

// Dispatch applies one action and, once the backend confirms it, refreshes
// both lists. A backend failure is returned as a *service.Failure and
// published as Error to the list the action's task belongs to. Validation
// failures are only returned.
func (s *Store) Dispatch(ctx context.Context, a Action) error {
	logger := s.logger.WithFields(log.Fields{
		"action":  a.Name(),
		"task_id": a.Target().ID,
	})
	logger.Debug("dispatch")

	if err := s.apply(ctx, a); err != nil {
		f := service.AsFailure(err)
		if f.Kind == service.Validation || ctx.Err() != nil {
			return f
		}
		target := s.feedFor(a.Target())
		logger.WithError(err).WithField("list", target.name).Warn("dispatch failed")
		target.publish(s.seq.Add(1), request.Error[[]service.Task](f.Msg))
		return f
	}
	return s.Refresh(ctx)
}

func (s *Store) apply(ctx context.Context, a Action) error {
	switch a := a.(type) {
	case Add:
		task := a.Task
		if strings.TrimSpace(task.Title) == "" {
			return service.Validationf("title must not be empty")
		}
		task.ID = ""
		if strings.TrimSpace(task.Description) == "" {
			task.Description = service.DefaultDescription
		}
		_, err := s.svc.Create(ctx, task)
		return err
	case Update:
		if err := validateExisting(a.Task); err != nil {
			return err
		}
		if strings.TrimSpace(a.Task.Title) == "" {
			return service.Validationf("title must not be empty")
		}
		return s.svc.Update(ctx, a.Task)
	case SetCompleted:
		if err := validateExisting(a.Task); err != nil {
			return err
		}
		task := a.Task
		task.Completed = a.Completed
		return s.svc.Update(ctx, task)
	case SetFavorite:
		if err := validateExisting(a.Task); err != nil {
			return err
		}
		task := a.Task
		task.Favorite = a.Favorite
		return s.svc.Update(ctx, task)
	case Delete:
		if err := validateExisting(a.Task); err != nil {
			return err
		}
		err := s.svc.Delete(ctx, a.Task.ID)
		if errors.Is(err, service.ErrNotFound) {
			s.logger.WithField("task_id", a.Task.ID).Debug("delete: already gone")
			return nil
		}
		return err
	default:
		return service.Validationf("unsupported action %T", a)
	}
}

func validateExisting(t service.Task) error {
	if t.ID == "" {
		return service.Validationf("task id must not be empty")
	}
	return nil
}

// feedFor returns the list that currently holds t.
func (s *Store) feedFor(t service.Task) *feed {
	if t.Completed {
		return s.completed
	}
	return s.active
}

// Watch refreshes both lists every time notices fires, until ctx is done
// or notices is closed. Refresh failures are logged and published.
func (s *Store) Watch(ctx context.Context, notices <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-notices:
			if !ok {
				return
			}
			// Refresh logs and publishes its own failures.
			_ = s.Refresh(ctx)
		}
	}
}
