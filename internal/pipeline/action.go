package pipeline

import "notes/internal/service"

// Action is one task mutation intent. The set is closed: Add, Update,
// SetCompleted, SetFavorite and Delete are the only implementations.
type Action interface {
	// Name identifies the action in logs.
	Name() string

	// Target is the task the action applies to.
	Target() service.Task

	action()
}

// Add creates Task. Any ID on Task is ignored; the backend assigns one.
type Add struct {
	Task service.Task
}

// Update replaces the title, description and flags of Task.
type Update struct {
	Task service.Task
}

// SetCompleted moves Task between the active and completed lists.
type SetCompleted struct {
	Task      service.Task
	Completed bool
}

// SetFavorite marks or unmarks Task as a favorite.
type SetFavorite struct {
	Task     service.Task
	Favorite bool
}

// Delete removes Task.
type Delete struct {
	Task service.Task
}

func (Add) Name() string          { return "add" }
func (Update) Name() string       { return "update" }
func (SetCompleted) Name() string { return "set_completed" }
func (SetFavorite) Name() string  { return "set_favorite" }
func (Delete) Name() string       { return "delete" }

func (a Add) Target() service.Task          { return a.Task }
func (a Update) Target() service.Task       { return a.Task }
func (a SetCompleted) Target() service.Task { return a.Task }
func (a SetFavorite) Target() service.Task  { return a.Task }
func (a Delete) Target() service.Task       { return a.Task }

func (Add) action()          {}
func (Update) action()       {}
func (SetCompleted) action() {}
func (SetFavorite) action()  {}
func (Delete) action()       {}
