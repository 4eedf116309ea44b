package service

import (
	"sort"
	"strings"
	"time"
)

const (
	// DefaultTitle is shown for a task whose title was never set.
	DefaultTitle = "Enter the Title"

	// DefaultDescription is shown for a task whose description was never set.
	DefaultDescription = "Add some description"
)

// Task represents a single note/to-do item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Favorite    bool      `json:"favorite"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WithDefaults returns t with placeholders for an unset title or description.
func (t Task) WithDefaults() Task {
	if strings.TrimSpace(t.Title) == "" {
		t.Title = DefaultTitle
	}
	if strings.TrimSpace(t.Description) == "" {
		t.Description = DefaultDescription
	}
	return t
}

// Partition splits tasks into active (not completed) and completed,
// each stably ordered by CreatedAt. Every task lands in exactly one list.
func Partition(tasks []Task) (active, completed []Task) {
	active = make([]Task, 0, len(tasks))
	completed = make([]Task, 0)
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	sortByCreated(active)
	sortByCreated(completed)
	return active, completed
}

func sortByCreated(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
}
