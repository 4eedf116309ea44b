// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"notes/internal/request"
	"notes/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// CompletedPrefix prefixes task numbers in the completed section.
	CompletedPrefix = 'c'

	favoriteMark = " *"
)

// Ref returns the reference shown for the num-th task (1-based).
// letter is 0 for the active list.
func Ref(letter rune, num int) string {
	if letter == 0 {
		return strconv.Itoa(num)
	}
	return string(letter) + strconv.Itoa(num)
}

// FormatTask formats a task line.
// Format: "{REF:>4}  {TITLE}[ *]\n" (4-wide right-aligned ref, two spaces, title,
// favorite mark)
func FormatTask(w io.Writer, ref string, task service.Task) {
	title := normalizeTitle(task.Title)
	if task.Favorite {
		title += favoriteMark
	}
	fmt.Fprintf(w, "%4s  %s\n", ref, title)
}

// FormatDescription formats the description under a task line, indented
// past the ref column. A blank description shows the placeholder.
func FormatDescription(w io.Writer, task service.Task) {
	desc := task.WithDefaults().Description
	for _, line := range strings.Split(strings.TrimRight(desc, "\n"), "\n") {
		fmt.Fprintf(w, "      %s\n", line)
	}
}

// FormatListHeader formats a list section header.
func FormatListHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, ListSeparator)
}

// FormatTasks writes one list state. Tasks are numbered from 1 with letter
// as the ref prefix. It returns the number of tasks written.
func FormatTasks(w io.Writer, letter rune, r request.Result[[]service.Task], long bool) int {
	n := 0
	r.Match(request.Handlers[[]service.Task]{
		OnIdle:    func() {},
		OnLoading: func() { fmt.Fprintln(w, "loading...") },
		OnSuccess: func(tasks []service.Task) {
			for i, task := range tasks {
				FormatTask(w, Ref(letter, i+1), task)
				if long {
					FormatDescription(w, task)
				}
			}
			n = len(tasks)
		},
		OnError: func(msg string) { fmt.Fprintf(w, "error: %s\n", msg) },
	})
	return n
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become the title placeholder
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return service.DefaultTitle
	}
	return title
}
