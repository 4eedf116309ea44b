package commands

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"notes/internal/output"
)

// List letters accepted in task references.
const (
	ActiveLetter    = 'a'
	CompletedLetter = output.CompletedPrefix
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Letter    rune // 0 if no letter, ActiveLetter or CompletedLetter otherwise
	TaskNum   int  // 1-based task number
	HasLetter bool // true if a list letter was provided
}

// Completed reports whether the reference points into the completed list.
func (r TaskRef) Completed() bool {
	return r.Letter == CompletedLetter
}

func (r TaskRef) String() string {
	if r.Letter == ActiveLetter {
		return output.Ref(0, r.TaskNum)
	}
	return output.Ref(r.Letter, r.TaskNum)
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses one task reference from args.
//
// Parsing rules:
// 1. If first arg is all digits → active list reference
// 2. If first arg is <letter><digits> (e.g., a1, c12) → combined reference
// 3. If first arg is a single letter and second arg is all digits → separated reference (c 1)
// 4. If first arg is a single letter with no second arg → error: task reference required
// 5. Otherwise → error: invalid task reference: <ref>
//
// Only 'a' (active) and 'c' (completed) are list letters.
func ParseTaskRef(args []string) (TaskRef, error) {
	ref, _, err := parseOne(args)
	return ref, err
}

// ParseTaskRefs parses every reference in args.
// A letter token followed by a digits token counts as one reference.
func ParseTaskRefs(args []string) ([]TaskRef, error) {
	if len(args) == 0 {
		return nil, ErrTaskRefRequired
	}
	var refs []TaskRef
	for len(args) > 0 {
		ref, n, err := parseOne(args)
		if err != nil {
			if errors.Is(err, ErrTaskRefRequired) {
				return nil, fmt.Errorf("invalid task reference: %s", args[0])
			}
			return nil, err
		}
		refs = append(refs, ref)
		args = args[n:]
	}
	return refs, nil
}

// parseOne parses the reference at the start of args and reports how many
// args it consumed.
func parseOne(args []string) (TaskRef, int, error) {
	if len(args) == 0 {
		return TaskRef{}, 0, ErrTaskRefRequired
	}

	firstArg := args[0]

	if isAllDigits(firstArg) {
		num, err := strconv.Atoi(firstArg)
		if err != nil {
			return TaskRef{}, 0, fmt.Errorf("invalid task reference: %s", firstArg)
		}
		return TaskRef{TaskNum: num}, 1, nil
	}

	if len(firstArg) > 0 && isListLetter(rune(firstArg[0])) {
		letter := rune(firstArg[0])

		if len(firstArg) > 1 && isAllDigits(firstArg[1:]) {
			num, err := strconv.Atoi(firstArg[1:])
			if err != nil {
				return TaskRef{}, 0, fmt.Errorf("invalid task reference: %s", firstArg)
			}
			return TaskRef{Letter: letter, TaskNum: num, HasLetter: true}, 1, nil
		}

		if len(firstArg) == 1 {
			if len(args) < 2 {
				return TaskRef{}, 0, ErrTaskRefRequired
			}
			if isAllDigits(args[1]) {
				num, err := strconv.Atoi(args[1])
				if err != nil {
					return TaskRef{}, 0, fmt.Errorf("invalid task reference: %s", args[1])
				}
				return TaskRef{Letter: letter, TaskNum: num, HasLetter: true}, 2, nil
			}
			return TaskRef{}, 0, fmt.Errorf("invalid task reference: %s", firstArg)
		}
	}

	return TaskRef{}, 0, fmt.Errorf("invalid task reference: %s", firstArg)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isListLetter(r rune) bool {
	return r == ActiveLetter || r == CompletedLetter
}
