package commands

import (
	"errors"
	"testing"
)

func TestParseTaskRef_NumericOnly(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.HasLetter || ref.Completed() {
		t.Errorf("expected active ref without letter, got %#v", ref)
	}
	if ref.TaskNum != 5 {
		t.Errorf("expected TaskNum 5, got %d", ref.TaskNum)
	}
}

func TestParseTaskRef_CombinedRef(t *testing.T) {
	tests := []struct {
		arg       string
		letter    rune
		num       int
		completed bool
	}{
		{"a1", 'a', 1, false},
		{"c1", 'c', 1, true},
		{"c12", 'c', 12, true},
	}
	for _, tt := range tests {
		ref, err := ParseTaskRef([]string{tt.arg})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.arg, err)
		}
		if !ref.HasLetter || ref.Letter != tt.letter || ref.TaskNum != tt.num || ref.Completed() != tt.completed {
			t.Errorf("%s: unexpected ref %#v", tt.arg, ref)
		}
	}
}

func TestParseTaskRef_SeparatedRef(t *testing.T) {
	ref, err := ParseTaskRef([]string{"c", "3"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ref.Completed() || ref.TaskNum != 3 {
		t.Errorf("unexpected ref %#v", ref)
	}
}

func TestParseTaskRef_LetterOnly_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"c"})
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Fatalf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_NoArgs_Error(t *testing.T) {
	_, err := ParseTaskRef(nil)
	if !errors.Is(err, ErrTaskRefRequired) {
		t.Fatalf("expected ErrTaskRefRequired, got %v", err)
	}
}

func TestParseTaskRef_InvalidRef_Error(t *testing.T) {
	for _, arg := range []string{"abc", "b1", "z99", "A1", "1a", "-1"} {
		_, err := ParseTaskRef([]string{arg})
		if err == nil {
			t.Errorf("expected error for %q", arg)
			continue
		}
		expectedMsg := "invalid task reference: " + arg
		if err.Error() != expectedMsg {
			t.Errorf("expected %q, got %q", expectedMsg, err.Error())
		}
	}
}

func TestParseTaskRef_SeparatedWithNonDigitSecond_Error(t *testing.T) {
	_, err := ParseTaskRef([]string{"a", "xyz"})
	if err == nil {
		t.Fatal("expected error for non-digit second arg")
	}
}

func TestParseTaskRefs_Mixed(t *testing.T) {
	refs, err := ParseTaskRefs([]string{"a1", "2", "c3", "c", "4"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 4 {
		t.Fatalf("expected 4 refs, got %d", len(refs))
	}

	if refs[0].Completed() || refs[0].TaskNum != 1 {
		t.Errorf("unexpected ref[0]: %#v", refs[0])
	}
	if refs[1].HasLetter || refs[1].TaskNum != 2 {
		t.Errorf("unexpected ref[1]: %#v", refs[1])
	}
	if !refs[2].Completed() || refs[2].TaskNum != 3 {
		t.Errorf("unexpected ref[2]: %#v", refs[2])
	}
	if !refs[3].Completed() || refs[3].TaskNum != 4 {
		t.Errorf("unexpected ref[3]: %#v", refs[3])
	}
}

func TestParseTaskRefs_TrailingLetter_Error(t *testing.T) {
	_, err := ParseTaskRefs([]string{"a1", "c"})
	if err == nil {
		t.Fatal("expected error for trailing letter")
	}
	expectedMsg := "invalid task reference: c"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestParseTaskRefs_InvalidToken_Error(t *testing.T) {
	_, err := ParseTaskRefs([]string{"1", "abc"})
	if err == nil {
		t.Fatal("expected error for invalid token")
	}
	expectedMsg := "invalid task reference: abc"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestTaskRefString(t *testing.T) {
	tests := []struct {
		ref  TaskRef
		want string
	}{
		{TaskRef{TaskNum: 3}, "3"},
		{TaskRef{Letter: 'a', TaskNum: 3, HasLetter: true}, "3"},
		{TaskRef{Letter: 'c', TaskNum: 2, HasLetter: true}, "c2"},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
