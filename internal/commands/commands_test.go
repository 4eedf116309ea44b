package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"notes/internal/commands"
	"notes/internal/config"
	"notes/internal/exitcode"
	"notes/internal/service"
	"notes/internal/testutil"
)

// runCommand is a helper to run a command with FakeService.
func runCommand(t *testing.T, cmd commands.Command, svc *testutil.FakeService, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var s service.Service
	if svc != nil {
		s = svc
	}
	code = cmd.Run(context.Background(), cfg, s, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "notes 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestVersionLongListsSettings(t *testing.T) {
	cmd := &commands.VersionCmd{}
	cmd.SetLong(true)
	cfg := &config.Config{
		Dir:            "/tmp/notes",
		Backend:        config.BackendAzTables,
		TasksTable:     "tasks",
		TasksPartition: "home",
		RedisURL:       "redis://localhost:6379",
		ChangesChannel: "notes:changes",
	}

	var out bytes.Buffer
	if code := cmd.Run(context.Background(), cfg, nil, nil, &out, &out); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{
		"notes 0.1.0\n",
		"config   /tmp/notes\n",
		"backend  aztables (table tasks, partition home)\n",
		"changes  notes:changes\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in %q", want, out.String())
		}
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{"Usage:", "notes serve", "c2, c 2"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

func TestRegistryHasEveryCommand(t *testing.T) {
	for _, name := range []string{
		"list", "ls", "add", "create", "edit", "done", "undone", "fav", "unfav",
		"rm", "serve", "login", "logout", "help", "version",
	} {
		if _, ok := commands.DefaultRegistry.Find(name); !ok {
			t.Errorf("command %q not registered", name)
		}
	}
}

// Tests for list command
func TestListCommand_BothLists(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", false)
	svc.AddTask("Walk dog", false)
	svc.AddTask("Pay rent", true)

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_both", stdout)
}

func TestListCommand_Long(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("Buy milk", false)

	cmd := &commands.ListCmd{}
	cmd.SetLong(true)
	stdout, _, _ := runCommand(t, cmd, svc, nil, false)

	expected := "   1  Buy milk\n      Add some description\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Empty(t *testing.T) {
	svc := testutil.NewFakeService()

	stdout, _, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}

	stdout, _, _ = runCommand(t, &commands.ListCmd{}, svc, nil, true)
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListErr = service.ConnectivityError(errors.New("dial tcp: connection refused"))

	_, stderr, code := runCommand(t, &commands.ListCmd{}, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: connection failed: dial tcp: connection refused\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	cmd := &commands.AddCmd{}
	cmd.SetDescription("two litres")

	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "milk"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	tasks, _ := svc.List(context.Background())
	if len(tasks) != 1 || tasks[0].Title != "Buy milk" || tasks[0].Description != "two litres" {
		t.Errorf("unexpected stored tasks: %+v", tasks)
	}
	if tasks[0].Completed || tasks[0].Favorite {
		t.Errorf("new task should be active and not favorite: %+v", tasks[0])
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.AddCmd{}, testutil.NewFakeService(), []string{"x"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, nil, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}

	_, stderr, code = runCommand(t, &commands.AddCmd{}, svc, []string{"  "}, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title must not be empty\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls("Create") != 0 {
		t.Error("blank title must not reach the backend")
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateErr = service.ConnectivityError(errors.New("timeout"))

	_, stderr, code := runCommand(t, &commands.AddCmd{}, svc, []string{"x"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "error: backend error: connection failed: timeout") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_Title(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("old", false)

	cmd := &commands.EditCmd{}
	cmd.SetTitle("new")
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	got, _ := svc.Get(task.ID)
	if got.Title != "new" || got.Description != service.DefaultDescription {
		t.Errorf("unexpected task after edit: %+v", got)
	}
}

func TestEditCommand_CompletedDescription(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("done already", true)

	cmd := &commands.EditCmd{}
	cmd.SetDescription("notes")
	if _, stderr, code := runCommand(t, cmd, svc, []string{"c", "1"}, false); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	got, _ := svc.Get(task.ID)
	if got.Description != "notes" || !got.Completed {
		t.Errorf("unexpected task after edit: %+v", got)
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", false)

	_, stderr, code := runCommand(t, &commands.EditCmd{}, svc, []string{"1"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "nothing to change") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestEditCommand_BlankTitle(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", false)

	cmd := &commands.EditCmd{}
	cmd.SetTitle("")
	_, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title must not be empty\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for done and undone commands
func TestDoneCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	first := svc.AddTask("first", false)
	second := svc.AddTask("second", false)

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if got, _ := svc.Get(second.ID); !got.Completed {
		t.Error("expected second task completed")
	}
	if got, _ := svc.Get(first.ID); got.Completed {
		t.Error("first task should stay active")
	}
}

func TestDoneCommand_SeveralRefs(t *testing.T) {
	svc := testutil.NewFakeService()
	a := svc.AddTask("a", false)
	b := svc.AddTask("b", false)
	c := svc.AddTask("c", false)

	// Refs resolve against one snapshot, so "1 3" means a and c.
	if _, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"1", "3"}, false); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	for _, tc := range []struct {
		task service.Task
		want bool
	}{{a, true}, {b, false}, {c, true}} {
		if got, _ := svc.Get(tc.task.ID); got.Completed != tc.want {
			t.Errorf("task %s: expected completed=%v", tc.task.Title, tc.want)
		}
	}
}

func TestUndoneCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("a", true)

	if _, stderr, code := runCommand(t, &commands.UndoneCmd{}, svc, []string{"c1"}, false); code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if got, _ := svc.Get(task.ID); got.Completed {
		t.Error("expected task active again")
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_InvalidRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testutil.NewFakeService(), []string{"x1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task reference: x1\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", false)

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, svc, []string{"c1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task number out of range: c1\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.Calls("Update") != 0 {
		t.Error("out of range ref must not reach the backend")
	}
}

// Tests for fav and unfav commands
func TestFavCommands(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("a", false)

	if _, _, code := runCommand(t, &commands.FavCmd{}, svc, []string{"1"}, false); code != exitcode.Success {
		t.Fatalf("fav: expected exit code %d, got %d", exitcode.Success, code)
	}
	if got, _ := svc.Get(task.ID); !got.Favorite || got.Completed {
		t.Errorf("unexpected task after fav: %+v", got)
	}

	if _, _, code := runCommand(t, &commands.UnfavCmd{}, svc, []string{"a1"}, false); code != exitcode.Success {
		t.Fatalf("unfav: expected exit code %d, got %d", exitcode.Success, code)
	}
	if got, _ := svc.Get(task.ID); got.Favorite {
		t.Error("expected favorite cleared")
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("a", true)

	stdout, _, code := runCommand(t, &commands.RmCmd{}, svc, []string{"c1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, ok := svc.Get(task.ID); ok {
		t.Error("expected task deleted")
	}
}

func TestRmCommand_AlreadyGone(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", false)
	svc.DeleteErr = service.NotFoundf("not found")

	if _, stderr, code := runCommand(t, &commands.RmCmd{}, svc, []string{"1"}, false); code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
}

func TestRmCommand_NoRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.RmCmd{}, testutil.NewFakeService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
