package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"notes/internal/pipeline"
	"notes/internal/service"
	"notes/internal/testutil"
)

func newTestServer(t *testing.T, svc *testutil.FakeService) (*Server, *pipeline.Store) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	store := pipeline.New(svc, pipeline.WithLogger(logger))
	return New(store, logger), store
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestListsStartLoading(t *testing.T) {
	s, _ := newTestServer(t, testutil.NewFakeService())

	rec := do(t, s, http.MethodGet, "/tasks/active", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body resultBody
	decodeBody(t, rec, &body)
	if body.State != "loading" {
		t.Errorf("expected loading, got %q", body.State)
	}
}

func TestGetListsAfterRefresh(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("open", false)
	svc.AddTask("closed", true)
	s, store := newTestServer(t, svc)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	var active, completed resultBody
	decodeBody(t, do(t, s, http.MethodGet, "/tasks/active", ""), &active)
	decodeBody(t, do(t, s, http.MethodGet, "/tasks/completed", ""), &completed)

	if active.State != "success" || len(active.Tasks) != 1 || active.Tasks[0].Title != "open" {
		t.Errorf("unexpected active body: %+v", active)
	}
	if completed.State != "success" || len(completed.Tasks) != 1 || completed.Tasks[0].Title != "closed" {
		t.Errorf("unexpected completed body: %+v", completed)
	}
}

func TestAddTask(t *testing.T) {
	s, _ := newTestServer(t, testutil.NewFakeService())

	rec := do(t, s, http.MethodPost, "/tasks", `{"title":"Buy milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]resultBody
	decodeBody(t, rec, &body)
	active := body["active"]
	if len(active.Tasks) != 1 || active.Tasks[0].Title != "Buy milk" {
		t.Fatalf("unexpected active list: %+v", active)
	}
	if active.Tasks[0].Description != service.DefaultDescription {
		t.Errorf("expected placeholder description, got %q", active.Tasks[0].Description)
	}
}

func TestAddTaskBlankTitleIsBadRequest(t *testing.T) {
	svc := testutil.NewFakeService()
	s, _ := newTestServer(t, svc)

	rec := do(t, s, http.MethodPost, "/tasks", `{"title":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if svc.Calls("Create") != 0 {
		t.Error("expected no create call")
	}
}

func TestUpdateTask(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("old", false)
	s, _ := newTestServer(t, svc)

	rec := do(t, s, http.MethodPut, "/tasks/"+task.ID, `{"description":"details"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	got, _ := svc.Get(task.ID)
	if got.Title != "old" || got.Description != "details" {
		t.Errorf("unexpected stored task: %+v", got)
	}
}

func TestCompleteMovesTask(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("a", false)
	s, _ := newTestServer(t, svc)

	rec := do(t, s, http.MethodPost, "/tasks/"+task.ID+"/complete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]resultBody
	decodeBody(t, rec, &body)
	if len(body["active"].Tasks) != 0 || len(body["completed"].Tasks) != 1 {
		t.Errorf("expected task in completed only, got %+v", body)
	}

	rec = do(t, s, http.MethodPost, "/tasks/"+task.ID+"/uncomplete", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got, _ := svc.Get(task.ID); got.Completed {
		t.Error("expected task to be active again")
	}
}

func TestFavorite(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("a", false)
	s, _ := newTestServer(t, svc)

	if rec := do(t, s, http.MethodPost, "/tasks/"+task.ID+"/favorite", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got, _ := svc.Get(task.ID); !got.Favorite {
		t.Error("expected favorite")
	}
	if rec := do(t, s, http.MethodPost, "/tasks/"+task.ID+"/unfavorite", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got, _ := svc.Get(task.ID); got.Favorite {
		t.Error("expected favorite cleared")
	}
}

func TestUnknownTaskIsNotFound(t *testing.T) {
	s, _ := newTestServer(t, testutil.NewFakeService())

	if rec := do(t, s, http.MethodPost, "/tasks/missing/complete", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("a", false)
	s, _ := newTestServer(t, svc)

	for i := 0; i < 2; i++ {
		if rec := do(t, s, http.MethodDelete, "/tasks/"+task.ID, ""); rec.Code != http.StatusOK {
			t.Fatalf("delete %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	if _, ok := svc.Get(task.ID); ok {
		t.Error("expected task to be gone")
	}
}

func TestBackendFailureIsUnavailable(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateErr = service.ConnectivityError(errors.New("dial tcp: connection refused"))
	s, _ := newTestServer(t, svc)

	rec := do(t, s, http.MethodPost, "/tasks", `{"title":"a"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "connection failed") {
		t.Errorf("expected failure message, got %q", rec.Body.String())
	}
}

// syncRecorder is a flushable ResponseWriter safe to read while written.
type syncRecorder struct {
	mu     sync.Mutex
	header http.Header
	buf    bytes.Buffer
}

func (r *syncRecorder) Header() http.Header { return r.header }
func (r *syncRecorder) WriteHeader(int)     {}
func (r *syncRecorder) Flush()              {}

func (r *syncRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *syncRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func TestStreamSendsPublications(t *testing.T) {
	svc := testutil.NewFakeService()
	s, store := newTestServer(t, svc)

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	rec := &syncRecorder{header: http.Header{}}
	c := s.echo.NewContext(req, rec)

	errCh := make(chan error, 1)
	go func() { errCh <- s.stream(c) }()

	// The first event carries both lists in their Loading state.
	if !testutil.Eventually(time.Second, func() bool {
		return strings.Count(rec.String(), `"state":"loading"`) == 2
	}) {
		t.Fatalf("expected a loading event for both lists, got %q", rec.String())
	}

	if err := store.Dispatch(context.Background(), pipeline.Add{Task: service.Task{Title: "streamed"}}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !testutil.Eventually(time.Second, func() bool {
		return strings.Contains(rec.String(), "streamed")
	}) {
		t.Fatalf("expected added task on stream, got %q", rec.String())
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("stream error: %v", err)
	}

	out := rec.String()
	if !strings.HasPrefix(out, "event: lists\ndata: ") {
		t.Errorf("expected lists events, got %q", out)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("unexpected content type %q", ct)
	}
}

// streamEvents decodes every lists event written so far.
func streamEvents(t *testing.T, raw string) []listsBody {
	t.Helper()
	var events []listsBody
	for _, chunk := range strings.Split(raw, "\n\n") {
		if chunk == "" {
			continue
		}
		data, ok := strings.CutPrefix(chunk, "event: lists\ndata: ")
		if !ok {
			t.Fatalf("unexpected event %q", chunk)
		}
		var body listsBody
		if err := json.Unmarshal([]byte(data), &body); err != nil {
			t.Fatalf("decode %q: %v", data, err)
		}
		events = append(events, body)
	}
	return events
}

func TestStreamNeverShowsTaskInBothLists(t *testing.T) {
	svc := testutil.NewFakeService()
	task := svc.AddTask("flip", false)
	s, store := newTestServer(t, svc)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	rec := &syncRecorder{header: http.Header{}}
	c := s.echo.NewContext(req, rec)
	errCh := make(chan error, 1)
	go func() { errCh <- s.stream(c) }()

	for i := 0; i <= 20; i++ {
		completed := i%2 == 0
		task.Completed = !completed
		if err := store.Dispatch(context.Background(), pipeline.SetCompleted{Task: task, Completed: completed}); err != nil {
			t.Fatalf("dispatch %d: %v", i, err)
		}
	}
	// The last toggle leaves the task completed.
	if !testutil.Eventually(time.Second, func() bool {
		events := streamEvents(t, rec.String())
		if len(events) == 0 {
			return false
		}
		last := events[len(events)-1]
		return len(last.Completed.Tasks) == 1 && len(last.Active.Tasks) == 0
	}) {
		t.Fatalf("expected final event with the task completed, got %q", rec.String())
	}
	cancel()
	if err := <-errCh; err != nil {
		t.Fatalf("stream error: %v", err)
	}

	for i, ev := range streamEvents(t, rec.String()) {
		ids := make(map[string]bool)
		for _, task := range ev.Active.Tasks {
			ids[task.ID] = true
		}
		for _, task := range ev.Completed.Tasks {
			if ids[task.ID] {
				t.Errorf("event %d shows %s in both lists", i, task.ID)
			}
		}
	}
}
