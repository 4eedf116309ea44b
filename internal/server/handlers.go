package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"notes/internal/pipeline"
	"notes/internal/request"
	"notes/internal/service"
)

// resultBody is the JSON form of a list state.
type resultBody struct {
	State   string         `json:"state"`
	Tasks   []service.Task `json:"tasks,omitempty"`
	Message string         `json:"message,omitempty"`
}

func toBody(r pipeline.TasksResult) resultBody {
	body := resultBody{State: r.Kind().String()}
	r.Match(request.Handlers[[]service.Task]{
		OnSuccess: func(tasks []service.Task) {
			if tasks == nil {
				tasks = []service.Task{}
			}
			body.Tasks = tasks
		},
		OnError: func(msg string) { body.Message = msg },
	})
	return body
}

// listsBody carries both list states in one document.
type listsBody struct {
	Active    resultBody `json:"active"`
	Completed resultBody `json:"completed"`
}

type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (s *Server) getActive(c echo.Context) error {
	return c.JSON(http.StatusOK, toBody(s.store.Active()))
}

func (s *Server) getCompleted(c echo.Context) error {
	return c.JSON(http.StatusOK, toBody(s.store.Completed()))
}

func (s *Server) addTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	var task service.Task
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	return s.dispatch(c, pipeline.Add{Task: task}, http.StatusCreated)
}

func (s *Server) updateTask(c echo.Context) error {
	var req taskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	task, err := s.lookup(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	return s.dispatch(c, pipeline.Update{Task: task}, http.StatusOK)
}

func (s *Server) setCompleted(completed bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		task, err := s.lookup(c.Request().Context(), c.Param("id"))
		if err != nil {
			return httpError(err)
		}
		return s.dispatch(c, pipeline.SetCompleted{Task: task, Completed: completed}, http.StatusOK)
	}
}

func (s *Server) setFavorite(favorite bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		task, err := s.lookup(c.Request().Context(), c.Param("id"))
		if err != nil {
			return httpError(err)
		}
		return s.dispatch(c, pipeline.SetFavorite{Task: task, Favorite: favorite}, http.StatusOK)
	}
}

func (s *Server) deleteTask(c echo.Context) error {
	id := c.Param("id")
	task, err := s.lookup(c.Request().Context(), id)
	if err != nil {
		if service.KindOf(err) != service.NotFound {
			return httpError(err)
		}
		// Deleting a missing task succeeds.
		task = service.Task{ID: id}
	}
	return s.dispatch(c, pipeline.Delete{Task: task}, http.StatusOK)
}

// dispatch runs a and answers with both list states.
func (s *Server) dispatch(c echo.Context, a pipeline.Action, status int) error {
	if err := s.store.Dispatch(c.Request().Context(), a); err != nil {
		return httpError(err)
	}
	return c.JSON(status, listsBody{
		Active:    toBody(s.store.Active()),
		Completed: toBody(s.store.Completed()),
	})
}

// lookup finds a task in the published lists, refreshing once if it is
// not there yet.
func (s *Server) lookup(ctx context.Context, id string) (service.Task, error) {
	if task, ok := s.find(id); ok {
		return task, nil
	}
	if err := s.store.Refresh(ctx); err != nil {
		return service.Task{}, err
	}
	if task, ok := s.find(id); ok {
		return task, nil
	}
	return service.Task{}, service.NotFoundf("task not found: %s", id)
}

func (s *Server) find(id string) (service.Task, bool) {
	for _, r := range []pipeline.TasksResult{s.store.Active(), s.store.Completed()} {
		tasks, _ := r.Data()
		for _, t := range tasks {
			if t.ID == id {
				return t, true
			}
		}
	}
	return service.Task{}, false
}
