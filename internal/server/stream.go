package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"notes/internal/pipeline"
)

// EventLists names the stream event that carries both list states.
const EventLists = "lists"

// stream sends both lists as one server-sent event per change, starting
// with the current states.
func (s *Server) stream(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return c.String(http.StatusInternalServerError, "stream unsupported")
	}

	active := s.store.ObserveActive()
	defer active.Close()
	completed := s.store.ObserveCompleted()
	defer completed.Close()

	ctx := c.Request().Context()
	c.Response().WriteHeader(http.StatusOK)

	// Subscriptions hold their current state on creation.
	act, comp := <-active.Updates(), <-completed.Updates()
	for {
		drainPair(active, completed, &act, &comp)

		data, err := json.Marshal(listsBody{Active: toBody(act), Completed: toBody(comp)})
		if err != nil {
			s.logger.WithError(err).Error("encode stream event")
			return nil
		}
		if _, err := fmt.Fprintf(c.Response(), "event: %s\ndata: %s\n\n", EventLists, data); err != nil {
			return nil
		}
		flusher.Flush()

		select {
		case <-ctx.Done():
			return nil
		case act = <-active.Updates():
		case comp = <-completed.Updates():
		}
	}
}

// drainPair takes pending states from both subscriptions until neither has
// one. A state received from one list was published after every earlier
// state of the other list, so the pair never shows a task in both lists.
func drainPair(active, completed *pipeline.Subscription, act, comp *pipeline.TasksResult) {
	for {
		took := false
		select {
		case *act = <-active.Updates():
			took = true
		default:
		}
		select {
		case *comp = <-completed.Updates():
			took = true
		default:
		}
		if !took {
			return
		}
	}
}
