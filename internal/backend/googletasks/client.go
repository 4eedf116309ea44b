// Package googletasks implements the service.Service interface using Google Tasks API.
package googletasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"notes/internal/config"
	"notes/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks per page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// TasksScope is the OAuth scope for Google Tasks.
	TasksScope = "https://www.googleapis.com/auth/tasks"

	// favoriteMarker is the last line of a favorite task's notes. The
	// leading zero-width space keeps typed text from producing it.
	favoriteMarker = "\u200b#favorite"

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using Google Tasks API.
// All tasks live in one task list.
type Client struct {
	svc    *tasks.Service
	listID string
}

// New creates a new Google Tasks client for cfg.TaskList.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	// Load OAuth client config
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, TasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	// Load token
	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Token source refreshes the access token as needed
	httpClient := oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token))
	return NewWithHTTPClient(ctx, httpClient, cfg.TaskList)
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// An empty listID selects the default list.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = DefaultListID
	}
	return &Client{svc: svc, listID: listID}, nil
}

// Create inserts a task at the top of the list.
func (c *Client) Create(ctx context.Context, task service.Task) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, toAPI(task)).Context(ctx).Do()
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	return fromAPI(created), nil
}

// Update patches title, notes and status.
func (c *Client) Update(ctx context.Context, task service.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	patch := toAPI(task)
	// Send empty notes so a cleared description is cleared remotely.
	patch.ForceSendFields = []string{"Notes"}
	if task.Completed {
		patch.Status = statusCompleted
	} else {
		patch.Status = statusNeedsAction
		patch.NullFields = []string{"Completed"}
	}

	_, err := c.svc.Tasks.Patch(c.listID, task.ID, patch).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// Delete deletes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do()
	if err != nil {
		return wrapError(err)
	}
	return nil
}

// List returns every task in the list, open and completed, in position order.
func (c *Client) List(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var items []*tasks.Task
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(true).
		ShowDeleted(false).
		ShowHidden(true).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, item := range resp.Items {
				if item.Deleted {
					continue
				}
				items = append(items, item)
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}

	// Positions are zero-padded, so string order is list order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})

	result := make([]service.Task, 0, len(items))
	for _, item := range items {
		result = append(result, fromAPI(item))
	}
	return result, nil
}

func toAPI(task service.Task) *tasks.Task {
	status := statusNeedsAction
	if task.Completed {
		status = statusCompleted
	}
	return &tasks.Task{
		Title:  task.Title,
		Notes:  encodeNotes(task.Description, task.Favorite),
		Status: status,
	}
}

func fromAPI(t *tasks.Task) service.Task {
	desc, fav := decodeNotes(t.Notes)
	return service.Task{
		ID:          t.Id,
		Title:       t.Title,
		Description: desc,
		Completed:   t.Status == statusCompleted,
		Favorite:    fav,
	}
}

// encodeNotes stores the favorite flag as a trailing marker line.
func encodeNotes(desc string, favorite bool) string {
	if !favorite {
		return desc
	}
	return desc + "\n" + favoriteMarker
}

func decodeNotes(notes string) (desc string, favorite bool) {
	trimmed := strings.TrimRight(notes, " \r\n")
	if trimmed == favoriteMarker {
		return "", true
	}
	desc, found := strings.CutSuffix(trimmed, "\n"+favoriteMarker)
	if !found {
		return notes, false
	}
	return strings.TrimSuffix(desc, "\r"), true
}

// wrapError classifies API errors as service failures.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &service.Failure{Kind: service.Connectivity, Msg: "request timed out", Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return &service.Failure{Kind: service.NotFound, Msg: "not found", Err: err}
		case http.StatusUnauthorized, http.StatusForbidden:
			return &service.Failure{
				Kind: service.Unknown,
				Msg:  "token expired or revoked (run: notes login)",
				Err:  service.ErrAuth,
			}
		case http.StatusBadRequest:
			return &service.Failure{Kind: service.Validation, Msg: apiErr.Message, Err: err}
		}
		if apiErr.Code >= 500 {
			return service.ConnectivityError(err)
		}
		return service.AsFailure(err)
	}

	// Token refresh failures surface as *oauth2.RetrieveError
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &service.Failure{
			Kind: service.Unknown,
			Msg:  "token expired or revoked (run: notes login)",
			Err:  service.ErrAuth,
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return service.ConnectivityError(err)
	}

	return service.AsFailure(err)
}
