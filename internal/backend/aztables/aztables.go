// Package aztables implements service.Service on Azure Table Storage.
package aztables

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/google/uuid"

	"notes/internal/service"
)

const (
	// DefaultPartition is the partition key used when none is configured.
	DefaultPartition = "notes"

	// APITimeout is the timeout for table calls.
	APITimeout = 10 * time.Second

	edmInt64 = "Edm.Int64"
)

// table is the subset of *aztables.Client the store uses.
type table interface {
	CreateTable(ctx context.Context, options *aztables.CreateTableOptions) (aztables.CreateTableResponse, error)
	AddEntity(ctx context.Context, entity []byte, options *aztables.AddEntityOptions) (aztables.AddEntityResponse, error)
	UpdateEntity(ctx context.Context, entity []byte, options *aztables.UpdateEntityOptions) (aztables.UpdateEntityResponse, error)
	DeleteEntity(ctx context.Context, partitionKey, rowKey string, options *aztables.DeleteEntityOptions) (aztables.DeleteEntityResponse, error)
	NewListEntitiesPager(options *aztables.ListEntitiesOptions) *runtime.Pager[aztables.ListEntitiesResponse]
}

// Store keeps tasks as entities of one table partition.
type Store struct {
	table     table
	partition string
	now       func() time.Time
}

// New creates a Store from a storage connection string.
func New(connStr, tableName, partition string) (*Store, error) {
	svc, err := aztables.NewServiceClientFromConnectionString(connStr, nil)
	if err != nil {
		return nil, err
	}
	return newStore(svc.NewClient(tableName), partition), nil
}

func newStore(t table, partition string) *Store {
	if partition == "" {
		partition = DefaultPartition
	}
	return &Store{table: t, partition: partition, now: time.Now}
}

type entityKeys struct {
	PartitionKey string `json:"PartitionKey"`
	RowKey       string `json:"RowKey"`
}

// taskEntity is a task as stored in the table.
type taskEntity struct {
	entityKeys
	Title         string `json:"Title"`
	Description   string `json:"Description"`
	Completed     bool   `json:"Completed"`
	Favorite      bool   `json:"Favorite"`
	CreatedAt     int64  `json:"CreatedAt,string"`
	CreatedAtType string `json:"CreatedAt@odata.type"`
}

// taskUpdate carries the mutable properties; merged so CreatedAt is kept.
type taskUpdate struct {
	entityKeys
	Title       string `json:"Title"`
	Description string `json:"Description"`
	Completed   bool   `json:"Completed"`
	Favorite    bool   `json:"Favorite"`
}

func (e taskEntity) toTask() service.Task {
	t := service.Task{
		ID:          e.RowKey,
		Title:       e.Title,
		Description: e.Description,
		Completed:   e.Completed,
		Favorite:    e.Favorite,
	}
	if e.CreatedAt != 0 {
		t.CreatedAt = time.Unix(0, e.CreatedAt)
	}
	return t
}

// EnsureTable creates the table if it does not exist yet.
func (s *Store) EnsureTable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := s.table.CreateTable(ctx, nil)
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode == http.StatusConflict {
		return nil
	}
	return wrapError(err)
}

// Create implements service.Service.
func (s *Store) Create(ctx context.Context, task service.Task) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	task.ID = uuid.NewString()
	task.CreatedAt = s.now()
	ent := taskEntity{
		entityKeys:    entityKeys{PartitionKey: s.partition, RowKey: task.ID},
		Title:         task.Title,
		Description:   task.Description,
		Completed:     task.Completed,
		Favorite:      task.Favorite,
		CreatedAt:     task.CreatedAt.UnixNano(),
		CreatedAtType: edmInt64,
	}
	payload, err := json.Marshal(ent)
	if err != nil {
		return service.Task{}, service.AsFailure(err)
	}
	if _, err := s.table.AddEntity(ctx, payload, nil); err != nil {
		return service.Task{}, wrapError(err)
	}
	return task, nil
}

// Update implements service.Service.
func (s *Store) Update(ctx context.Context, task service.Task) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	payload, err := json.Marshal(taskUpdate{
		entityKeys:  entityKeys{PartitionKey: s.partition, RowKey: task.ID},
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Favorite:    task.Favorite,
	})
	if err != nil {
		return service.AsFailure(err)
	}
	et := azcore.ETagAny
	_, err = s.table.UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{IfMatch: &et, UpdateMode: aztables.UpdateModeMerge})
	return wrapError(err)
}

// Delete implements service.Service.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	_, err := s.table.DeleteEntity(ctx, s.partition, id, nil)
	return wrapError(err)
}

// List implements service.Service.
func (s *Store) List(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	filter := "PartitionKey eq '" + strings.ReplaceAll(s.partition, "'", "''") + "'"
	pager := s.table.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	tasks := []service.Task{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, wrapError(err)
		}
		for _, raw := range resp.Entities {
			var ent taskEntity
			if err := json.Unmarshal(raw, &ent); err != nil {
				return nil, service.AsFailure(err)
			}
			tasks = append(tasks, ent.toTask())
		}
	}
	return tasks, nil
}

// wrapError classifies table errors into service failures.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		if respErr.StatusCode == http.StatusNotFound {
			return &service.Failure{Kind: service.NotFound, Msg: "not found", Err: err}
		}
		return service.AsFailure(err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return service.ConnectivityError(err)
	}
	return service.AsFailure(err)
}
