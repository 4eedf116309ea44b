// Package changes announces task mutations to other processes sharing a store.
//
// A Notifying service publishes a Notice after every confirmed mutation;
// Listen turns the notices of other processes into refresh signals.
package changes

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"notes/internal/service"
)

// Notice describes one confirmed mutation.
type Notice struct {
	Action string `json:"action"`
	TaskID string `json:"taskId"`
	Origin string `json:"origin"`
	Time   int64  `json:"time"`
}

// Publisher delivers notices.
type Publisher interface {
	Publish(ctx context.Context, n Notice) error
}

// Notifying wraps a service.Service and publishes a Notice after each
// successful Create, Update or Delete. Publish failures are logged, never
// returned: the mutation itself already succeeded.
type Notifying struct {
	service.Service
	pub    Publisher
	origin string
	logger log.FieldLogger
	now    func() time.Time
}

// NewNotifying wraps svc. origin identifies this process in published notices.
func NewNotifying(svc service.Service, pub Publisher, origin string, logger log.FieldLogger) *Notifying {
	return &Notifying{
		Service: svc,
		pub:     pub,
		origin:  origin,
		logger:  logger,
		now:     time.Now,
	}
}

// Ephemeral reports whether the wrapped service keeps tasks only in memory.
func (n *Notifying) Ephemeral() bool { return service.IsEphemeral(n.Service) }

// Create implements service.Service.
func (n *Notifying) Create(ctx context.Context, task service.Task) (service.Task, error) {
	created, err := n.Service.Create(ctx, task)
	if err == nil {
		n.announce(ctx, "create", created.ID)
	}
	return created, err
}

// Update implements service.Service.
func (n *Notifying) Update(ctx context.Context, task service.Task) error {
	err := n.Service.Update(ctx, task)
	if err == nil {
		n.announce(ctx, "update", task.ID)
	}
	return err
}

// Delete implements service.Service.
func (n *Notifying) Delete(ctx context.Context, id string) error {
	err := n.Service.Delete(ctx, id)
	if err == nil {
		n.announce(ctx, "delete", id)
	}
	return err
}

func (n *Notifying) announce(ctx context.Context, action, id string) {
	notice := Notice{Action: action, TaskID: id, Origin: n.origin, Time: n.now().UnixNano()}
	if err := n.pub.Publish(ctx, notice); err != nil {
		n.logger.WithError(err).WithFields(log.Fields{
			"action":  action,
			"task_id": id,
		}).Warn("publish change notice")
	}
}
