package changes

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// DefaultChannel is the pub/sub channel used when none is configured.
const DefaultChannel = "notes:changes"

// RedisPublisher publishes notices on a redis pub/sub channel.
type RedisPublisher struct {
	rc      *redis.Client
	channel string
}

// NewRedisPublisher creates a publisher for channel.
func NewRedisPublisher(rc *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rc: rc, channel: channel}
}

// Publish implements Publisher.
func (p *RedisPublisher) Publish(ctx context.Context, n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.rc.Publish(ctx, p.channel, data).Err()
}

// Listen subscribes to channel and returns a signal that fires whenever a
// notice from another origin arrives. Bursts collapse into one pending
// signal. The subscription is confirmed before Listen returns; the signal
// channel is closed once ctx is done.
func Listen(ctx context.Context, rc *redis.Client, channel, origin string, logger log.FieldLogger) (<-chan struct{}, error) {
	sub := rc.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, err
	}

	signal := make(chan struct{}, 1)
	go func() {
		defer close(signal)
		for {
			forward(ctx, sub, origin, signal, logger)
			sub.Close()
			if ctx.Err() != nil {
				return
			}
			logger.Error("change channel closed, resubscribing")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			sub = rc.Subscribe(ctx, channel)
		}
	}()
	return signal, nil
}

func forward(ctx context.Context, sub *redis.PubSub, origin string, signal chan<- struct{}, logger log.FieldLogger) {
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var n Notice
			if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
				logger.Errorf("unable to parse change notice: %v", err)
				continue
			}
			if n.Origin == origin {
				continue
			}
			logger.WithFields(log.Fields{
				"action":  n.Action,
				"task_id": n.TaskID,
				"origin":  n.Origin,
			}).Debug("change notice")
			select {
			case signal <- struct{}{}:
			default:
			}
		}
	}
}
