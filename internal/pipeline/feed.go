package pipeline

import (
	"sync"

	"notes/internal/request"
	"notes/internal/service"
)

// TasksResult is the published state of one task list.
type TasksResult = request.Result[[]service.Task]

// feed holds the current state of one list and fans it out to subscribers.
// It is the single writer for its list: every publication goes through
// publish under mu, and a publication older than the last one is dropped.
type feed struct {
	name string

	mu   sync.Mutex
	seq  uint64
	cur  TasksResult
	subs map[*Subscription]struct{}
}

func newFeed(name string) *feed {
	return &feed{
		name: name,
		cur:  request.Loading[[]service.Task](),
		subs: make(map[*Subscription]struct{}),
	}
}

func (f *feed) current() TasksResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cur
}

// publish replaces the current state if seq is newer than the last
// publication. Returns false if the state was stale and dropped.
func (f *feed) publish(seq uint64, r TasksResult) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq <= f.seq {
		return false
	}
	f.seq = seq
	f.cur = r
	for sub := range f.subs {
		sub.offer(r)
	}
	return true
}

func (f *feed) subscribe() *Subscription {
	sub := &Subscription{
		ch:   make(chan TasksResult, 1),
		feed: f,
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[sub] = struct{}{}
	sub.offer(f.cur)
	return sub
}

func (f *feed) remove(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, sub)
	close(sub.ch)
}

// Subscription receives the states of one list in publication order.
// A subscriber that falls behind only sees the most recent state.
type Subscription struct {
	ch   chan TasksResult
	feed *feed
	once sync.Once
}

// Updates returns the channel of published states.
// It is closed by Close.
func (s *Subscription) Updates() <-chan TasksResult {
	return s.ch
}

// Close detaches the subscription from its list.
func (s *Subscription) Close() {
	s.once.Do(func() { s.feed.remove(s) })
}

// offer must be called with the feed lock held; the feed is the only sender.
func (s *Subscription) offer(r TasksResult) {
	select {
	case s.ch <- r:
		return
	default:
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- r
}
