package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	block  chan struct{}
}

func (r *recordingRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *recordingRepo) snapshot() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuthEvent(nil), r.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())

	first := d.shardIndex("alice")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("alice"); got != first {
			t.Fatalf("shard index changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_PersistsInOrderPerUser(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	types := []domain.AuthEventType{
		domain.AuthEventRegistered,
		domain.AuthEventLoginFailure,
		domain.AuthEventLoginSuccess,
		domain.AuthEventRolesChanged,
	}
	for _, typ := range types {
		d.Publish(domain.AuthEvent{Type: typ, Username: "alice", OccurredAt: time.Now()})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == len(types) })
	cancel()
	d.Wait()

	for i, e := range repo.snapshot() {
		if e.Type != types[i] {
			t.Fatalf("event %d: expected %s, got %s", i, types[i], e.Type)
		}
		if e.ID == "" {
			t.Fatalf("event %d: id must be assigned", i)
		}
	}
}

func TestDispatcher_PublishDropsWhenShardIsFull(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	// Workers are not started, so the buffer fills up.
	for i := 0; i < channelBuffer+5; i++ {
		d.Publish(domain.AuthEvent{Type: domain.AuthEventLoginFailure, Username: "bob"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected a full buffer of %d, got %d", channelBuffer, got)
	}
}
