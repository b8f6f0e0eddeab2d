package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pixelfolio/api/internal/db"
)

type fakeStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func newTestLimiter(s store, max int, window time.Duration, at time.Time) *Limiter {
	l := New(s, max, window, zap.NewNop())
	l.now = func() time.Time { return at }
	return l
}

func TestAllow_FirstRequest(t *testing.T) {
	at := time.Unix(1000, 0)
	l := newTestLimiter(newFakeStore(), 10, time.Minute, at)

	r := l.Allow(context.Background(), "1.2.3.4")
	if !r.Allowed {
		t.Fatal("first request must be allowed")
	}
	if r.Remaining != 9 {
		t.Errorf("expected 9 remaining, got %d", r.Remaining)
	}
	if r.ResetAt != 1060 {
		t.Errorf("expected reset at window end, got %d", r.ResetAt)
	}
}

func TestAllow_ExhaustsWindow(t *testing.T) {
	at := time.Unix(1000, 0)
	store := newFakeStore()
	l := newTestLimiter(store, 3, time.Minute, at)

	for i := 0; i < 3; i++ {
		if r := l.Allow(context.Background(), "1.2.3.4"); !r.Allowed {
			t.Fatalf("request %d unexpectedly rejected", i+1)
		}
	}

	r := l.Allow(context.Background(), "1.2.3.4")
	if r.Allowed {
		t.Fatal("request over the limit must be rejected")
	}
	if r.Remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", r.Remaining)
	}
	if r.RetryAfter <= 0 || r.RetryAfter > 60 {
		t.Errorf("unexpected RetryAfter: %d", r.RetryAfter)
	}
}

func TestAllow_IdentifiersIsolated(t *testing.T) {
	at := time.Unix(1000, 0)
	l := newTestLimiter(newFakeStore(), 1, time.Minute, at)

	if r := l.Allow(context.Background(), "1.2.3.4"); !r.Allowed {
		t.Fatal("first client rejected")
	}
	if r := l.Allow(context.Background(), "5.6.7.8"); !r.Allowed {
		t.Fatal("second client must have its own window")
	}
	if r := l.Allow(context.Background(), "1.2.3.4"); r.Allowed {
		t.Fatal("first client over limit must be rejected")
	}
}

func TestAllow_FailsOpenOnStoreError(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	l := newTestLimiter(store, 10, time.Minute, time.Unix(1000, 0))

	r := l.Allow(context.Background(), "1.2.3.4")
	if !r.Allowed {
		t.Fatal("store failure must fail open")
	}
}

func TestAllow_CorruptCounterResets(t *testing.T) {
	store := newFakeStore()
	store.data[keyPrefix+"1.2.3.4"] = []byte(`garbage`)
	l := newTestLimiter(store, 10, time.Minute, time.Unix(1000, 0))

	r := l.Allow(context.Background(), "1.2.3.4")
	if !r.Allowed {
		t.Fatal("corrupt counter must reset, not reject")
	}
	if r.Remaining != 9 {
		t.Errorf("expected fresh window after reset, remaining = %d", r.Remaining)
	}
}

func TestAllow_SetFailureStillAllows(t *testing.T) {
	store := newFakeStore()
	store.setErr = errors.New("connection refused")
	l := newTestLimiter(store, 10, time.Minute, time.Unix(1000, 0))

	if r := l.Allow(context.Background(), "1.2.3.4"); !r.Allowed {
		t.Fatal("counter write failure must not reject the request")
	}
}
