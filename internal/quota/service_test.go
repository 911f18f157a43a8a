package quota

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConsumeUpToDailyLimit(t *testing.T) {
	svc := NewService(100)
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		ok, _, err := svc.CanConsume(ctx, "client-a", 1)
		if err != nil {
			t.Fatalf("can consume %d: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("request %d should be within quota", i+1)
		}
		if _, err := svc.Consume(ctx, "client-a", 1); err != nil {
			t.Fatalf("consume %d: %v", i+1, err)
		}
	}

	ok, q, err := svc.CanConsume(ctx, "client-a", 1)
	if err != nil {
		t.Fatalf("can consume 101: %v", err)
	}
	if ok {
		t.Fatalf("request 101 should exceed quota, used=%d limit=%d", q.Used, q.Limit)
	}
	if _, err := svc.Consume(ctx, "client-a", 1); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	// Another client has an independent window.
	ok, _, err = svc.CanConsume(ctx, "client-b", 1)
	if err != nil || !ok {
		t.Fatalf("client-b should be unaffected: ok=%v err=%v", ok, err)
	}
}

func TestWindowResetsAfterADay(t *testing.T) {
	ms := newMemoryStore(2)
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	ms.now = func() time.Time { return now }
	svc := &Service{store: ms}
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "c", 2); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if ok, _, _ := svc.CanConsume(ctx, "c", 1); ok {
		t.Fatal("quota should be exhausted")
	}

	now = now.Add(24*time.Hour + time.Second)
	ok, q, err := svc.CanConsume(ctx, "c", 1)
	if err != nil {
		t.Fatalf("can consume after reset: %v", err)
	}
	if !ok {
		t.Fatalf("expected fresh window, got used=%d", q.Used)
	}
}

func TestGetInitializesDefaults(t *testing.T) {
	svc := NewService(100)
	ctx := context.Background()

	q, err := svc.Get(ctx, "new-client")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if q.Limit != 100 || q.Used != 0 {
		t.Fatalf("fresh quota = used %d / limit %d, want 0/100", q.Used, q.Limit)
	}
	if q.ResetsAt.IsZero() {
		t.Fatal("expected a reset time on a fresh quota")
	}

	if _, err := svc.Consume(ctx, "new-client", 3); err != nil {
		t.Fatalf("consume: %v", err)
	}
	q, err = svc.Get(ctx, "new-client")
	if err != nil {
		t.Fatalf("get after consume: %v", err)
	}
	if q.Used != 3 {
		t.Fatalf("used = %d, want 3", q.Used)
	}
}

func TestResetClearsUsage(t *testing.T) {
	svc := NewService(5)
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "c", 5); err != nil {
		t.Fatalf("consume: %v", err)
	}
	q, err := svc.Reset(ctx, "c")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if q.Used != 0 {
		t.Fatalf("expected used=0 after reset, got %d", q.Used)
	}
}
