package fetch

import (
	"context"
	"testing"
	"time"
)

func TestLimiterExhaustion(t *testing.T) {
	l := NewLimiter(2, time.Minute)

	ctx := context.Background()
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("first token should be free: %v", err)
	}
	if err := l.Wait(ctx); err != nil {
		t.Fatalf("second token should be free: %v", err)
	}

	// Bucket is empty and refills far in the future; Wait must respect
	// cancellation instead of spinning forever.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx); err == nil {
		t.Error("expected context deadline error on empty bucket")
	}
}

func TestLimiterRefill(t *testing.T) {
	l := NewLimiter(1, 20*time.Millisecond)

	ctx := context.Background()
	if err := l.Wait(ctx); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := l.Wait(ctx); err != nil {
		t.Errorf("bucket should have refilled: %v", err)
	}
}

func TestProviderLimiterUnknownProviderPassesThrough(t *testing.T) {
	p := NewProviderLimiter()
	if err := p.Wait(context.Background(), "unregistered"); err != nil {
		t.Errorf("unregistered provider should not block: %v", err)
	}
}

func TestDefaultProviderLimiterCoversUpstreams(t *testing.T) {
	p := DefaultProviderLimiter()
	for _, provider := range []string{ProviderNewsAPI, ProviderReddit, ProviderYahoo} {
		if p.Get(provider) == nil {
			t.Errorf("expected a bucket for %s", provider)
		}
	}
}
