package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		key      string
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			key:      "test",
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			key:      "test",
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_KeysIndependent(t *testing.T) {
	rl := New(0.001, 1)
	defer rl.Stop()

	if !rl.Allow("a") {
		t.Fatal("first request for a should pass")
	}
	if rl.Allow("a") {
		t.Error("second request for a should be limited")
	}
	if !rl.Allow("b") {
		t.Error("b should have its own bucket")
	}
}

func TestKeyedRateLimiter_PerMinute(t *testing.T) {
	rl := PerMinute(5)
	defer rl.Stop()

	passed := 0
	for i := 0; i < 10; i++ {
		if rl.Allow("ip") {
			passed++
		}
	}
	if passed != 5 {
		t.Errorf("passed %d, want 5", passed)
	}
}

func TestKeyedRateLimiter_EvictIdle(t *testing.T) {
	rl := NewWithTTL(1, 1, time.Hour)
	defer rl.Stop()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return base }
	rl.Allow("old")

	rl.now = func() time.Time { return base.Add(50 * time.Minute) }
	rl.Allow("fresh")

	rl.now = func() time.Time { return base.Add(90 * time.Minute) }
	rl.evictIdle()

	if rl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", rl.Len())
	}
	rl.mu.Lock()
	_, ok := rl.entries["fresh"]
	rl.mu.Unlock()
	if !ok {
		t.Error("fresh key should survive eviction")
	}
}

func TestKeyedRateLimiter_Concurrent(t *testing.T) {
	rl := New(1000, 100)
	defer rl.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				rl.Allow("shared")
			}
		}()
	}
	wg.Wait()
}

func TestKeyedRateLimiter_StopIdempotent(t *testing.T) {
	rl := New(1, 1)
	rl.Stop()
	rl.Stop()
	if err := rl.Shutdown(); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}
