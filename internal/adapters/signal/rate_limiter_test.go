package signal

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := NewRoomRateLimiter(2, time.Minute)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	if !rl.Allow("s1") || !rl.Allow("s1") {
		t.Fatalf("first two attempts must pass")
	}
	if rl.Allow("s1") {
		t.Fatalf("third attempt inside the window must be blocked")
	}
	if !rl.Allow("s2") {
		t.Fatalf("sessions must not share a budget")
	}

	now = now.Add(time.Minute + time.Second)
	if !rl.Allow("s1") {
		t.Fatalf("attempt after the window must pass")
	}
}

func TestRateLimiterForget(t *testing.T) {
	rl := NewRoomRateLimiter(1, time.Hour)
	rl.Allow("s1")
	rl.Forget("s1")
	if !rl.Allow("s1") {
		t.Fatalf("forgotten session must start fresh")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRoomRateLimiter(0, time.Hour)
	for i := 0; i < 10; i++ {
		if !rl.Allow("s1") {
			t.Fatalf("zero limit means unlimited")
		}
	}
}
