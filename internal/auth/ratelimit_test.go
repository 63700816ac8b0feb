package auth

import "testing"

func TestLimiterRejectsOverBurst(t *testing.T) {
	l := NewLimiter(60, 3) // 1/sec sustained, burst of 3

	for i := 0; i < 3; i++ {
		if !l.Allow("actor-1") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if l.Allow("actor-1") {
		t.Fatal("request beyond burst capacity should be rejected with a 429")
	}
}

func TestLimiterBucketsArePerKey(t *testing.T) {
	l := NewLimiter(60, 1)

	if !l.Allow("actor-a") {
		t.Fatal("first request for actor-a should be allowed")
	}
	if !l.Allow("actor-b") {
		t.Fatal("a different key must have its own independent bucket")
	}
	if l.Allow("actor-a") {
		t.Fatal("actor-a's bucket should already be exhausted")
	}
}
