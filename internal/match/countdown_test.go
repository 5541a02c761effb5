package match

import "testing"

// TestCountdownFiresInOrder verifies onSecond sees the value before the
// decrement and onFinish fires exactly once at zero.
func TestCountdownFiresInOrder(t *testing.T) {
	var seconds []int
	finishes := 0
	c := NewCountdown(3,
		func(sec int) { seconds = append(seconds, sec) },
		func() { finishes++ },
	)

	if !c.Advance() {
		t.Fatal("Advance returned false with seconds left")
	}
	if !c.Advance() {
		t.Fatal("Advance returned false with one second left")
	}
	if c.Advance() {
		t.Error("Advance returned true on the finishing step")
	}
	if finishes != 1 {
		t.Errorf("onFinish fired %d times, want 1", finishes)
	}
	want := []int{3, 2, 1}
	if len(seconds) != len(want) {
		t.Fatalf("onSecond values = %v, want %v", seconds, want)
	}
	for i := range want {
		if seconds[i] != want[i] {
			t.Fatalf("onSecond values = %v, want %v", seconds, want)
		}
	}

	// Advancing a finished countdown does nothing.
	if c.Advance() {
		t.Error("finished countdown advanced")
	}
	if finishes != 1 {
		t.Errorf("onFinish refired, total %d", finishes)
	}
}

// TestCountdownNilCallbacks verifies a bare countdown just counts.
func TestCountdownNilCallbacks(t *testing.T) {
	c := NewCountdown(2, nil, nil)
	c.Advance()
	if got := c.Remaining(); got != 1 {
		t.Errorf("Remaining = %d, want 1", got)
	}
	if c.Advance() {
		t.Error("countdown kept running past zero")
	}
}
