package match

// Countdown is a seconds-granularity timer advanced by the arena's
// one-second cadence. onSecond fires with the seconds remaining before the
// decrement; onFinish fires exactly once when it reaches zero. A countdown
// is cancelled by dropping the reference, so cancelling one that already
// finished is naturally a no-op.
type Countdown struct {
	remaining int
	onSecond  func(secondsLeft int)
	onFinish  func()
	done      bool
}

// NewCountdown creates a countdown of the given whole seconds.
func NewCountdown(seconds int, onSecond func(int), onFinish func()) *Countdown {
	return &Countdown{remaining: seconds, onSecond: onSecond, onFinish: onFinish}
}

// Remaining is the seconds left before finish.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Advance moves the countdown one second forward, returning true while it
// is still running.
func (c *Countdown) Advance() bool {
	if c.done {
		return false
	}
	if c.onSecond != nil {
		c.onSecond(c.remaining)
	}
	c.remaining--
	if c.remaining <= 0 {
		c.done = true
		if c.onFinish != nil {
			c.onFinish()
		}
		return false
	}
	return true
}
