package z80

// TactHook is invoked once per T-state, after the tact counter has been
// incremented, so contention/video/audio peripherals can stay in phase
// with the processor. It must be cheap and non-blocking: it runs inline on
// the CPU's thread (see DESIGN.md's concurrency note).
type TactHook func(tacts uint64)

// Clock is the sole mutator of the T-state counter. Every bulk increment is
// equivalent to that many single steps, each of which fires the hook
// exactly once, in strictly increasing order.
type Clock struct {
	tacts uint64
	hook  TactHook
}

// NewClock creates a Clock with the given hook. A nil hook is replaced with
// a no-op, so the clock always has a hook to call.
func NewClock(hook TactHook) *Clock {
	if hook == nil {
		hook = func(uint64) {}
	}
	return &Clock{hook: hook}
}

// Tacts returns the current T-state count.
func (c *Clock) Tacts() uint64 { return c.tacts }

// Reset zeroes the tact counter without touching the hook.
func (c *Clock) Reset() { c.tacts = 0 }

// SetHook replaces the per-tact hook.
func (c *Clock) SetHook(hook TactHook) {
	if hook == nil {
		hook = func(uint64) {}
	}
	c.hook = hook
}

// Add advances the counter by n single steps, firing the hook once per
// step. n is normally one of the small constants below, but any count is
// accepted for internal-cycle bookkeeping.
func (c *Clock) Add(n int) {
	for i := 0; i < n; i++ {
		c.tacts++
		c.hook(c.tacts)
	}
}

// Convenience bulk increments matching the M-cycle shapes spec.md §4.3-4.4
// names explicitly.
func (c *Clock) Add1() { c.Add(1) }
func (c *Clock) Add2() { c.Add(2) }
func (c *Clock) Add3() { c.Add(3) }
func (c *Clock) Add4() { c.Add(4) }
func (c *Clock) Add5() { c.Add(5) }
func (c *Clock) Add7() { c.Add(7) }
