package machine

import (
	"testing"

	"github.com/z80core/z80emu/testmem"
	"github.com/z80core/z80emu/z80"
)

func newTestShell(t *testing.T, cyclesPerFrame uint64) (*Shell, *testmem.Bus) {
	t.Helper()
	bus := testmem.NewBus()
	clock := z80.NewClock(nil)
	cpu, err := z80.New(bus, clock)
	if err != nil {
		t.Fatalf("z80.New: %v", err)
	}
	return New(cpu, 3500000, cyclesPerFrame), bus
}

func TestExecuteMachineLoopRunsUntilFrameCompletes(t *testing.T) {
	shell, bus := newTestShell(t, 20)
	bus.LoadAt(0, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00})

	reason := shell.ExecuteMachineLoop()
	if reason != ReasonNormal {
		t.Fatalf("reason = %v, want Normal", reason)
	}
	if shell.CPU.Clock.Tacts() < 20 {
		t.Errorf("tacts = %d, want at least 20 (one frame of NOPs)", shell.CPU.Clock.Tacts())
	}
}

func TestExecuteMachineLoopUntilExecutionPoint(t *testing.T) {
	shell, bus := newTestShell(t, 1000)
	bus.LoadAt(0, []byte{0x01, 0x34, 0x12, 0x00}) // LD BC,nn ; NOP

	shell.Context.Mode = ModeUntilExecutionPoint
	shell.Context.TerminationPC = 0x0003
	shell.Context.HasTerminationPC = true

	reason := shell.ExecuteMachineLoop()
	if reason != ReasonUntilExecutionPoint {
		t.Fatalf("reason = %v, want UntilExecutionPoint", reason)
	}
	if shell.CPU.Regs.BC() != 0x1234 {
		t.Errorf("BC = %#04x, want 0x1234", shell.CPU.Regs.BC())
	}
	if shell.CPU.Regs.PC != 0x0003 {
		t.Errorf("PC = %#04x, want 0x0003", shell.CPU.Regs.PC)
	}
	if shell.CPU.Clock.Tacts() != 10 {
		t.Errorf("tacts = %d, want 10", shell.CPU.Clock.Tacts())
	}
}

func TestExecuteMachineLoopUntilHalt(t *testing.T) {
	shell, bus := newTestShell(t, 10000)
	bus.LoadAt(0, []byte{0x00, 0x00, 0x76}) // NOP ; NOP ; HALT

	shell.Context.Mode = ModeUntilHalt
	reason := shell.ExecuteMachineLoop()
	if reason != ReasonUntilHalt {
		t.Fatalf("reason = %v, want UntilHalt", reason)
	}
	if !shell.CPU.Halted() {
		t.Error("CPU must be halted when UntilHalt terminates")
	}
}

// Breakpoint scenario, spec.md §8 #6: PC=0x8000, breakpoint at 0x8000. First
// call returns Breakpoint and stamps startup-breakpoint=0x8000; second call
// bypasses it, executes one instruction, and proceeds to frame completion.
func TestExecuteMachineLoopBreakpointScenario(t *testing.T) {
	shell, bus := newTestShell(t, 50)
	bus.LoadAt(0x8000, []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00})
	shell.CPU.Regs.PC = 0x8000
	shell.Breakpoints.Set(0x8000, nil)

	reason := shell.ExecuteMachineLoop()
	if reason != ReasonBreakpoint {
		t.Fatalf("first call: reason = %v, want Breakpoint", reason)
	}
	if shell.StartupBreakpoint == nil || *shell.StartupBreakpoint != 0x8000 {
		t.Fatal("first call must stamp startup-breakpoint at 0x8000")
	}
	if shell.CPU.Regs.PC != 0x8000 {
		t.Fatalf("PC must remain at 0x8000 after the first call, got %#04x", shell.CPU.Regs.PC)
	}

	reason = shell.ExecuteMachineLoop()
	if reason != ReasonNormal {
		t.Fatalf("second call: reason = %v, want Normal (startup guard bypasses the breakpoint)", reason)
	}
	if shell.CPU.Regs.PC == 0x8000 {
		t.Error("second call must have executed at least the first instruction, advancing PC")
	}
}

func TestExecuteMachineLoopClockMultiplierAppliedAtFrameBoundary(t *testing.T) {
	shell, bus := newTestShell(t, 20)
	bus.LoadAt(0, make([]byte, 64)) // all NOPs

	if err := shell.SetClockMultiplier(2); err != nil {
		t.Fatalf("SetClockMultiplier: %v", err)
	}
	if shell.ClockMultiplier != 1 {
		t.Fatal("multiplier must not take effect mid-frame")
	}

	shell.ExecuteMachineLoop() // completes the current frame at the old multiplier
	if shell.ClockMultiplier != 1 {
		t.Fatal("multiplier must not change until the NEXT frame starts")
	}
	shell.ExecuteMachineLoop() // now the staged multiplier is adopted
	if shell.ClockMultiplier != 2 {
		t.Errorf("ClockMultiplier = %d, want 2 once the next frame begins", shell.ClockMultiplier)
	}
}

func TestSetClockMultiplierRejectsZero(t *testing.T) {
	shell, _ := newTestShell(t, 10)
	if err := shell.SetClockMultiplier(0); err == nil {
		t.Error("SetClockMultiplier(0) must fail")
	}
}

func TestFrameInitHookFiresAtBoundary(t *testing.T) {
	shell, bus := newTestShell(t, 20)
	bus.LoadAt(0, make([]byte, 64))

	calls := 0
	shell.FrameInit = func() { calls++ }
	shell.ExecuteMachineLoop()
	shell.ExecuteMachineLoop()
	if calls != 1 {
		t.Errorf("FrameInit fired %d times, want exactly 1 (not on the very first frame)", calls)
	}
}

func TestShouldRaiseInterruptHookDrivesIntLine(t *testing.T) {
	// Exactly one IM1 interrupt acceptance (13T) per frame, so the frame
	// boundary lands right after acceptance and PC is still at the vector.
	shell, bus := newTestShell(t, 13)
	bus.LoadAt(0, make([]byte, 64))
	shell.CPU.Regs.IFF1 = true
	shell.CPU.Regs.IM = 1

	shell.ShouldRaiseInterrupt = func() bool { return true }
	shell.ExecuteMachineLoop()
	if shell.CPU.Regs.PC != 0x0038 {
		t.Errorf("PC = %#04x, want 0x0038 (interrupt should have been accepted this frame)", shell.CPU.Regs.PC)
	}
}

func TestCancelStopsTheLoop(t *testing.T) {
	shell, bus := newTestShell(t, 1000000)
	bus.LoadAt(0, make([]byte, 64))

	calls := 0
	shell.PostInstruction = func() {
		calls++
		if calls == 2 {
			shell.Cancel()
		}
	}
	reason := shell.ExecuteMachineLoop()
	if reason != ReasonCancelled {
		t.Fatalf("reason = %v, want Cancelled", reason)
	}
	if calls != 2 {
		t.Errorf("PostInstruction fired %d times, want exactly 2", calls)
	}
}

func TestHardResetResynchronizesFramePacing(t *testing.T) {
	shell, bus := newTestShell(t, 20)
	bus.LoadAt(0, make([]byte, 64))
	shell.ExecuteMachineLoop()
	shell.HardReset()
	if shell.CPU.Clock.Tacts() != 0 {
		t.Errorf("tacts = %d, want 0 after HardReset", shell.CPU.Clock.Tacts())
	}
	if shell.frameTarget != 20 {
		t.Errorf("frameTarget = %d, want 20 (resynced from tacts=0)", shell.frameTarget)
	}
}
