// Package machine implements the execution loop ("machine shell") that
// drives a z80.CPU: frame pacing, interrupt assertion, termination-point
// and breakpoint testing, and the startup-breakpoint one-shot guard.
// Grounded on the teacher's emu/emulator.go runScanlines/RunFrame shape,
// generalized away from the Sega Master System's scanline/VDP specifics
// down to the plain tact-count frame boundary this spec calls for.
package machine

import (
	"errors"
	"fmt"

	"github.com/z80core/z80emu/z80"
)

// TerminationMode selects which of ExecuteMachineLoop's early-exit
// conditions are active, beyond frame completion (which always applies).
type TerminationMode int

const (
	ModeNormal TerminationMode = iota
	ModeUntilHalt
	ModeUntilExecutionPoint
)

// TerminationReason is why the most recent ExecuteMachineLoop call
// returned. It is a normal structured result, never an error (spec.md §7).
type TerminationReason int

const (
	ReasonNone TerminationReason = iota
	ReasonNormal
	ReasonUntilHalt
	ReasonUntilExecutionPoint
	ReasonBreakpoint
	ReasonCancelled
)

func (r TerminationReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNormal:
		return "normal"
	case ReasonUntilHalt:
		return "until-halt"
	case ReasonUntilExecutionPoint:
		return "until-execution-point"
	case ReasonBreakpoint:
		return "breakpoint"
	case ReasonCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrInvalidClockMultiplier is a configuration error (spec.md §7): the
// owning operation fails outright, never mid-execution.
var ErrInvalidClockMultiplier = errors.New("machine: clock multiplier must be >= 1")

// ExecutionContext is the shell's configured run parameters plus the
// outcome of the last ExecuteMachineLoop call (spec.md §6 "Properties").
type ExecutionContext struct {
	Mode             TerminationMode
	TerminationPC    uint16
	HasTerminationPC bool
	LastReason       TerminationReason
}

// FrameInitHook runs once per frame boundary, before that frame's first
// instruction, after any pending clock-multiplier change has been adopted.
type FrameInitHook func()

// PostInstructionHook runs after every single instruction.
type PostInstructionHook func()

// InterruptPollHook reports whether the peripheral side currently wants
// the maskable interrupt line asserted; the shell calls it once per
// instruction, before executing that instruction.
type InterruptPollHook func() bool

// Shell is the machine shell: one CPU, its tact-based frame pacing, the
// debug surface, and the hooks a host peripheral set plugs into.
type Shell struct {
	CPU *z80.CPU

	Context     ExecutionContext
	Breakpoints *Breakpoints

	// StartupBreakpoint is the one-shot "don't stop here on first entry"
	// guard from spec.md §4.7. Nil means no guard is active.
	StartupBreakpoint *uint16

	BaseClockHz     int
	ClockMultiplier int
	pendingMult     int

	CyclesPerFrame uint64
	frameTarget    uint64
	frameCompleted bool

	FrameInit            FrameInitHook
	PostInstruction      PostInstructionHook
	ShouldRaiseInterrupt InterruptPollHook

	cancelRequested bool
}

// New builds a shell around an already-constructed CPU. cyclesPerFrame is
// the tact count of one frame at a clock multiplier of 1.
func New(cpu *z80.CPU, baseClockHz int, cyclesPerFrame uint64) *Shell {
	s := &Shell{
		CPU:             cpu,
		Breakpoints:     NewBreakpoints(),
		BaseClockHz:     baseClockHz,
		ClockMultiplier: 1,
		CyclesPerFrame:  cyclesPerFrame,
	}
	s.Configure()
	return s
}

// Configure is the idempotent (re)initialization spec.md §6 calls for
// after peripheral changes: it does not touch CPU state, only the shell's
// own frame-pacing bookkeeping.
func (s *Shell) Configure() {
	s.frameTarget = s.CPU.Clock.Tacts() + s.CyclesPerFrame*uint64(s.ClockMultiplier)
	s.frameCompleted = false
}

// HardReset zeroes the CPU (registers, tact counter, HALT, signals) and
// re-synchronizes frame pacing to the fresh tact count of zero.
func (s *Shell) HardReset() {
	s.CPU.HardReset()
	s.Configure()
}

// Reset performs the CPU's soft reset; frame pacing is left alone, since
// RAM and the tact counter are unaffected.
func (s *Shell) Reset() {
	s.CPU.Reset()
}

// SetClockMultiplier stages a new multiplier, adopted at the next frame
// boundary (spec.md §4.7 step a, §5) so timing stays coherent mid-frame.
func (s *Shell) SetClockMultiplier(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidClockMultiplier, n)
	}
	s.pendingMult = n
	return nil
}

// Cancel requests cooperative loop termination; honored between
// instructions, never mid-instruction (spec.md §5).
func (s *Shell) Cancel() {
	s.cancelRequested = true
}

// ExecuteMachineLoop runs the loop described in spec.md §4.7 and returns
// why it stopped.
func (s *Shell) ExecuteMachineLoop() TerminationReason {
	s.Context.LastReason = ReasonNone

	pc := s.CPU.Regs.PC
	if s.StartupBreakpoint == nil || *s.StartupBreakpoint != pc {
		if s.Breakpoints.Check(s.CPU) {
			addr := pc
			s.StartupBreakpoint = &addr
			s.Context.LastReason = ReasonBreakpoint
			return ReasonBreakpoint
		}
	}
	s.StartupBreakpoint = nil

	for {
		if s.frameCompleted {
			if s.pendingMult != 0 {
				s.ClockMultiplier = s.pendingMult
				s.pendingMult = 0
			}
			if s.FrameInit != nil {
				s.FrameInit()
			}
			s.frameCompleted = false
		}

		if s.ShouldRaiseInterrupt != nil {
			s.CPU.SetInt(s.ShouldRaiseInterrupt())
		}

		s.CPU.Step()

		if s.PostInstruction != nil {
			s.PostInstruction()
		}

		if s.Context.Mode == ModeUntilExecutionPoint && s.Context.HasTerminationPC &&
			s.CPU.Regs.PC == s.Context.TerminationPC {
			s.Context.LastReason = ReasonUntilExecutionPoint
			return ReasonUntilExecutionPoint
		}

		if s.Breakpoints.Check(s.CPU) {
			addr := s.CPU.Regs.PC
			s.StartupBreakpoint = &addr
			s.Context.LastReason = ReasonBreakpoint
			return ReasonBreakpoint
		}

		if s.Context.Mode == ModeUntilHalt && s.CPU.Halted() {
			s.Context.LastReason = ReasonUntilHalt
			return ReasonUntilHalt
		}

		if s.cancelRequested {
			s.cancelRequested = false
			s.Context.LastReason = ReasonCancelled
			return ReasonCancelled
		}

		if s.CPU.Clock.Tacts() >= s.frameTarget {
			s.frameTarget += s.CyclesPerFrame * uint64(s.ClockMultiplier)
			s.frameCompleted = true
			break
		}
	}

	s.Context.LastReason = ReasonNormal
	return ReasonNormal
}
