package z80

import "testing"

func TestEDNegate(t *testing.T) {
	cpu, bus := newTestCPU(t)
	cpu.Regs.A = 0x01
	bus.mem[0] = 0xED
	bus.mem[1] = 0x44 // NEG
	cpu.Step()
	if cpu.Regs.A != 0xFF {
		t.Errorf("A = %#02x, want 0xFF", cpu.Regs.A)
	}
	if cpu.Regs.F&FlagC == 0 {
		t.Error("NEG of a non-zero value must set carry")
	}
	if cpu.Regs.F&FlagN == 0 {
		t.Error("NEG must set FlagN")
	}
}

func TestEDNegateZero(t *testing.T) {
	cpu, bus := newTestCPU(t)
	cpu.Regs.A = 0x00
	bus.mem[0] = 0xED
	bus.mem[1] = 0x44
	cpu.Step()
	if cpu.Regs.A != 0x00 || cpu.Regs.F&FlagC != 0 {
		t.Errorf("NEG of 0: A=%#02x F=%#02x, want A=0 and no carry", cpu.Regs.A, cpu.Regs.F)
	}
}

func TestEDLDAI(t *testing.T) {
	cpu, bus := newTestCPU(t)
	cpu.Regs.I = 0x80
	cpu.Regs.IFF2 = true
	bus.mem[0] = 0xED
	bus.mem[1] = 0x57 // LD A,I
	cpu.Step()
	if cpu.Regs.A != 0x80 {
		t.Errorf("A = %#02x, want 0x80", cpu.Regs.A)
	}
	if cpu.Regs.F&FlagS == 0 {
		t.Error("LD A,I with I's bit 7 set must set S")
	}
	if cpu.Regs.F&FlagP == 0 {
		t.Error("LD A,I must mirror IFF2 into P/V")
	}
}

func TestEDRLD(t *testing.T) {
	cpu, bus := newTestCPU(t)
	cpu.Regs.SetHL(0x4000)
	cpu.Regs.A = 0x7A
	bus.mem[0x4000] = 0x31
	bus.mem[0] = 0xED
	bus.mem[1] = 0x6F // RLD
	cpu.Step()
	if cpu.Regs.A != 0x73 {
		t.Errorf("A = %#02x, want 0x73", cpu.Regs.A)
	}
	if bus.mem[0x4000] != 0x1A {
		t.Errorf("(HL) = %#02x, want 0x1A", bus.mem[0x4000])
	}
}

func TestEDInPortFlagsOnlyVariant(t *testing.T) {
	cpu, bus := newTestCPU(t)
	bus.port[0] = 0x80
	cpu.Regs.SetBC(0x0000)
	bus.mem[0] = 0xED
	bus.mem[1] = 0x70 // IN (C) -- undocumented flags-only form
	cpu.Step()
	if cpu.Regs.B != 0 {
		t.Error("IN (C) must not write any register")
	}
	if cpu.Regs.F&FlagS == 0 {
		t.Error("IN (C) must still set flags from the byte read")
	}
}

func TestEDAdcHL(t *testing.T) {
	cpu, bus := newTestCPU(t)
	cpu.Regs.SetHL(0x0000)
	cpu.Regs.SetBC(0x0000)
	cpu.Regs.F = FlagC
	bus.mem[0] = 0xED
	bus.mem[1] = 0x4A // ADC HL,BC
	cpu.Step()
	if cpu.Regs.HL() != 1 {
		t.Errorf("HL = %#04x, want 1", cpu.Regs.HL())
	}
	if cpu.Clock.Tacts() != 15 {
		t.Errorf("tacts = %d, want 15", cpu.Clock.Tacts())
	}
}

func TestEDLDPairFromMemory(t *testing.T) {
	cpu, bus := newTestCPU(t)
	bus.mem[0x5000] = 0x34
	bus.mem[0x5001] = 0x12
	bus.mem[0] = 0xED
	bus.mem[1] = 0x4B // LD BC,(nn)
	bus.mem[2] = 0x00
	bus.mem[3] = 0x50
	cpu.Step()
	if cpu.Regs.BC() != 0x1234 {
		t.Errorf("BC = %#04x, want 0x1234", cpu.Regs.BC())
	}
}

func TestEDUnassignedOpcodeIsNoop(t *testing.T) {
	cpu, bus := newTestCPU(t)
	bus.mem[0] = 0xED
	bus.mem[1] = 0x00 // unassigned
	cpu.Step()
	if cpu.Clock.Tacts() != 8 {
		t.Errorf("tacts = %d, want 8 (already charged by the two fetches)", cpu.Clock.Tacts())
	}
}
