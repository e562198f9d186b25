package z80

// edRegGet/edRegSet decode the 3-bit register field used by ED's IN r,(C)/
// OUT (C),r pair, which reuses the same 0..7 encoding as the base table but
// repurposes index 6 as an undocumented "no register" slot (IN (C) affects
// flags only and discards the byte it read; OUT (C) outputs a constant 0)
// instead of (HL).
func (c *CPU) edRegGet(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.Regs.B
	case 1:
		return c.Regs.C
	case 2:
		return c.Regs.D
	case 3:
		return c.Regs.E
	case 4:
		return c.Regs.H
	case 5:
		return c.Regs.L
	case 7:
		return c.Regs.A
	default:
		return 0
	}
}

func (c *CPU) edRegSet(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.Regs.B = v
	case 1:
		c.Regs.C = v
	case 2:
		c.Regs.D = v
	case 3:
		c.Regs.E = v
	case 4:
		c.Regs.H = v
	case 5:
		c.Regs.L = v
	case 7:
		c.Regs.A = v
	}
}

// edPairGet/edPairSet decode the 2-bit register-pair field (bits 5-4) used
// by ADC/SBC HL,rr and LD (nn),rr/LD rr,(nn): 0=BC,1=DE,2=HL,3=SP.
func (c *CPU) edPairGet(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.Regs.BC()
	case 1:
		return c.Regs.DE()
	case 2:
		return c.Regs.HL()
	default:
		return c.Regs.SP
	}
}

func (c *CPU) edPairSet(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.Regs.SetBC(v)
	case 1:
		c.Regs.SetDE(v)
	case 2:
		c.Regs.SetHL(v)
	default:
		c.Regs.SP = v
	}
}

func (c *CPU) execNeg() {
	v := c.Regs.A
	c.Regs.A = 0
	c.Regs.execSub(v)
}

// execRetnOrReti pops PC and restores IFF1 from IFF2; RETN and RETI differ
// only in the daisy-chain signal real hardware emits, which this core has
// no peripheral hook for (see DESIGN.md).
func (c *CPU) execRetnOrReti() {
	c.Regs.IFF1 = c.Regs.IFF2
	c.ret()
}

// ldAFromIR loads v into A and sets the flags for LD A,I / LD A,R: SZ53
// from the value, H=N=0, P/V mirrors IFF2 (the well-known quirk where a
// maskable interrupt racing this instruction can corrupt P/V — not modeled
// here), C preserved.
func (c *CPU) ldAFromIR(v uint8) {
	c.Regs.A = v
	f := c.Regs.F & FlagC
	f |= v & (FlagS | Flag5 | Flag3)
	if v == 0 {
		f |= FlagZ
	}
	if c.Regs.IFF2 {
		f |= FlagP
	}
	c.Regs.F = f
	c.Regs.f53Updated = true
}

func (c *CPU) execRrd() {
	addr := c.Regs.HL()
	m := c.readByte(addr)
	c.internal(4)
	newM := c.Regs.A<<4&0xF0 | m>>4
	c.Regs.A = c.Regs.A&0xF0 | m&0x0F
	c.writeByte(addr, newM)
	c.Regs.F = sz53pTable[c.Regs.A] | c.Regs.F&FlagC
	c.Regs.WZ = addr + 1
	c.Regs.f53Updated = true
}

func (c *CPU) execRld() {
	addr := c.Regs.HL()
	m := c.readByte(addr)
	c.internal(4)
	newM := m<<4&0xF0 | c.Regs.A&0x0F
	c.Regs.A = c.Regs.A&0xF0 | m>>4
	c.writeByte(addr, newM)
	c.Regs.F = sz53pTable[c.Regs.A] | c.Regs.F&FlagC
	c.Regs.WZ = addr + 1
	c.Regs.f53Updated = true
}

// execED dispatches an ED-prefixed opcode. Every opcode this table doesn't
// explicitly name behaves, on real silicon, as an 8 T-state no-op — already
// fully charged by the two fetchOpcode calls that got us here.
func (c *CPU) execED(opcode uint8) {
	col := opcode & 0x07
	pairIdx := (opcode >> 4) & 0x03

	switch {
	case opcode >= 0x40 && opcode <= 0x7F && col == 0:
		v := c.inPort(c.Regs.BC())
		c.Regs.WZ = c.Regs.BC() + 1
		if opcode != 0x70 {
			c.edRegSet((opcode>>3)&0x07, v)
		}
		c.Regs.F = sz53pTable[v] | c.Regs.F&FlagC
		c.Regs.f53Updated = true
		return
	case opcode >= 0x40 && opcode <= 0x7F && col == 1:
		v := uint8(0)
		if opcode != 0x71 {
			v = c.edRegGet((opcode >> 3) & 0x07)
		}
		c.outPort(c.Regs.BC(), v)
		c.Regs.WZ = c.Regs.BC() + 1
		return
	case opcode >= 0x40 && opcode <= 0x7F && col == 2:
		rr := c.edPairGet(pairIdx)
		if opcode&0x08 == 0 {
			c.Regs.SetHL(c.Regs.execSbcHL(c.Regs.HL(), rr))
		} else {
			c.Regs.SetHL(c.Regs.execAdcHL(c.Regs.HL(), rr))
		}
		c.internal(7)
		c.Regs.WZ = c.Regs.HL() + 1
		return
	case opcode >= 0x40 && opcode <= 0x7F && col == 3:
		addr := c.fetchWord()
		if opcode&0x08 == 0 {
			c.writeWord(addr, c.edPairGet(pairIdx))
		} else {
			c.edPairSet(pairIdx, c.readWord(addr))
		}
		c.Regs.WZ = addr + 1
		return
	case opcode >= 0x40 && opcode <= 0x7F && col == 4:
		c.execNeg()
		return
	case opcode >= 0x40 && opcode <= 0x7F && col == 5:
		c.execRetnOrReti()
		return
	case opcode >= 0x40 && opcode <= 0x7F && col == 6:
		switch opcode {
		case 0x46, 0x4E, 0x66, 0x6E:
			c.Regs.IM = 0
		case 0x56, 0x76:
			c.Regs.IM = 1
		default: // 0x5E, 0x7E
			c.Regs.IM = 2
		}
		return
	}

	switch opcode {
	case 0x47:
		c.Regs.I = c.Regs.A
		c.internal(1)
	case 0x4F:
		c.Regs.R = c.Regs.A
		c.internal(1)
	case 0x57:
		c.internal(1)
		c.ldAFromIR(c.Regs.I)
	case 0x5F:
		c.internal(1)
		c.ldAFromIR(c.Regs.R)
	case 0x67:
		c.execRrd()
	case 0x6F:
		c.execRld()

	case 0xA0:
		c.execLdi()
	case 0xA1:
		c.execCpi()
	case 0xA2:
		c.execIni()
	case 0xA3:
		c.execOuti()
	case 0xA8:
		c.execLdd()
	case 0xA9:
		c.execCpd()
	case 0xAA:
		c.execInd()
	case 0xAB:
		c.execOutd()
	case 0xB0:
		c.execLdir()
	case 0xB1:
		c.execCpir()
	case 0xB2:
		c.execInir()
	case 0xB3:
		c.execOtir()
	case 0xB8:
		c.execLddr()
	case 0xB9:
		c.execCpdr()
	case 0xBA:
		c.execIndr()
	case 0xBB:
		c.execOtdr()

	default:
		// Undocumented: every unassigned ED opcode is an 8 T-state no-op.
	}
}
