package z80

// Block transfer/search/I-O instructions (LDI/LDD/LDIR/LDDR, CPI/CPD/CPIR/
// CPDR, INI/IND/INIR/INDR, OUTI/OUTD/OTIR/OTDR). These carry two of the Z80's
// least-documented undocumented-flag corners; the formulas below follow the
// widely distributed FUSE/MAME derivation of Sean Young's "The Undocumented
// Z80 Documented" rather than the (sparser) grounding in oisee/z80-optimizer,
// which stops at the documented instruction set.
//
// Each single-step helper charges only the T-states beyond the ED-prefix and
// opcode fetch (already charged by CPU.Step's dispatch loop); the repeating
// forms add the extra 5 T-states the real hardware spends re-examining the
// opcode each time BC (or B) keeps the loop going.

func (c *CPU) execLdi() {
	value := c.readByte(c.Regs.HL())
	c.writeByte(c.Regs.DE(), value)
	c.internal(2)

	c.Regs.SetHL(c.Regs.HL() + 1)
	c.Regs.SetDE(c.Regs.DE() + 1)
	bc := c.Regs.BC() - 1
	c.Regs.SetBC(bc)

	n := value + c.Regs.A
	f := c.Regs.F & (FlagS | FlagZ | FlagC)
	if bc != 0 {
		f |= FlagP
	}
	f |= n & Flag3
	if n&0x02 != 0 {
		f |= Flag5
	}
	c.Regs.F = f
	c.Regs.f53Updated = true
}

func (c *CPU) execLdd() {
	value := c.readByte(c.Regs.HL())
	c.writeByte(c.Regs.DE(), value)
	c.internal(2)

	c.Regs.SetHL(c.Regs.HL() - 1)
	c.Regs.SetDE(c.Regs.DE() - 1)
	bc := c.Regs.BC() - 1
	c.Regs.SetBC(bc)

	n := value + c.Regs.A
	f := c.Regs.F & (FlagS | FlagZ | FlagC)
	if bc != 0 {
		f |= FlagP
	}
	f |= n & Flag3
	if n&0x02 != 0 {
		f |= Flag5
	}
	c.Regs.F = f
	c.Regs.f53Updated = true
}

func (c *CPU) execLdir() {
	c.execLdi()
	if c.Regs.BC() != 0 {
		c.Regs.PC -= 2
		c.Regs.WZ = c.Regs.PC + 1
		c.internal(5)
	}
}

func (c *CPU) execLddr() {
	c.execLdd()
	if c.Regs.BC() != 0 {
		c.Regs.PC -= 2
		c.Regs.WZ = c.Regs.PC + 1
		c.internal(5)
	}
}

func (c *CPU) execCpi() {
	value := c.readByte(c.Regs.HL())
	c.internal(5)

	c.Regs.SetHL(c.Regs.HL() + 1)
	bc := c.Regs.BC() - 1
	c.Regs.SetBC(bc)

	result := c.Regs.A - value
	halfcarry := c.Regs.A&0x0F < value&0x0F

	f := c.Regs.F&FlagC | FlagN
	f |= sz53Table[result] & (FlagS | FlagZ)
	if halfcarry {
		f |= FlagH
	}
	if bc != 0 {
		f |= FlagP
	}
	n := result
	if halfcarry {
		n--
	}
	f |= n & Flag3
	if n&0x02 != 0 {
		f |= Flag5
	}
	c.Regs.F = f
	c.Regs.f53Updated = true
}

func (c *CPU) execCpd() {
	value := c.readByte(c.Regs.HL())
	c.internal(5)

	c.Regs.SetHL(c.Regs.HL() - 1)
	bc := c.Regs.BC() - 1
	c.Regs.SetBC(bc)

	result := c.Regs.A - value
	halfcarry := c.Regs.A&0x0F < value&0x0F

	f := c.Regs.F&FlagC | FlagN
	f |= sz53Table[result] & (FlagS | FlagZ)
	if halfcarry {
		f |= FlagH
	}
	if bc != 0 {
		f |= FlagP
	}
	n := result
	if halfcarry {
		n--
	}
	f |= n & Flag3
	if n&0x02 != 0 {
		f |= Flag5
	}
	c.Regs.F = f
	c.Regs.f53Updated = true
}

func (c *CPU) execCpir() {
	c.execCpi()
	if c.Regs.BC() != 0 && c.Regs.F&FlagZ == 0 {
		c.Regs.PC -= 2
		c.Regs.WZ = c.Regs.PC + 1
		c.internal(5)
	}
}

func (c *CPU) execCpdr() {
	c.execCpd()
	if c.Regs.BC() != 0 && c.Regs.F&FlagZ == 0 {
		c.Regs.PC -= 2
		c.Regs.WZ = c.Regs.PC + 1
		c.internal(5)
	}
}

func (c *CPU) execIni() {
	c.internal(1)
	value := c.inPort(c.Regs.BC())
	c.writeByte(c.Regs.HL(), value)

	oldC := c.Regs.C
	c.Regs.B--
	c.Regs.SetHL(c.Regs.HL() + 1)

	k := uint16(value) + uint16(oldC) + 1
	f := sz53Table[c.Regs.B]
	if value&0x80 != 0 {
		f |= FlagN
	}
	if k > 0xFF {
		f |= FlagH | FlagC
	}
	if parityTable[uint8(k&0x07)^c.Regs.B] != 0 {
		f |= FlagP
	}
	c.Regs.F = f
	c.Regs.f53Updated = true
}

func (c *CPU) execInd() {
	c.internal(1)
	value := c.inPort(c.Regs.BC())
	c.writeByte(c.Regs.HL(), value)

	oldC := c.Regs.C
	c.Regs.B--
	c.Regs.SetHL(c.Regs.HL() - 1)

	k := uint16(value) + uint16(oldC) - 1
	f := sz53Table[c.Regs.B]
	if value&0x80 != 0 {
		f |= FlagN
	}
	if k > 0xFF {
		f |= FlagH | FlagC
	}
	if parityTable[uint8(k&0x07)^c.Regs.B] != 0 {
		f |= FlagP
	}
	c.Regs.F = f
	c.Regs.f53Updated = true
}

func (c *CPU) execInir() {
	c.execIni()
	if c.Regs.B != 0 {
		c.Regs.PC -= 2
		c.internal(5)
	}
}

func (c *CPU) execIndr() {
	c.execInd()
	if c.Regs.B != 0 {
		c.Regs.PC -= 2
		c.internal(5)
	}
}

func (c *CPU) execOuti() {
	value := c.readByte(c.Regs.HL())
	c.Regs.B--
	c.Regs.SetHL(c.Regs.HL() + 1)
	c.internal(1)
	c.outPort(c.Regs.BC(), value)

	k := uint16(value) + uint16(c.Regs.L)
	f := sz53Table[c.Regs.B]
	if value&0x80 != 0 {
		f |= FlagN
	}
	if k > 0xFF {
		f |= FlagH | FlagC
	}
	if parityTable[uint8(k&0x07)^c.Regs.B] != 0 {
		f |= FlagP
	}
	c.Regs.F = f
	c.Regs.f53Updated = true
}

func (c *CPU) execOutd() {
	value := c.readByte(c.Regs.HL())
	c.Regs.B--
	c.Regs.SetHL(c.Regs.HL() - 1)
	c.internal(1)
	c.outPort(c.Regs.BC(), value)

	k := uint16(value) + uint16(c.Regs.L)
	f := sz53Table[c.Regs.B]
	if value&0x80 != 0 {
		f |= FlagN
	}
	if k > 0xFF {
		f |= FlagH | FlagC
	}
	if parityTable[uint8(k&0x07)^c.Regs.B] != 0 {
		f |= FlagP
	}
	c.Regs.F = f
	c.Regs.f53Updated = true
}

func (c *CPU) execOtir() {
	c.execOuti()
	if c.Regs.B != 0 {
		c.Regs.PC -= 2
		c.internal(5)
	}
}

func (c *CPU) execOtdr() {
	c.execOutd()
	if c.Regs.B != 0 {
		c.Regs.PC -= 2
		c.internal(5)
	}
}
