package z80

// readReg8/writeReg8 decode the 3-bit register field used throughout the
// unprefixed opcode map: 0=B,1=C,2=D,3=E,4=H,5=L,6=(HL),7=A. Index 6 is the
// one case that touches memory instead of a register, at its own T-state
// cost (see CPU.readByte/writeByte).
func (c *CPU) readReg8(idx uint8) uint8 {
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
	case 6:
		return c.readByte(c.Regs.HL())
	case 7:
		return c.Regs.A
	default:
		panic(&InvariantViolation{Reason: "register index out of range"})
	}
}

func (c *CPU) writeReg8(idx uint8, v uint8) {
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
	case 6:
		c.writeByte(c.Regs.HL(), v)
	case 7:
		c.Regs.A = v
	default:
		panic(&InvariantViolation{Reason: "register index out of range"})
	}
}

// condition evaluates one of the 8 standard Z80 branch conditions (the
// cc field of JP/JR/CALL/RET), encoded the same way as the opcode bits.
func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return c.Regs.F&FlagZ == 0 // NZ
	case 1:
		return c.Regs.F&FlagZ != 0 // Z
	case 2:
		return c.Regs.F&FlagC == 0 // NC
	case 3:
		return c.Regs.F&FlagC != 0 // C
	case 4:
		return c.Regs.F&FlagP == 0 // PO
	case 5:
		return c.Regs.F&FlagP != 0 // PE
	case 6:
		return c.Regs.F&FlagS == 0 // P
	case 7:
		return c.Regs.F&FlagS != 0 // M
	default:
		panic(&InvariantViolation{Reason: "condition index out of range"})
	}
}

func (c *CPU) jr(cond bool) {
	d := int8(c.fetchByte())
	if cond {
		c.Regs.PC = uint16(int32(c.Regs.PC) + int32(d))
		c.Regs.WZ = c.Regs.PC
		c.internal(5)
	}
}

func (c *CPU) djnz() {
	c.internal(1)
	d := int8(c.fetchByte())
	c.Regs.B--
	if c.Regs.B != 0 {
		c.Regs.PC = uint16(int32(c.Regs.PC) + int32(d))
		c.Regs.WZ = c.Regs.PC
		c.internal(5)
	}
}

func (c *CPU) jp(cond bool) {
	addr := c.fetchWord()
	c.Regs.WZ = addr
	if cond {
		c.Regs.PC = addr
	}
}

func (c *CPU) call(cond bool) {
	addr := c.fetchWord()
	c.Regs.WZ = addr
	if cond {
		c.internal(1)
		c.push16(c.Regs.PC)
		c.Regs.PC = addr
	}
}

func (c *CPU) retCond(cond bool) {
	c.internal(1)
	if cond {
		addr := c.pop16()
		c.Regs.PC = addr
		c.Regs.WZ = addr
	}
}

func (c *CPU) ret() {
	addr := c.pop16()
	c.Regs.PC = addr
	c.Regs.WZ = addr
}

func (c *CPU) rst(addr uint16) {
	c.internal(1)
	c.push16(c.Regs.PC)
	c.Regs.PC = addr
	c.Regs.WZ = addr
}

func (c *CPU) pushOp(v uint16) {
	c.internal(1)
	c.push16(v)
}

func (c *CPU) exSPHL(getPair func() uint16, setPair func(uint16)) {
	lo := c.readByte(c.Regs.SP)
	hi := c.readByte(c.Regs.SP + 1)
	old := getPair()
	c.writeByte(c.Regs.SP+1, uint8(old>>8))
	c.internal(1)
	c.writeByte(c.Regs.SP, uint8(old))
	c.internal(2)
	setPair(uint16(hi)<<8 | uint16(lo))
	c.Regs.WZ = uint16(hi)<<8 | uint16(lo)
}

// execBase dispatches a standard (unprefixed) opcode. The 0x40-0xBF blocks
// (LD r,r' and the ALU-A,r family) share the 3-bit register decode above;
// everything else is spelled out, matching the opcode table the way every
// reference Z80 disassembly lists it.
func (c *CPU) execBase(opcode uint8) {
	switch {
	case opcode == 0x76:
		c.halted = true
		return
	case opcode >= 0x40 && opcode <= 0x7F:
		dst := (opcode >> 3) & 0x07
		src := opcode & 0x07
		c.writeReg8(dst, c.readReg8(src))
		return
	case opcode >= 0x80 && opcode <= 0xBF:
		v := c.readReg8(opcode & 0x07)
		switch (opcode >> 3) & 0x07 {
		case 0:
			c.Regs.execAdd(v)
		case 1:
			c.Regs.execAdc(v)
		case 2:
			c.Regs.execSub(v)
		case 3:
			c.Regs.execSbc(v)
		case 4:
			c.Regs.execAnd(v)
		case 5:
			c.Regs.execXor(v)
		case 6:
			c.Regs.execOr(v)
		case 7:
			c.Regs.execCp(v)
		}
		return
	}

	switch opcode {
	case 0x00: // NOP
	case 0x01: // LD BC,nn
		c.Regs.SetBC(c.fetchWord())
	case 0x02: // LD (BC),A
		c.writeByte(c.Regs.BC(), c.Regs.A)
		c.Regs.WZ = uint16(c.Regs.A)<<8 | uint16(uint8(c.Regs.BC()+1))
	case 0x03: // INC BC
		c.Regs.SetBC(c.Regs.BC() + 1)
		c.internal(2)
	case 0x04:
		c.Regs.B = c.Regs.execInc(c.Regs.B)
	case 0x05:
		c.Regs.B = c.Regs.execDec(c.Regs.B)
	case 0x06:
		c.Regs.B = c.fetchByte()
	case 0x07:
		c.Regs.execRlca()
	case 0x08: // EX AF,AF'
		c.Regs.ExchangeAF()
	case 0x09:
		c.Regs.SetHL(c.Regs.execAddHL(c.Regs.HL(), c.Regs.BC()))
		c.internal(7)
	case 0x0A: // LD A,(BC)
		c.Regs.A = c.readByte(c.Regs.BC())
		c.Regs.WZ = c.Regs.BC() + 1
	case 0x0B:
		c.Regs.SetBC(c.Regs.BC() - 1)
		c.internal(2)
	case 0x0C:
		c.Regs.C = c.Regs.execInc(c.Regs.C)
	case 0x0D:
		c.Regs.C = c.Regs.execDec(c.Regs.C)
	case 0x0E:
		c.Regs.C = c.fetchByte()
	case 0x0F:
		c.Regs.execRrca()
	case 0x10:
		c.djnz()
	case 0x11:
		c.Regs.SetDE(c.fetchWord())
	case 0x12:
		c.writeByte(c.Regs.DE(), c.Regs.A)
		c.Regs.WZ = uint16(c.Regs.A)<<8 | uint16(uint8(c.Regs.DE()+1))
	case 0x13:
		c.Regs.SetDE(c.Regs.DE() + 1)
		c.internal(2)
	case 0x14:
		c.Regs.D = c.Regs.execInc(c.Regs.D)
	case 0x15:
		c.Regs.D = c.Regs.execDec(c.Regs.D)
	case 0x16:
		c.Regs.D = c.fetchByte()
	case 0x17:
		c.Regs.execRla()
	case 0x18:
		c.jr(true)
	case 0x19:
		c.Regs.SetHL(c.Regs.execAddHL(c.Regs.HL(), c.Regs.DE()))
		c.internal(7)
	case 0x1A:
		c.Regs.A = c.readByte(c.Regs.DE())
		c.Regs.WZ = c.Regs.DE() + 1
	case 0x1B:
		c.Regs.SetDE(c.Regs.DE() - 1)
		c.internal(2)
	case 0x1C:
		c.Regs.E = c.Regs.execInc(c.Regs.E)
	case 0x1D:
		c.Regs.E = c.Regs.execDec(c.Regs.E)
	case 0x1E:
		c.Regs.E = c.fetchByte()
	case 0x1F:
		c.Regs.execRra()
	case 0x20:
		c.jr(c.condition(0))
	case 0x21:
		c.Regs.SetHL(c.fetchWord())
	case 0x22:
		addr := c.fetchWord()
		c.writeWord(addr, c.Regs.HL())
		c.Regs.WZ = addr + 1
	case 0x23:
		c.Regs.SetHL(c.Regs.HL() + 1)
		c.internal(2)
	case 0x24:
		c.Regs.H = c.Regs.execInc(c.Regs.H)
	case 0x25:
		c.Regs.H = c.Regs.execDec(c.Regs.H)
	case 0x26:
		c.Regs.H = c.fetchByte()
	case 0x27:
		c.Regs.execDaa()
	case 0x28:
		c.jr(c.condition(1))
	case 0x29:
		c.Regs.SetHL(c.Regs.execAddHL(c.Regs.HL(), c.Regs.HL()))
		c.internal(7)
	case 0x2A:
		addr := c.fetchWord()
		c.Regs.SetHL(c.readWord(addr))
		c.Regs.WZ = addr + 1
	case 0x2B:
		c.Regs.SetHL(c.Regs.HL() - 1)
		c.internal(2)
	case 0x2C:
		c.Regs.L = c.Regs.execInc(c.Regs.L)
	case 0x2D:
		c.Regs.L = c.Regs.execDec(c.Regs.L)
	case 0x2E:
		c.Regs.L = c.fetchByte()
	case 0x2F:
		c.Regs.execCpl()
	case 0x30:
		c.jr(c.condition(2))
	case 0x31:
		c.Regs.SP = c.fetchWord()
	case 0x32:
		addr := c.fetchWord()
		c.writeByte(addr, c.Regs.A)
		c.Regs.WZ = uint16(c.Regs.A)<<8 | uint16(uint8(addr+1))
	case 0x33:
		c.Regs.SP++
		c.internal(2)
	case 0x34:
		addr := c.Regs.HL()
		v := c.readByte(addr)
		v = c.Regs.execInc(v)
		c.internal(1)
		c.writeByte(addr, v)
	case 0x35:
		addr := c.Regs.HL()
		v := c.readByte(addr)
		v = c.Regs.execDec(v)
		c.internal(1)
		c.writeByte(addr, v)
	case 0x36:
		v := c.fetchByte()
		c.writeByte(c.Regs.HL(), v)
	case 0x37:
		c.Regs.execScf()
	case 0x38:
		c.jr(c.condition(3))
	case 0x39:
		c.Regs.SetHL(c.Regs.execAddHL(c.Regs.HL(), c.Regs.SP))
		c.internal(7)
	case 0x3A:
		addr := c.fetchWord()
		c.Regs.A = c.readByte(addr)
		c.Regs.WZ = addr + 1
	case 0x3B:
		c.Regs.SP--
		c.internal(2)
	case 0x3C:
		c.Regs.A = c.Regs.execInc(c.Regs.A)
	case 0x3D:
		c.Regs.A = c.Regs.execDec(c.Regs.A)
	case 0x3E:
		c.Regs.A = c.fetchByte()
	case 0x3F:
		c.Regs.execCcf()

	case 0xC0:
		c.retCond(c.condition(0))
	case 0xC1:
		c.Regs.SetBC(c.pop16())
	case 0xC2:
		c.jp(c.condition(0))
	case 0xC3:
		c.jp(true)
	case 0xC4:
		c.call(c.condition(0))
	case 0xC5:
		c.pushOp(c.Regs.BC())
	case 0xC6:
		c.Regs.execAdd(c.fetchByte())
	case 0xC7:
		c.rst(0x00)
	case 0xC8:
		c.retCond(c.condition(1))
	case 0xC9:
		c.ret()
	case 0xCA:
		c.jp(c.condition(1))
	case 0xCB:
		panic(&InvariantViolation{Reason: "0xCB must be intercepted by the prefix dispatcher"})
	case 0xCC:
		c.call(c.condition(1))
	case 0xCD:
		c.call(true)
	case 0xCE:
		c.Regs.execAdc(c.fetchByte())
	case 0xCF:
		c.rst(0x08)
	case 0xD0:
		c.retCond(c.condition(2))
	case 0xD1:
		c.Regs.SetDE(c.pop16())
	case 0xD2:
		c.jp(c.condition(2))
	case 0xD3:
		port := uint16(c.Regs.A)<<8 | uint16(c.fetchByte())
		c.outPort(port, c.Regs.A)
		c.Regs.WZ = uint16(c.Regs.A)<<8 | uint16(uint8(port+1))
	case 0xD4:
		c.call(c.condition(2))
	case 0xD5:
		c.pushOp(c.Regs.DE())
	case 0xD6:
		c.Regs.execSub(c.fetchByte())
	case 0xD7:
		c.rst(0x10)
	case 0xD8:
		c.retCond(c.condition(3))
	case 0xD9:
		c.Regs.Exchange()
	case 0xDA:
		c.jp(c.condition(3))
	case 0xDB:
		port := uint16(c.Regs.A)<<8 | uint16(c.fetchByte())
		c.Regs.A = c.inPort(port)
		c.Regs.WZ = port + 1
	case 0xDC:
		c.call(c.condition(3))
	case 0xDD:
		panic(&InvariantViolation{Reason: "0xDD must be intercepted by the prefix dispatcher"})
	case 0xDE:
		c.Regs.execSbc(c.fetchByte())
	case 0xDF:
		c.rst(0x18)
	case 0xE0:
		c.retCond(c.condition(4))
	case 0xE1:
		c.Regs.SetHL(c.pop16())
	case 0xE2:
		c.jp(c.condition(4))
	case 0xE3:
		c.exSPHL(c.Regs.HL, c.Regs.SetHL)
	case 0xE4:
		c.call(c.condition(4))
	case 0xE5:
		c.pushOp(c.Regs.HL())
	case 0xE6:
		c.Regs.execAnd(c.fetchByte())
	case 0xE7:
		c.rst(0x20)
	case 0xE8:
		c.retCond(c.condition(5))
	case 0xE9:
		c.Regs.PC = c.Regs.HL()
	case 0xEA:
		c.jp(c.condition(5))
	case 0xEB:
		hl := c.Regs.HL()
		c.Regs.SetHL(c.Regs.DE())
		c.Regs.SetDE(hl)
	case 0xEC:
		c.call(c.condition(5))
	case 0xED:
		panic(&InvariantViolation{Reason: "0xED must be intercepted by the prefix dispatcher"})
	case 0xEE:
		c.Regs.execXor(c.fetchByte())
	case 0xEF:
		c.rst(0x28)
	case 0xF0:
		c.retCond(c.condition(6))
	case 0xF1:
		c.Regs.SetAF(c.pop16())
	case 0xF2:
		c.jp(c.condition(6))
	case 0xF3:
		c.Regs.IFF1 = false
		c.Regs.IFF2 = false
	case 0xF4:
		c.call(c.condition(6))
	case 0xF5:
		c.pushOp(c.Regs.AF())
	case 0xF6:
		c.Regs.execOr(c.fetchByte())
	case 0xF7:
		c.rst(0x30)
	case 0xF8:
		c.retCond(c.condition(7))
	case 0xF9:
		c.Regs.SP = c.Regs.HL()
		c.internal(2)
	case 0xFA:
		c.jp(c.condition(7))
	case 0xFB:
		c.Regs.IFF1 = true
		c.Regs.IFF2 = true
		c.eiDelay = true
	case 0xFC:
		c.call(c.condition(7))
	case 0xFD:
		panic(&InvariantViolation{Reason: "0xFD must be intercepted by the prefix dispatcher"})
	case 0xFE:
		c.Regs.execCp(c.fetchByte())
	case 0xFF:
		c.rst(0x38)
	default:
		panic(&InvariantViolation{Reason: "unreachable opcode in execBase"})
	}
}
