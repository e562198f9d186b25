package z80

// Index-register accessors, selected once per DD/FD-prefixed instruction by
// the useIY flag the dispatcher passes down.
func (c *CPU) idxReg(useIY bool) uint16 {
	if useIY {
		return c.Regs.IY
	}
	return c.Regs.IX
}

func (c *CPU) setIdxReg(useIY bool, v uint16) {
	if useIY {
		c.Regs.IY = v
	} else {
		c.Regs.IX = v
	}
}

func (c *CPU) idxHigh(useIY bool) uint8 {
	if useIY {
		return c.Regs.IYH()
	}
	return c.Regs.IXH()
}

func (c *CPU) setIdxHigh(useIY bool, v uint8) {
	if useIY {
		c.Regs.SetIYH(v)
	} else {
		c.Regs.SetIXH(v)
	}
}

func (c *CPU) idxLow(useIY bool) uint8 {
	if useIY {
		return c.Regs.IYL()
	}
	return c.Regs.IXL()
}

func (c *CPU) setIdxLow(useIY bool, v uint8) {
	if useIY {
		c.Regs.SetIYL(v)
	} else {
		c.Regs.SetIXL(v)
	}
}

// indexedAddr reads the instruction's displacement byte and spends the 5
// T-states real hardware burns computing IX+d/IY+d before touching memory,
// latching the result into WZ (every indexed memory reference does).
func (c *CPU) indexedAddr(useIY bool) uint16 {
	d := int8(c.fetchByte())
	c.internal(5)
	addr := uint16(int32(c.idxReg(useIY)) + int32(d))
	c.Regs.WZ = addr
	return addr
}

// readIndexedSrc reads the one-operand form used by the 0x80-0xBF ALU
// block: (IX+d)/(IY+d) for index 6, the matching half-register for 4/5,
// the real B/C/D/E/A register otherwise.
func (c *CPU) readIndexedSrc(idx uint8, useIY bool) uint8 {
	switch idx {
	case 6:
		return c.readByte(c.indexedAddr(useIY))
	case 4:
		return c.idxHigh(useIY)
	case 5:
		return c.idxLow(useIY)
	default:
		return c.readReg8(idx)
	}
}

// execIndexedLD implements the 0x40-0x7F LD r,r' block under a DD/FD
// prefix. Z80 hardware applies the IXH/IXL (or IYH/IYL) substitution only
// when NEITHER operand is a memory reference; the moment either side is
// (HL) -> (IX+d)/(IY+d), the other side's H/L reference reverts to meaning
// the real H/L register, not the index half (see DESIGN.md).
func (c *CPU) execIndexedLD(dst, src uint8, useIY bool) {
	if dst == 6 {
		addr := c.indexedAddr(useIY)
		c.writeByte(addr, c.readReg8(src))
		return
	}
	if src == 6 {
		addr := c.indexedAddr(useIY)
		v := c.readByte(addr)
		c.writeReg8(dst, v)
		return
	}

	var v uint8
	switch src {
	case 4:
		v = c.idxHigh(useIY)
	case 5:
		v = c.idxLow(useIY)
	default:
		v = c.readReg8(src)
	}
	switch dst {
	case 4:
		c.setIdxHigh(useIY, v)
	case 5:
		c.setIdxLow(useIY, v)
	default:
		c.writeReg8(dst, v)
	}
}

// execIndexed dispatches a terminal DD/FD-prefixed opcode (everything
// except the CB sub-prefix, handled separately by execIndexedCB). Opcodes
// that don't reference H, L, or (HL) behave exactly as the unprefixed
// instruction and fall straight through to execBase — on real silicon the
// DD/FD byte just wastes 4 T-states ahead of an otherwise ordinary
// instruction.
func (c *CPU) execIndexed(opcode uint8, useIY bool) {
	switch {
	case opcode == 0x76:
		c.execBase(opcode)
		return
	case opcode >= 0x40 && opcode <= 0x7F:
		c.execIndexedLD((opcode>>3)&0x07, opcode&0x07, useIY)
		return
	case opcode >= 0x80 && opcode <= 0xBF:
		v := c.readIndexedSrc(opcode&0x07, useIY)
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
	case 0x09:
		c.setIdxReg(useIY, c.Regs.execAddHL(c.idxReg(useIY), c.Regs.BC()))
		c.internal(7)
	case 0x19:
		c.setIdxReg(useIY, c.Regs.execAddHL(c.idxReg(useIY), c.Regs.DE()))
		c.internal(7)
	case 0x21:
		c.setIdxReg(useIY, c.fetchWord())
	case 0x22:
		addr := c.fetchWord()
		c.writeWord(addr, c.idxReg(useIY))
		c.Regs.WZ = addr + 1
	case 0x23:
		c.setIdxReg(useIY, c.idxReg(useIY)+1)
		c.internal(2)
	case 0x24:
		c.setIdxHigh(useIY, c.Regs.execInc(c.idxHigh(useIY)))
	case 0x25:
		c.setIdxHigh(useIY, c.Regs.execDec(c.idxHigh(useIY)))
	case 0x26:
		c.setIdxHigh(useIY, c.fetchByte())
	case 0x29:
		v := c.idxReg(useIY)
		c.setIdxReg(useIY, c.Regs.execAddHL(v, v))
		c.internal(7)
	case 0x2A:
		addr := c.fetchWord()
		c.setIdxReg(useIY, c.readWord(addr))
		c.Regs.WZ = addr + 1
	case 0x2B:
		c.setIdxReg(useIY, c.idxReg(useIY)-1)
		c.internal(2)
	case 0x2C:
		c.setIdxLow(useIY, c.Regs.execInc(c.idxLow(useIY)))
	case 0x2D:
		c.setIdxLow(useIY, c.Regs.execDec(c.idxLow(useIY)))
	case 0x2E:
		c.setIdxLow(useIY, c.fetchByte())
	case 0x34:
		addr := c.indexedAddr(useIY)
		v := c.Regs.execInc(c.readByte(addr))
		c.internal(1)
		c.writeByte(addr, v)
	case 0x35:
		addr := c.indexedAddr(useIY)
		v := c.Regs.execDec(c.readByte(addr))
		c.internal(1)
		c.writeByte(addr, v)
	case 0x36:
		d := int8(c.fetchByte())
		c.internal(2)
		n := c.fetchByte()
		addr := uint16(int32(c.idxReg(useIY)) + int32(d))
		c.Regs.WZ = addr
		c.writeByte(addr, n)
	case 0x39:
		c.setIdxReg(useIY, c.Regs.execAddHL(c.idxReg(useIY), c.Regs.SP))
		c.internal(7)
	case 0xE1:
		c.setIdxReg(useIY, c.pop16())
	case 0xE3:
		c.exSPHL(func() uint16 { return c.idxReg(useIY) }, func(v uint16) { c.setIdxReg(useIY, v) })
	case 0xE5:
		c.pushOp(c.idxReg(useIY))
	case 0xE9:
		c.Regs.PC = c.idxReg(useIY)
	case 0xF9:
		c.Regs.SP = c.idxReg(useIY)
		c.internal(2)
	default:
		c.execBase(opcode)
	}
}

// execIndexedCB implements the DD CB d op / FD CB d op sub-table: rotate/
// shift, BIT, RES, and SET over (IX+d)/(IY+d), including the undocumented
// "copy result into a register" side effect that rotate/shift, RES, and SET
// opcode bytes with a register field other than 6 carry (BIT never copies).
func (c *CPU) execIndexedCB(useIY bool) {
	d := int8(c.fetchByte())
	opByte := c.fetchByte()
	c.internal(2)

	addr := uint16(int32(c.idxReg(useIY)) + int32(d))
	c.Regs.WZ = addr
	value := c.readByte(addr)

	destIdx := opByte & 0x07
	bit := (opByte >> 3) & 0x07
	group := opByte >> 6

	storeBack := func(result uint8) {
		c.internal(1)
		c.writeByte(addr, result)
		if destIdx != 6 {
			c.writeReg8(destIdx, result)
		}
	}

	switch group {
	case 0:
		var result uint8
		switch bit {
		case 0:
			result = c.Regs.execRlc(value)
		case 1:
			result = c.Regs.execRrc(value)
		case 2:
			result = c.Regs.execRl(value)
		case 3:
			result = c.Regs.execRr(value)
		case 4:
			result = c.Regs.execSla(value)
		case 5:
			result = c.Regs.execSra(value)
		case 6:
			result = c.Regs.execSll(value)
		case 7:
			result = c.Regs.execSrl(value)
		}
		storeBack(result)
	case 1:
		c.Regs.execBit(value, bit, uint8(addr>>8))
		c.internal(1)
	case 2:
		storeBack(value &^ (uint8(1) << bit))
	case 3:
		storeBack(value | (uint8(1) << bit))
	}
}
