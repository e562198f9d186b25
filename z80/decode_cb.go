package z80

// execCB dispatches a CB-prefixed opcode (rotate/shift, BIT, RES, SET over
// the 8 register-or-(HL) operands). Register forms reuse readReg8/writeReg8
// from decode_base.go; the (HL) form pays one extra internal T-state the
// register forms don't, to reach the documented 15T (rotate/shift, RES,
// SET) or 12T (BIT) totals.
func (c *CPU) execCB(opcode uint8) {
	idx := opcode & 0x07
	bit := (opcode >> 3) & 0x07
	group := opcode >> 6

	switch group {
	case 0: // rotate/shift
		v := c.readReg8(idx)
		var result uint8
		switch bit {
		case 0:
			result = c.Regs.execRlc(v)
		case 1:
			result = c.Regs.execRrc(v)
		case 2:
			result = c.Regs.execRl(v)
		case 3:
			result = c.Regs.execRr(v)
		case 4:
			result = c.Regs.execSla(v)
		case 5:
			result = c.Regs.execSra(v)
		case 6:
			result = c.Regs.execSll(v)
		case 7:
			result = c.Regs.execSrl(v)
		}
		if idx == 6 {
			c.internal(1)
		}
		c.writeReg8(idx, result)

	case 1: // BIT n,r
		v := c.readReg8(idx)
		flags53Source := v
		if idx == 6 {
			flags53Source = uint8(c.Regs.WZ >> 8)
			c.internal(1)
		}
		c.Regs.execBit(v, bit, flags53Source)

	case 2: // RES n,r
		v := c.readReg8(idx) &^ (uint8(1) << bit)
		if idx == 6 {
			c.internal(1)
		}
		c.writeReg8(idx, v)

	case 3: // SET n,r
		v := c.readReg8(idx) | (uint8(1) << bit)
		if idx == 6 {
			c.internal(1)
		}
		c.writeReg8(idx, v)
	}
}
