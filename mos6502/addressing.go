package mos6502

// AddressingMode identifies how an instruction's operand bytes are
// turned into an address and a value.
// https://www.nesdev.org/obelisk-6502-guide/addressing.html
type AddressingMode uint8

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX // Indexed Indirect: (zp,X)
	IndirectY // Indirect Indexed: (zp),Y
)

var modeNames = map[AddressingMode]string{
	Implied: "Implied", Accumulator: "Accumulator", Immediate: "Immediate",
	ZeroPage: "ZeroPage", ZeroPageX: "ZeroPageX", ZeroPageY: "ZeroPageY",
	Relative: "Relative", Absolute: "Absolute", AbsoluteX: "AbsoluteX",
	AbsoluteY: "AbsoluteY", Indirect: "Indirect", IndirectX: "IndirectX",
	IndirectY: "IndirectY",
}

func (m AddressingMode) String() string { return modeNames[m] }

// Operand is the result of fetching an instruction's addressing-mode
// bytes: the effective address, the byte currently stored there, and
// any cycle penalty the addressing mode itself contributes (page
// crossings). Implied operands carry no address or data; Accumulator
// operands carry A as Data and no address.
type Operand struct {
	Address     uint16
	Data        uint8
	ExtraCycles uint8
}

// getOperandAddr resolves mode against the byte(s) at PC (without
// advancing PC - Step skips the operand bytes once the instruction
// has run) into an effective address, folding any
// page-crossing penalty into c.cycles directly, matching how Step
// already accounts for extra cycles.
//
// Indirect, IndirectX and IndirectY deliberately reproduce the 6502's
// page-wrap pointer bug: a two-byte pointer that lives at the end of
// a page does not carry into the next page when its high byte is
// fetched - the real hardware wraps within the same page instead.
func (c *CPU) getOperandAddr(mode AddressingMode) uint16 {
	switch mode {
	case Immediate:
		return c.PC
	case ZeroPage:
		return uint16(c.read8(c.PC))
	case ZeroPageX:
		return uint16(c.read8(c.PC) + c.X)
	case ZeroPageY:
		return uint16(c.read8(c.PC) + c.Y)
	case Absolute:
		return c.read16(c.PC)
	case AbsoluteX:
		base := c.read16(c.PC)
		addr := base + uint16(c.X)
		c.cycles += extraCycles(base, addr)
		return addr
	case AbsoluteY:
		base := c.read16(c.PC)
		addr := base + uint16(c.Y)
		c.cycles += extraCycles(base, addr)
		return addr
	case Indirect:
		return c.readPointerPageWrapped(c.read16(c.PC))
	case IndirectX:
		zp := c.read8(c.PC) + c.X
		return c.readZeroPagePointer(zp)
	case IndirectY:
		zp := c.read8(c.PC)
		base := c.readZeroPagePointer(zp)
		addr := base + uint16(c.Y)
		c.cycles += extraCycles(base, addr)
		return addr
	case Relative:
		return c.relativeTarget()
	case Accumulator, Implied:
		panic("addressing mode " + mode.String() + " has no operand address")
	default:
		panic("invalid addressing mode")
	}
}

// readZeroPagePointer reads a 16-bit pointer stored at zero-page
// address zp, wrapping the high-byte fetch within the zero page
// (0xFF -> 0x00) instead of spilling into page one - the documented
// 6502 bug that IndirectX/IndirectY both inherit.
func (c *CPU) readZeroPagePointer(zp uint8) uint16 {
	lo := uint16(c.read8(uint16(zp)))
	hi := uint16(c.read8(uint16(zp + 1)))
	return lo | (hi << 8)
}

// readPointerPageWrapped reads the 16-bit value stored at ptr, but -
// reproducing the JMP ($xxFF) hardware bug - fetches the high byte
// from the start of the same page rather than the next page when the
// pointer's low byte is 0xFF.
func (c *CPU) readPointerPageWrapped(ptr uint16) uint16 {
	lo := uint16(c.read8(ptr))
	hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
	hi := uint16(c.read8(hiAddr))
	return lo | (hi << 8)
}

// relativeTarget resolves a branch instruction's signed, PC-relative
// operand. The 6502 has already advanced PC past the opcode byte by
// the time this runs, so the displacement is relative to the address
// of the byte *after* the operand.
func (c *CPU) relativeTarget() uint16 {
	return (c.PC + 1) + uint16(int8(c.read8(c.PC)))
}

// fetchOperand produces the full Operand for mode, reading through
// memory as needed. Accumulator and Implied modes never touch
// memory.
func (c *CPU) fetchOperand(mode AddressingMode) Operand {
	switch mode {
	case Implied:
		return Operand{}
	case Accumulator:
		return Operand{Data: c.A}
	default:
		before := c.cycles
		addr := c.getOperandAddr(mode)
		return Operand{Address: addr, Data: c.read8(addr), ExtraCycles: c.cycles - before}
	}
}
