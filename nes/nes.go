// Package nes assembles a CPU, system bus, and PPU skeleton into a
// single console and drives them through whole frames.
package nes

import (
	"fmt"

	"github.com/sixfiveoh/nesgo/bus"
	"github.com/sixfiveoh/nesgo/mappers"
	"github.com/sixfiveoh/nesgo/mos6502"
	"github.com/sixfiveoh/nesgo/nesrom"
	"github.com/sixfiveoh/nesgo/ppu"
)

// CPUCyclesPerFrame is the number of CPU cycles a frame is driven for:
// (341/3) CPU cycles per scanline (341 PPU dots at 3 dots per CPU
// cycle, truncated to 113), times 241 scanlines (the 240 visible
// lines plus the post-render line). This
// matches the PPU's own per-scanline constant and carries the same
// small drift against the true NTSC 29780.67 cycles/frame - the drift
// is inherited, not corrected.
const CPUCyclesPerFrame = (341 / 3) * (240 + 1)

// nullVideo backs a Console with no CHR data attached - the
// configuration unit tests that don't load a ROM run under.
type nullVideo struct{}

func (nullVideo) ChrRead(addr uint16) uint8      { return 0 }
func (nullVideo) ChrWrite(addr uint16, v uint8)  {}

// Console wires a CPU, system bus, and PPU skeleton to a cartridge
// mapper and steps them together one frame at a time.
type Console struct {
	cpu *mos6502.CPU
	bus *bus.Bus
	ppu *ppu.PPU

	cart   mappers.Mapper
	cycles uint64
}

// New creates a Console with no cartridge attached; addresses at or
// above 0x4000 fall back to RAM-mod addressing on the bus, and the PPU
// reads/writes CHR as all-zero.
func New() *Console {
	b := bus.New()
	p := ppu.New(nullVideo{}, ppu.Horizontal)
	c := mos6502.New(b)

	return &Console{cpu: c, bus: b, ppu: p}
}

// NewFromROM parses the iNES image at path, resolves its mapper, and
// returns a Console ready to run it.
func NewFromROM(path string) (*Console, error) {
	rom, err := nesrom.New(path)
	if err != nil {
		return nil, fmt.Errorf("loading cartridge: %w", err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		return nil, fmt.Errorf("resolving mapper: %w", err)
	}

	b := bus.New()
	b.AttachCartridge(m)

	mirroring := ppu.Horizontal
	switch m.MirroringMode() {
	case nesrom.MirrorVertical:
		mirroring = ppu.Vertical
	case nesrom.MirrorFourScreen:
		mirroring = ppu.FourScreen
	}
	p := ppu.New(videoBus{m}, mirroring)
	c := mos6502.New(b)

	return &Console{cpu: c, bus: b, ppu: p, cart: m}, nil
}

// videoBus adapts a mappers.Mapper's ChrRead/ChrWrite onto ppu.VideoBus.
type videoBus struct{ m mappers.Mapper }

func (v videoBus) ChrRead(addr uint16) uint8     { return v.m.ChrRead(addr) }
func (v videoBus) ChrWrite(addr uint16, d uint8) { v.m.ChrWrite(addr, d) }

// Reset returns the CPU and PPU to their power-on state and zeroes the
// cycle counter.
func (c *Console) Reset() {
	c.cpu.Reset()
	c.ppu.Reset()
	c.cycles = 0
}

// CPU, PPU, and Bus expose the assembled components for tests and
// diagnostic tooling that need direct access.
func (c *Console) CPU() *mos6502.CPU { return c.cpu }
func (c *Console) PPU() *ppu.PPU     { return c.ppu }
func (c *Console) Bus() *bus.Bus     { return c.bus }
func (c *Console) Cycles() uint64    { return c.cycles }

// StepInstruction executes exactly one CPU instruction, steps the PPU
// by the cycles it consumed, and delivers any interrupt the PPU raised
// on the CPU's *next* instruction boundary - the cooperative,
// single-threaded co-stepping model described in SPEC_FULL.md's
// frame driver.
func (c *Console) StepInstruction() (uint8, error) {
	used, err := c.cpu.Step()
	if err != nil {
		return used, err
	}

	if interrupt := c.ppu.Step(used, c.bus.Registers()); interrupt == ppu.NMI {
		c.cpu.Interrupt(mos6502.InterruptNMI)
	}

	c.cycles += uint64(used)
	return used, nil
}

// StepFrame runs instructions until at least CPUCyclesPerFrame CPU
// cycles have been consumed since the last call, then returns. The
// cycle budget is a floor, not an exact boundary - the final
// instruction of a frame may overrun it by a few cycles, matching how
// the reference frame driver accounts for variable instruction length.
func (c *Console) StepFrame() error {
	var consumed uint64
	for consumed < CPUCyclesPerFrame {
		used, err := c.StepInstruction()
		if err != nil {
			return err
		}
		consumed += uint64(used)
	}
	return nil
}
