// Package ppu implements the register-facing, scanline-driven skeleton
// of the NES Picture Processing Unit: OAM, video memory addressing,
// and the scanline state machine that emits NMI at the start of
// vertical blank. It does not composite pixels - pattern/nametable/
// sprite rendering is out of scope (see SPEC_FULL.md §1).
package ppu

const (
	oamSize      = 256
	nametableSize = 2048
	paletteSize  = 32

	// cyclesPerScanline is 341 PPU dots at 3 dots per CPU cycle,
	// truncated - the same (341/3) constant the reference PPU step
	// uses, including its small known timing drift.
	cyclesPerScanline = 341 / 3

	scanlineVisibleEnd = 239
	scanlinePostRender = 240
	scanlineVBlankEnd  = 260
	scanlinePreRender  = 261
)

// ScanlineMode identifies which phase of the 262-line frame the PPU
// is currently in.
type ScanlineMode uint8

const (
	Visible ScanlineMode = iota
	PostRender
	VerticalBlanking
	PreRender
)

func modeFor(scanline int) ScanlineMode {
	switch {
	case scanline <= scanlineVisibleEnd:
		return Visible
	case scanline == scanlinePostRender:
		return PostRender
	case scanline <= scanlineVBlankEnd:
		return VerticalBlanking
	default:
		return PreRender
	}
}

// Mirroring selects how nametable addresses alias onto the PPU's 2KiB
// of video RAM, mirroring the cartridge's wiring.
type Mirroring uint8

const (
	Horizontal Mirroring = iota
	Vertical
	FourScreen
)

// VideoBus is the PPU's view of pattern-table memory: addresses below
// 0x2000 forward to the cartridge's CHR space. The PPU never writes
// pattern data itself (CHR is typically ROM), but the interface
// allows CHR-RAM cartridges to be driven the same way.
type VideoBus interface {
	ChrRead(addr uint16) uint8
	ChrWrite(addr uint16, data uint8)
}

// RegisterSource is the typed surface a bus.Bus exposes over the raw
// PPU ports - latch state and request flags live there, not here, per
// SPEC_FULL.md's Design Notes. The PPU depends only on this narrow
// interface shape, never importing package bus.
type RegisterSource interface {
	NameTableBase() uint16
	VRAMIncrement() uint16
	SpritePatternBase() uint16
	BackgroundPatternBase() uint16
	SpriteHeight() int
	NMIEnabled() bool

	OnVBlank(set bool)
	OnSprite0(set bool)
	OnOverflow(set bool)

	OAMAddr() uint8
	OAMData() (data uint8, readReq, writeReq bool)
	WriteOAMData(v uint8)

	Scroll() (x, y uint8, request bool)
	Address() (addr uint16, request bool)
	Data() (data uint8, readReq, writeReq bool)
	WriteData(v uint8)
	IncrementAddress()
}

// Interrupt is what Step returns when the PPU wants to signal the CPU.
type Interrupt uint8

const (
	NoInterrupt Interrupt = iota
	NMI
)

// PPU holds OAM, video memory, and scanline position. It has no
// reference back to the CPU - interrupts are returned as data from
// Step, and the frame driver (package nes) is responsible for
// delivering them, per the cooperative single-threaded model.
type PPU struct {
	video     VideoBus
	mirroring Mirroring

	oam   [oamSize]uint8
	vram  [nametableSize]uint8
	pal   [paletteSize]uint8

	scrollX, scrollY uint8

	scanline   int
	lineCycles int
	mode       ScanlineMode
}

// New creates a PPU driving video through vb, with the given
// nametable mirroring mode. It starts in the pre-render line, as real
// hardware does on power-up.
func New(vb VideoBus, mirroring Mirroring) *PPU {
	return &PPU{
		video:     vb,
		mirroring: mirroring,
		scanline:  scanlinePreRender,
		mode:      PreRender,
	}
}

// Reset returns the PPU to its power-on scanline position without
// touching OAM/video memory contents.
func (p *PPU) Reset() {
	p.scanline = scanlinePreRender
	p.lineCycles = 0
	p.mode = PreRender
}

func (p *PPU) Scanline() int        { return p.scanline }
func (p *PPU) Mode() ScanlineMode   { return p.mode }
func (p *PPU) Mirroring() Mirroring { return p.mirroring }

// Palette exposes the 64-entry NES system palette as ambient
// reference data. The PPU never uses it to composite pixels - any
// presentation layer that wants to turn a palette index into an RGB
// triple can look it up here.
func (p *PPU) Palette(index uint8) (r, g, b uint8) {
	c := SystemPalette[index%64]
	return c[0], c[1], c[2]
}

// Step drains whatever the bus has latched since the last call
// (scroll, address, data with write precedence, OAM with write
// precedence), advances the scanline/cycle position by cpuCycles
// worth of PPU dots, and returns an interrupt if one should be
// delivered to the CPU.
//
// The drain order matches the reference PPU's step(): scroll, then
// address, then data, then OAM, then scanline advance.
func (p *PPU) Step(cpuCycles uint8, regs RegisterSource) Interrupt {
	p.drainScroll(regs)
	p.drainData(regs)
	p.drainOAM(regs)

	return p.advance(cpuCycles, regs)
}

func (p *PPU) drainScroll(regs RegisterSource) {
	if x, y, ok := regs.Scroll(); ok {
		p.scrollX, p.scrollY = x, y
	}
}

func (p *PPU) drainData(regs RegisterSource) {
	data, readReq, writeReq := regs.Data()
	addr, _ := regs.Address()

	switch {
	case writeReq:
		p.writeVideo(addr, data)
		regs.IncrementAddress()
	case readReq:
		regs.WriteData(p.readVideo(addr))
		regs.IncrementAddress()
	}
}

func (p *PPU) drainOAM(regs RegisterSource) {
	data, readReq, writeReq := regs.OAMData()
	addr := regs.OAMAddr()

	switch {
	case writeReq:
		p.oam[addr] = data
	case readReq:
		regs.WriteOAMData(p.oam[addr])
	}
}

// advance moves the scanline/cycle position forward by cpuCycles CPU
// cycles' worth of PPU dots, emitting NMI the instant VBlank begins
// (if the bus has NMI generation enabled) and clearing status flags
// at the start of the pre-render line, matching the reference PPU.
func (p *PPU) advance(cpuCycles uint8, regs RegisterSource) Interrupt {
	result := NoInterrupt

	p.lineCycles += int(cpuCycles)
	for p.lineCycles >= cyclesPerScanline {
		p.lineCycles -= cyclesPerScanline
		prevMode := p.mode
		p.scanline++
		if p.scanline > scanlinePreRender {
			p.scanline = 0
		}
		p.mode = modeFor(p.scanline)

		if prevMode != VerticalBlanking && p.mode == VerticalBlanking {
			regs.OnVBlank(true)
			if regs.NMIEnabled() {
				result = NMI
			}
		}

		if p.mode == PreRender {
			regs.OnVBlank(false)
			regs.OnSprite0(false)
			regs.OnOverflow(false)
		}
	}

	return result
}

// mirrorNametable maps a nametable address (already offset from
// 0x2000) onto this PPU's 2KiB of video RAM according to Mirroring.
func (p *PPU) mirrorNametable(offset uint16) uint16 {
	switch p.mirroring {
	case Horizontal:
		if offset >= 0x800 {
			return 0x400 + (offset-0x800)%0x400
		}
		return offset % 0x400
	case Vertical:
		return offset % 0x800
	default: // FourScreen: no extra cartridge VRAM modeled, wrap at 2KiB
		return offset % nametableSize
	}
}

const (
	addrPatternEnd = 0x2000
	addrNameEnd    = 0x3F00
	addrPaletteRAM = 0x3F00
)

func (p *PPU) readVideo(addr uint16) uint8 {
	a := addr % 0x4000
	switch {
	case a < addrPatternEnd:
		return p.video.ChrRead(a)
	case a < addrNameEnd:
		return p.vram[p.mirrorNametable(a-addrPatternEnd)]
	default:
		return p.pal[(a-addrPaletteRAM)%paletteSize]
	}
}

func (p *PPU) writeVideo(addr uint16, data uint8) {
	a := addr % 0x4000
	switch {
	case a < addrPatternEnd:
		p.video.ChrWrite(a, data)
	case a < addrNameEnd:
		p.vram[p.mirrorNametable(a-addrPatternEnd)] = data
	default:
		p.pal[(a-addrPaletteRAM)%paletteSize] = data
	}
}
