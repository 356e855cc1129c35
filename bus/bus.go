// Package bus implements the NES system bus: the memory-mapped address
// space the CPU drives, decoding reads and writes across RAM mirrors,
// PPU register ports, and (when attached) cartridge space.
package bus

const (
	ramSize     = 0x0800 // 2KiB of console RAM, mirrored through 0x1FFF
	ppuPortLow  = 0x2000
	ppuPortHigh = 0x4000
	oamDMAPort  = 0x4014
	ppuOAMData  = 0x2004
	ppuPortSpan = 8 // PPU ports repeat every 8 bytes through 0x3FFF
)

// Cartridge is the optional mapper-backed collaborator a Bus can be
// attached to. When nil, addresses at or above 0x4000 fall back to
// RAM-mod addressing instead (see Design Notes in SPEC_FULL.md), the
// configuration every bare CPU/bus unit test in this module runs
// under.
type Cartridge interface {
	PrgRead(addr uint16) uint8
	PrgWrite(addr uint16, val uint8)
}

// Bus is the NES's address-decoded memory space, plus the latched
// register state the PPU consumes through Controller (see
// registers.go).
type Bus struct {
	ram  [ramSize]byte
	cart Cartridge

	regs ppuRegisters
}

// New creates a bus with no cartridge attached - the bare-bus
// configuration used by CPU/bus unit tests.
func New() *Bus {
	return &Bus{}
}

// NewWithCartridge creates a bus backed by a real cartridge mapper,
// the configuration the CLI drives.
func NewWithCartridge(cart Cartridge) *Bus {
	return &Bus{cart: cart}
}

// AttachCartridge wires a cartridge into a bus created with New,
// switching address decode above 0x4000 from the RAM-mod fallback to
// PRG routing.
func (b *Bus) AttachCartridge(cart Cartridge) { b.cart = cart }

// ReadU8 decodes addr and returns the byte stored there. Reads of
// some PPU ports (0x2002, 0x2004, 0x2007) have side effects - this is
// not a pure accessor.
func (b *Bus) ReadU8(addr uint16) uint8 {
	switch {
	case addr < ppuPortLow:
		return b.ram[addr%ramSize]
	case addr < ppuPortHigh:
		return b.regs.read((addr - ppuPortLow) % ppuPortSpan)
	case b.cart != nil:
		return b.cart.PrgRead(addr)
	default:
		return b.ram[addr%ramSize]
	}
}

// WriteU8 decodes addr and stores data there, latching PPU register
// side effects as described in SPEC_FULL.md §3.3/§4.1.
func (b *Bus) WriteU8(addr uint16, data uint8) {
	switch {
	case addr < ppuPortLow:
		b.ram[addr%ramSize] = data
	case addr < ppuPortHigh:
		b.regs.write((addr-ppuPortLow)%ppuPortSpan, data)
	case addr == oamDMAPort:
		b.oamDMA(data)
	case b.cart != nil:
		b.cart.PrgWrite(addr, data)
	default:
		b.ram[addr%ramSize] = data
	}
}

// oamDMA copies the 256-byte page starting at val<<8 into the OAMDATA
// port one byte at a time, the same transfer real OAM DMA performs.
func (b *Bus) oamDMA(val uint8) {
	base := uint16(val) << 8
	for i := uint16(0); i < 256; i++ {
		b.WriteU8(ppuOAMData, b.ReadU8(base+i))
	}
}

// Registers exposes the PPU-visible register surface for a ppu.PPU to
// consume; it satisfies ppu.RegisterSource without this package
// importing ppu.
func (b *Bus) Registers() *ppuRegisters { return &b.regs }
