package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Local stand-ins for the PPUCTRL/PPUSTATUS bits package bus keeps
// private - fakeRegisters models the same semantics without depending
// on bus's unexported constants.
const (
	ctrlNMIEnable = 1 << 7

	statusOverflow = 1 << 5
	statusSprite0  = 1 << 6
	statusVBlank   = 1 << 7
)

// fakeRegisters is a minimal RegisterSource double for driving Step()
// directly, without going through package bus.
type fakeRegisters struct {
	ctrl   uint8
	status uint8

	oamAddr  uint8
	oamByte  uint8
	oamRead  bool
	oamWrite bool

	scrollX, scrollY uint8
	scrollReq        bool

	addr    uint16
	addrReq bool

	dataByte  uint8
	dataRead  bool
	dataWrite bool
}

func (f *fakeRegisters) NameTableBase() uint16          { return 0x2000 }
func (f *fakeRegisters) VRAMIncrement() uint16          { return 1 }
func (f *fakeRegisters) SpritePatternBase() uint16      { return 0 }
func (f *fakeRegisters) BackgroundPatternBase() uint16  { return 0 }
func (f *fakeRegisters) SpriteHeight() int              { return 8 }
func (f *fakeRegisters) NMIEnabled() bool               { return f.ctrl&ctrlNMIEnable != 0 }

func (f *fakeRegisters) OnVBlank(set bool) {
	if set {
		f.status |= statusVBlank
	} else {
		f.status &^= statusVBlank
	}
}
func (f *fakeRegisters) OnSprite0(set bool) {
	if set {
		f.status |= statusSprite0
	} else {
		f.status &^= statusSprite0
	}
}
func (f *fakeRegisters) OnOverflow(set bool) {
	if set {
		f.status |= statusOverflow
	} else {
		f.status &^= statusOverflow
	}
}

func (f *fakeRegisters) OAMAddr() uint8 { return f.oamAddr }
func (f *fakeRegisters) OAMData() (data uint8, readReq, writeReq bool) {
	data, readReq, writeReq = f.oamByte, f.oamRead, f.oamWrite
	f.oamRead, f.oamWrite = false, false
	return
}
func (f *fakeRegisters) WriteOAMData(v uint8) { f.oamByte = v }

func (f *fakeRegisters) Scroll() (x, y uint8, request bool) {
	x, y, request = f.scrollX, f.scrollY, f.scrollReq
	f.scrollReq = false
	return
}

func (f *fakeRegisters) Address() (addr uint16, request bool) {
	addr, request = f.addr, f.addrReq
	f.addrReq = false
	return
}

func (f *fakeRegisters) Data() (data uint8, readReq, writeReq bool) {
	data, readReq, writeReq = f.dataByte, f.dataRead, f.dataWrite
	f.dataRead, f.dataWrite = false, false
	return
}
func (f *fakeRegisters) WriteData(v uint8) { f.dataByte = v }
func (f *fakeRegisters) IncrementAddress() { f.addr += f.VRAMIncrement() }

type fakeVideo struct{ chr [0x2000]byte }

func (v *fakeVideo) ChrRead(addr uint16) uint8     { return v.chr[addr] }
func (v *fakeVideo) ChrWrite(addr uint16, d uint8) { v.chr[addr] = d }

func TestModeForBoundaries(t *testing.T) {
	require.Equal(t, Visible, modeFor(0))
	require.Equal(t, Visible, modeFor(scanlineVisibleEnd))
	require.Equal(t, PostRender, modeFor(scanlinePostRender))
	require.Equal(t, VerticalBlanking, modeFor(scanlinePostRender+1))
	require.Equal(t, VerticalBlanking, modeFor(scanlineVBlankEnd))
	require.Equal(t, PreRender, modeFor(scanlinePreRender))
}

func TestStepEntersVBlankAndEmitsNMIWhenEnabled(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	p.scanline, p.mode = scanlinePostRender, PostRender

	regs := &fakeRegisters{ctrl: ctrlNMIEnable}
	interrupt := p.Step(uint8(cyclesPerScanline), regs)

	require.Equal(t, VerticalBlanking, p.Mode())
	require.Equal(t, NMI, interrupt)
	require.NotZero(t, regs.status&statusVBlank)
}

func TestStepDoesNotEmitNMIWhenDisabled(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	p.scanline, p.mode = scanlinePostRender, PostRender

	regs := &fakeRegisters{}
	interrupt := p.Step(uint8(cyclesPerScanline), regs)

	require.Equal(t, NoInterrupt, interrupt)
	require.NotZero(t, regs.status&statusVBlank, "VBlank flag still sets even without NMI wired")
}

func TestPreRenderClearsStatusFlags(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	p.scanline, p.mode = scanlineVBlankEnd, VerticalBlanking

	regs := &fakeRegisters{status: statusVBlank | statusSprite0 | statusOverflow}
	p.Step(uint8(cyclesPerScanline), regs)

	require.Equal(t, PreRender, p.Mode())
	require.Zero(t, regs.status&statusVBlank)
	require.Zero(t, regs.status&statusSprite0)
	require.Zero(t, regs.status&statusOverflow)
}

func TestScanlineWrapsAfterPreRender(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	p.scanline, p.mode = scanlinePreRender, PreRender

	regs := &fakeRegisters{}
	p.Step(uint8(cyclesPerScanline), regs)

	require.Equal(t, 0, p.Scanline())
	require.Equal(t, Visible, p.Mode())
}

func TestDataDrainWriteTakesPrecedenceOverRead(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	regs := &fakeRegisters{addr: 0x2300, dataByte: 0x55, dataWrite: true, dataRead: true}

	p.Step(0, regs)

	require.Equal(t, uint8(0x55), p.vram[p.mirrorNametable(0x300)])
	require.Equal(t, uint16(0x2301), regs.addr)
}

func TestDataDrainReadFillsBusLatch(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	p.vram[p.mirrorNametable(0x300)] = 0x77
	regs := &fakeRegisters{addr: 0x2300, dataRead: true}

	p.Step(0, regs)

	require.Equal(t, uint8(0x77), regs.dataByte)
	require.Equal(t, uint16(0x2301), regs.addr)
}

func TestOAMDrainWritePrecedence(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	regs := &fakeRegisters{oamAddr: 0x10, oamByte: 0x9A, oamWrite: true, oamRead: true}

	p.Step(0, regs)

	require.Equal(t, uint8(0x9A), p.oam[0x10])
}

func TestOAMDrainRead(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	p.oam[0x20] = 0xBC
	regs := &fakeRegisters{oamAddr: 0x20, oamRead: true}

	p.Step(0, regs)

	require.Equal(t, uint8(0xBC), regs.oamByte)
}

func TestMirrorNametableHorizontal(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	require.Equal(t, p.mirrorNametable(0x000), p.mirrorNametable(0x400))
	require.Equal(t, p.mirrorNametable(0x800), p.mirrorNametable(0xC00))
}

func TestMirrorNametableVertical(t *testing.T) {
	p := New(&fakeVideo{}, Vertical)
	require.Equal(t, p.mirrorNametable(0x000), p.mirrorNametable(0x800))
	require.Equal(t, p.mirrorNametable(0x400), p.mirrorNametable(0xC00))
}

func TestPaletteWraps(t *testing.T) {
	p := New(&fakeVideo{}, Horizontal)
	r, g, b := p.Palette(0)
	r2, g2, b2 := p.Palette(64)
	require.Equal(t, r, r2)
	require.Equal(t, g, g2)
	require.Equal(t, b, b2)
}

func TestReadWriteVideoRoutesPatternTableToVideoBus(t *testing.T) {
	video := &fakeVideo{}
	p := New(video, Horizontal)
	p.writeVideo(0x0123, 0x42)
	require.Equal(t, uint8(0x42), video.chr[0x0123])
	require.Equal(t, uint8(0x42), p.readVideo(0x0123))
}
