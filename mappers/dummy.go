package mappers

import (
	"math"

	"github.com/sixfiveoh/nesgo/nesrom"
)

// dummyMapper is a flat byte-array mapper for tests that need a
// Mapper without parsing a real ROM file.
type dummyMapper struct {
	memory []uint8
	mm     uint8 // mirroring mode tests can set directly
}

func (dm *dummyMapper) ID() uint16            { return 0 }
func (dm *dummyMapper) Init(r *nesrom.ROM)     {}
func (dm *dummyMapper) Name() string          { return "dummy mapper" }
func (dm *dummyMapper) PrgRead(addr uint16) uint8        { return dm.memory[addr] }
func (dm *dummyMapper) PrgWrite(addr uint16, val uint8)  { dm.memory[addr] = val }
func (dm *dummyMapper) ChrRead(addr uint16) uint8        { return dm.memory[addr] }
func (dm *dummyMapper) ChrWrite(addr uint16, val uint8)  { dm.memory[addr] = val }
func (dm *dummyMapper) MirroringMode() uint8  { return dm.mm }
func (dm *dummyMapper) HasSaveRAM() bool      { return true }

// NewDummy returns a fresh dummyMapper backed by a full 64KiB address
// space, for tests that want a Cartridge without a real ROM file.
func NewDummy() Mapper {
	return &dummyMapper{memory: make([]uint8, math.MaxUint16+1)}
}
