// Package mappers implements and registers the cartridge mappers
// referenced numerically by the iNES format.
package mappers

import (
	"fmt"

	"github.com/sixfiveoh/nesgo/nesrom"
)

// allMappers is a global registry of mappers, keyed by mapper id.
var allMappers = map[uint16]Mapper{}

// RegisterMapper adds m to the registry under id. Called from each
// mapper's init().
func RegisterMapper(id uint16, m Mapper) {
	if om, ok := allMappers[id]; ok {
		panic(fmt.Sprintf("mapper id %d already registered by %q", id, om.Name()))
	}
	allMappers[id] = m
}

// ErrUnknownMapper is returned by Get when a ROM names a mapper id
// this module has no implementation for.
var ErrUnknownMapper = fmt.Errorf("unknown mapper id")

// Get returns the mapper rom's header asks for, initialized against
// rom's PRG/CHR banks.
func Get(rom *nesrom.ROM) (Mapper, error) {
	id := rom.MapperNum()
	m, ok := allMappers[id]
	if !ok {
		return nil, fmt.Errorf("mapper %d: %w", id, ErrUnknownMapper)
	}
	m.Init(rom)
	return m, nil
}

const baseRAMSize = 0x2000 // 8KiB save RAM window, 0x6000-0x7FFF

// Mapper is the interface the bus/cartridge boundary drives: address
// translation from CPU/PPU address space into a cartridge's PRG/CHR
// banks, plus whatever bank-switching state a given mapper needs.
type Mapper interface {
	ID() uint16
	Init(*nesrom.ROM)
	Name() string
	PrgRead(uint16) uint8
	PrgWrite(uint16, uint8)
	ChrRead(uint16) uint8
	ChrWrite(uint16, uint8)
	MirroringMode() uint8
	HasSaveRAM() bool
}

// baseMapper holds the fields common to every mapper: identity, the
// parsed ROM it wraps, and (since most boards expose it) battery/save
// RAM at 0x6000-0x7FFF.
type baseMapper struct {
	id   uint16
	name string
	rom  *nesrom.ROM

	saveRAM []uint8
}

func newBaseMapper(id uint16, name string) *baseMapper {
	return &baseMapper{id: id, name: name, saveRAM: make([]uint8, baseRAMSize)}
}

func (bm *baseMapper) ID() uint16     { return bm.id }
func (bm *baseMapper) Name() string   { return bm.name }
func (bm *baseMapper) String() string { return bm.name }

func (bm *baseMapper) Init(r *nesrom.ROM) { bm.rom = r }

func (bm *baseMapper) MirroringMode() uint8 { return bm.rom.MirroringMode() }
func (bm *baseMapper) HasSaveRAM() bool     { return bm.rom.HasSaveRAM() }
