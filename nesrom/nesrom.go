package nesrom

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrInvalidRom is returned when a file does not parse as a well-formed
// iNES image - a short read, a bad magic number, or a truncated
// PRG/CHR/trainer section.
var ErrInvalidRom = errors.New("invalid iNES ROM")

const (
	headerSize   = 16
	trainerSize  = 512
	prgBlockSize = 16384
	chrBlockSize = 8192
	pcInstSize   = 8192
	pcPromSize   = 32
)

// PlayChoicePROM is the optional PlayChoice-10 hint-screen PROM some
// arcade-derived dumps carry after CHR data.
type PlayChoicePROM struct {
	Data       [16]byte
	CounterOut [16]byte
}

// ROM is a parsed iNES image: header plus the PRG/CHR banks and any
// optional trainer/PlayChoice sections.
type ROM struct {
	path string
	h    *Header

	trainer   []byte
	prg       []byte
	chr       []byte
	pcInstRom []byte
	pcPROM    *PlayChoicePROM
}

// New reads and parses the iNES image at path.
func New(path string) (*ROM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening ROM file %q: %w", path, err)
	}
	defer f.Close()

	hbytes := make([]byte, headerSize)
	if n, err := f.Read(hbytes); n != headerSize || err != nil {
		return nil, fmt.Errorf("reading header of %q: %w", path, ErrInvalidRom)
	}

	h := parseHeader(hbytes)
	if !h.isINesFormat() {
		return nil, fmt.Errorf("%q: bad magic number: %w", path, ErrInvalidRom)
	}

	r := &ROM{path: path, h: h}

	if h.hasTrainer() {
		r.trainer = make([]byte, trainerSize)
		if n, err := f.Read(r.trainer); n != trainerSize || err != nil {
			return nil, fmt.Errorf("reading trainer of %q: %w", path, ErrInvalidRom)
		}
	}

	prgLen := prgBlockSize * int(h.prgSize)
	r.prg = make([]byte, prgLen)
	if n, err := f.Read(r.prg); n != prgLen || err != nil {
		return nil, fmt.Errorf("reading PRG ROM of %q (got %d, want %d): %w", path, n, prgLen, ErrInvalidRom)
	}

	chrLen := chrBlockSize * int(h.chrSize)
	r.chr = make([]byte, chrLen)
	if n, err := f.Read(r.chr); n != chrLen || err != nil {
		return nil, fmt.Errorf("reading CHR ROM of %q (got %d, want %d): %w", path, n, chrLen, ErrInvalidRom)
	}

	if h.hasPlayChoice() {
		r.pcInstRom = make([]byte, pcInstSize)
		if n, err := f.Read(r.pcInstRom); n != pcInstSize || err != nil {
			return nil, fmt.Errorf("reading PlayChoice INST ROM of %q: %w", path, ErrInvalidRom)
		}

		prom := make([]byte, pcPromSize)
		if n, err := f.Read(prom); n != pcPromSize || err != nil {
			return nil, fmt.Errorf("reading PlayChoice PROM of %q: %w", path, ErrInvalidRom)
		}
		r.pcPROM = &PlayChoicePROM{}
		copy(r.pcPROM.Data[:], prom)
	}

	return r, nil
}

func (r *ROM) NumPrgBlocks() uint8 { return r.h.prgSize }
func (r *ROM) NumChrBlocks() uint8 { return r.h.chrSize }

func (r *ROM) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", r.h)
	if r.h.hasTrainer() {
		fmt.Fprintf(&sb, "trainer: %d bytes\n", len(r.trainer))
	}
	fmt.Fprintf(&sb, "prg: %d bytes, chr: %d bytes\n", len(r.prg), len(r.chr))
	return sb.String()
}

// PrgRead/PrgWrite/ChrRead/ChrWrite give a Mapper raw access to the
// parsed banks; bank-address translation is the mapper's job.
func (r *ROM) PrgRead(addr uint16) uint8 { return r.prg[addr] }

func (r *ROM) PrgWrite(addr uint16, val uint8) {
	if len(r.prg) == 0 {
		return
	}
	r.prg[int(addr)%len(r.prg)] = val
}

func (r *ROM) ChrRead(addr uint16) uint8 {
	if len(r.chr) == 0 {
		return 0
	}
	return r.chr[int(addr)%len(r.chr)]
}

func (r *ROM) ChrWrite(addr uint16, val uint8) {
	if len(r.chr) == 0 {
		return
	}
	r.chr[int(addr)%len(r.chr)] = val
}

func (r *ROM) MapperNum() uint16       { return uint16(r.h.mapperNum()) }
func (r *ROM) MirroringMode() uint8    { return r.h.mirroringMode() }
func (r *ROM) HasSaveRAM() bool        { return r.h.hasPrgRAM() }
func (r *ROM) PrgRAMBlocks() uint8     { return r.h.prgRAMSize() }
