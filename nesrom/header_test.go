package nesrom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHeader(t *testing.T) {
	bytes := []byte{0x4e, 0x45, 0x53, 0x1a, 0x02, 0x01, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	want := &Header{
		constant: "NES\x1a", prgSize: 2, chrSize: 1, flags6: 1,
		unused: []byte{0, 0, 0, 0, 0},
	}

	require.Equal(t, want, parseHeader(bytes))
}

func TestNES2Format(t *testing.T) {
	cases := []struct {
		constant           string
		flags7             uint8
		wantINES, wantNES2 bool
	}{
		{"NES\x1A", 0x08, true, true},
		{"NES\x1A", 0x0C, true, false},
		{"BOB\x1A", 0x10, false, false},
	}

	for i, tc := range cases {
		h := &Header{constant: tc.constant, flags7: tc.flags7, unused: make([]byte, 5)}
		require.Equalf(t, tc.wantINES, h.isINesFormat(), "case %d: isINesFormat()", i)
		require.Equalf(t, tc.wantNES2, h.isNES2Format(), "case %d: isNES2Format()", i)
	}
}

func TestMapperNum(t *testing.T) {
	cases := []struct {
		flags6, flags7 uint8
		unused         []byte
		want           uint8
	}{
		{0xEF, 0xF0, []byte{0, 0, 0, 0, 0}, 0xFE}, // not NES2, unused all zero
		{0xFF, 0xE0, []byte{0, 0, 0, 0, 0}, 0xEF},
		{0xC0, 0xB0, []byte{0, 0, 1, 1, 1}, 0x0C}, // not NES2, unused dirty -> mask high nibble
		{0xFF, 0xF8, []byte{0, 0, 0, 1, 1}, 0xFF}, // NES2, unused dirty -> still trusted
	}

	for i, tc := range cases {
		h := &Header{constant: "NES\x1A", flags6: tc.flags6, flags7: tc.flags7, unused: tc.unused}
		require.Equalf(t, tc.want, h.mapperNum(), "case %d", i)
	}
}

func TestHasTrainer(t *testing.T) {
	cases := []struct {
		flags6 uint8
		want   bool
	}{
		{0xFF, true},
		{0x04, true},
		{0x0A, false},
	}

	for i, tc := range cases {
		h := &Header{constant: "NES\x1A", flags6: tc.flags6}
		require.Equalf(t, tc.want, h.hasTrainer(), "case %d", i)
	}
}

func TestHasPlayChoice10(t *testing.T) {
	cases := []struct {
		flags7 uint8
		want   bool
	}{
		{0xFF, true},
		{0x02, true},
		{0x0D, false},
	}

	for i, tc := range cases {
		h := &Header{constant: "NES\x1A", flags7: tc.flags7}
		require.Equalf(t, tc.want, h.hasPlayChoice(), "case %d", i)
	}
}

func TestMirroringMode(t *testing.T) {
	cases := []struct {
		flags6 uint8
		want   uint8
	}{
		{0xFF, MirrorFourScreen},
		{0x00, MirrorHorizontal},
		{0x01, MirrorVertical},
		{0x08, MirrorFourScreen},
	}

	for i, tc := range cases {
		h := &Header{constant: "NES\x1A", flags6: tc.flags6}
		require.Equalf(t, tc.want, h.mirroringMode(), "case %d", i)
	}
}

func TestBatteryBackedSRAM(t *testing.T) {
	cases := []struct {
		flags6, flags8 uint8
		want           bool
		wantSize       uint8
	}{
		{0, 0, false, 0},
		{0, 16, false, 0},
		{batteryBackedSRAM, 0, true, 1},
		{batteryBackedSRAM, 1, true, 1},
		{batteryBackedSRAM, 16, true, 16},
	}

	for i, tc := range cases {
		h := &Header{constant: "NES\x1A", flags6: tc.flags6, flags8: tc.flags8}
		require.Equalf(t, tc.want, h.hasPrgRAM(), "case %d: hasPrgRAM()", i)
		require.Equalf(t, tc.wantSize, h.prgRAMSize(), "case %d: prgRAMSize()", i)
	}
}
