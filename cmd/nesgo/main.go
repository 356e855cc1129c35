// Command nesgo loads an iNES ROM, resolves its mapper, and prints a
// short summary of what it found. It does not open a window, play
// audio, or read a controller - see SPEC_FULL.md §6.2.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/sixfiveoh/nesgo/mappers"
	"github.com/sixfiveoh/nesgo/nesrom"
)

var path string

func init() {
	flag.StringVar(&path, "p", "", "Path to NES ROM to load.")
	flag.StringVar(&path, "path", "", "Path to NES ROM to load.")
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func main() {
	flag.Parse()

	if path == "" {
		log.Fatal("missing required flag: -p/--path FILE")
	}

	rom, err := nesrom.New(path)
	if err != nil {
		spew.Fdump(os.Stderr, rom)
		log.Fatalf("invalid ROM %q: %v", path, err)
	}

	m, err := mappers.Get(rom)
	if err != nil {
		spew.Fdump(os.Stderr, rom)
		log.Fatalf("couldn't resolve mapper for %q: %v", path, err)
	}

	fmt.Println(summary(path, rom, m))
}

func summary(path string, rom *nesrom.ROM, m mappers.Mapper) string {
	mirrorName := "horizontal"
	switch m.MirroringMode() {
	case nesrom.MirrorVertical:
		mirrorName = "vertical"
	case nesrom.MirrorFourScreen:
		mirrorName = "four-screen"
	}

	line := func(label, value string) string {
		return labelStyle.Render(label+":") + " " + value
	}

	return headerStyle.Render(path) + "\n" +
		line("mapper", fmt.Sprintf("%d (%s)", m.ID(), m.Name())) + "\n" +
		line("prg blocks", fmt.Sprintf("%d", rom.NumPrgBlocks())) + "\n" +
		line("chr blocks", fmt.Sprintf("%d", rom.NumChrBlocks())) + "\n" +
		line("mirroring", mirrorName) + "\n" +
		line("save ram", fmt.Sprintf("%t", m.HasSaveRAM()))
}
