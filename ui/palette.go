package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/biome/components"
)

// Agent palettes. A genotype keeps the slot it was first assigned, so its
// color is stable for the life of the process.
var (
	coolPalette = hexPalette(0x40a2ff, 0x5cc8ff, 0x74b9ff, 0x81ecec, 0x55efc4, 0x2ecc71, 0x1abc9c, 0xa29bfe)
	warmPalette = hexPalette(0xff5a5a, 0xff7f50, 0xffa726, 0xff7043, 0xe67e22, 0xe74c3c, 0xff8a80, 0xffb74d)

	// chartPalette colors genotype series; carnivores start 4 slots in.
	chartPalette = hexPalette(0x40a2ff, 0x9b59b6, 0xf1c40f, 0xe67e22, 0x2ecc71, 0x1abc9c, 0xe84393, 0xfd79a8)
)

// Fixed colors.
var (
	plantColor     = rl.GetColor(0x47d16aff)
	herbivoreColor = rl.GetColor(0x40a2ffff)
	carnivoreColor = rl.GetColor(0xff5a5aff)

	herbVisionColor = rl.NewColor(64, 162, 255, 20)
	carnVisionColor = rl.NewColor(255, 90, 90, 20)
)

// chartCarnivoreOffset shifts carnivore genotype series into the second
// half of the chart palette.
const chartCarnivoreOffset = 4

// Agent draw radii.
const (
	herbivoreRadius = 2.2
	carnivoreRadius = 2.6
)

func hexPalette(hex ...uint) []rl.Color {
	out := make([]rl.Color, len(hex))
	for i, h := range hex {
		out[i] = rl.GetColor(h<<8 | 0xff)
	}
	return out
}

// speciesPalette returns the body palette for a species.
func speciesPalette(s components.Species) []rl.Color {
	if s.IsCarnivore() {
		return warmPalette
	}
	return coolPalette
}

// speciesColor returns the flat series color for a species total.
func speciesColor(s components.Species) rl.Color {
	if s.IsCarnivore() {
		return carnivoreColor
	}
	return herbivoreColor
}

// chartSeriesColor returns the line color for the i-th top genotype.
func chartSeriesColor(s components.Species, i int) rl.Color {
	if s.IsCarnivore() {
		i += chartCarnivoreOffset
	}
	return chartPalette[i%len(chartPalette)]
}
