package user

import "github.com/lucasb-eyer/go-colorful"

// PaletteSize is the number of distinct participant colors per room.
const PaletteSize = 8

// Palette is the fixed set of participant colors, generated once with
// golden-ratio hue spacing so adjacent entries stay visually distinct.
var Palette = buildPalette(PaletteSize)

func buildPalette(n int) []string {
	const goldenRatio = 0.618033988749895

	colors := make([]string, n)
	hue := 0.0
	for i := range colors {
		colors[i] = colorful.Hsl(hue*360, 0.85, 0.55).Hex()
		hue += goldenRatio
		hue = hue - float64(int(hue)) // keep fractional part
	}
	return colors
}

// PickColor returns the first palette entry not present in inUse. Once all
// entries are taken the first palette color is reused, so collisions are
// possible past PaletteSize participants.
func PickColor(inUse map[string]bool) string {
	for _, c := range Palette {
		if !inUse[c] {
			return c
		}
	}
	return Palette[0]
}
