package tty

import "github.com/lucasb-eyer/go-colorful"

// ColorMode tags how a Color's bits should be interpreted.
type ColorMode uint8

const (
	// ColorPalette is a 0-7 ANSI palette index, or 8 meaning "default".
	ColorPalette ColorMode = iota
	// ColorAixterm is a pre-normalised 90-97 aixterm bright palette index.
	ColorAixterm
	// Color256 is a 256-colour palette index (0-255) held in Index.
	Color256
	// ColorRGB holds 24-bit R,G,B.
	ColorRGB
)

// Color is the engine's tagged colour value. The zero value is palette
// index 0 (black), not "default" — use ColorDefaultValue for that.
type Color struct {
	Mode  ColorMode
	Index uint8 // ColorPalette (0-7, 8=default), ColorAixterm (90-97), Color256
	R, G, B uint8
}

// ColorDefaultValue is the "use the terminal's default colour" sentinel
// (fg/bg == 8 in the original's single-integer encoding).
var ColorDefaultValue = Color{Mode: ColorPalette, Index: 8}

// IsDefault reports whether c is the default-colour sentinel.
func (c Color) IsDefault() bool {
	return c.Mode == ColorPalette && c.Index == 8
}

// colour256to16 mirrors tmux's colour_256to16 table: it maps each of the
// 256-colour palette entries (xterm's 16 system colours, the 6x6x6 cube,
// and the 24-step greyscale ramp) onto the nearest of the 16 standard ANSI
// colours. Results 8-15 (the value-8 bit set) are the bright colours.
var colour256to16 = buildColour256to16Table()

func buildColour256to16Table() [256]uint8 {
	var tbl [256]uint8
	// The first 16 entries of the 256-colour palette already *are* the
	// 16-colour palette (with the value-8 bit marking the bright half).
	for i := 0; i < 16; i++ {
		tbl[i] = uint8(i)
	}
	// The 6x6x6 colour cube (16-231) and the greyscale ramp (232-255) are
	// down-converted by nearest CIE76 distance against the 16 standard
	// xterm colours, matching the effect (if not the exact lookup
	// mechanism) of the original's static table.
	for i := 16; i < 256; i++ {
		r, g, b := xterm256RGB(i)
		tbl[i] = uint8(nearestPaletteIndex(r, g, b, 16))
	}
	return tbl
}

// xterm256RGB returns the standard xterm 256-colour palette RGB for index
// i (0-255), used both to build colour256to16 and by colourFindRGB.
func xterm256RGB(i int) (r, g, b uint8) {
	switch {
	case i < 16:
		return xterm16RGB[i][0], xterm16RGB[i][1], xterm16RGB[i][2]
	case i < 232:
		i -= 16
		levels := [6]uint8{0, 95, 135, 175, 215, 255}
		return levels[(i/36)%6], levels[(i/6)%6], levels[i%6]
	default:
		v := uint8(8 + (i-232)*10)
		return v, v, v
	}
}

// xterm16RGB is the standard xterm palette for the 16 ANSI colours,
// indices 0-7 normal and 8-15 bright.
var xterm16RGB = [16][3]uint8{
	{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
	{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
	{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
	{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
}

// colourFindRGB converts a 24-bit colour to the nearest entry in the
// 256-colour palette (tmux's colour_find_rgb), used when the terminal
// lacks true-colour support.
func colourFindRGB(r, g, b uint8) uint8 {
	return uint8(nearestPaletteIndex(r, g, b, 256))
}

// nearestPaletteIndex searches the first n entries of the 256-colour
// palette for the one nearest to (r,g,b) under CIE76 Lab distance.
func nearestPaletteIndex(r, g, b uint8, n int) int {
	target := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
	best, bestDist := 0, -1.0
	for i := 0; i < n; i++ {
		pr, pg, pb := xterm256RGB(i)
		c := colorful.Color{R: float64(pr) / 255, G: float64(pg) / 255, B: float64(pb) / 255}
		d := target.DistanceCIE76(c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
