package preview

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// maxGlyphMicro caps the rendered size of a marker glyph in micro pixels.
const maxGlyphMicro = 12

// glyph is a marker icon rasterized to a micro pixel mask.
type glyph struct {
	mask             [][]bool
	anchorX, anchorY int
}

// rasterizeGlyph draws the inline SVG of a marker at one micro pixel per
// SVG pixel, scaled down when larger than maxGlyphMicro. anchorX and
// anchorY are the marker's anchor offsets in SVG pixels.
func rasterizeGlyph(svg string, anchorX, anchorY float64) (*glyph, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(svg), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("marker svg: %w", err)
	}
	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		return nil, fmt.Errorf("marker svg: empty view box")
	}
	scale := 1.0
	if m := math.Max(vb.W, vb.H); m > maxGlyphMicro {
		scale = maxGlyphMicro / m
	}
	w := max(1, int(math.Ceil(vb.W*scale)))
	h := max(1, int(math.Ceil(vb.H*scale)))

	// scale first, then move the view box corner to the origin
	icon.Transform = rasterx.Identity.Scale(scale, scale).Translate(-vb.X, -vb.Y)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	g := &glyph{
		mask:    make([][]bool, h),
		anchorX: int(math.Round(anchorX * scale)),
		anchorY: int(math.Round(anchorY * scale)),
	}
	for y := 0; y < h; y++ {
		g.mask[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			if img.RGBAAt(x, y).A >= 0x40 {
				g.mask[y][x] = true
			}
		}
	}
	return g, nil
}

// empty reports whether no pixel of the glyph is set.
func (g *glyph) empty() bool {
	for _, row := range g.mask {
		for _, on := range row {
			if on {
				return false
			}
		}
	}
	return true
}
