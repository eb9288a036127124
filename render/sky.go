package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	skyTop    = color.RGBA{R: 0xfd, G: 0xc5, B: 0x7b, A: 0xff}
	skyBottom = color.RGBA{R: 0x6b, G: 0x4c, B: 0x8b, A: 0xff}
)

// whitePixel is a lazily created 1x1 white image used as the texture for
// untextured meshes. Only touched from the game goroutine.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// vertexColor converts c to the premultiplied float components ebiten
// vertices carry.
func vertexColor(c color.RGBA) (r, g, b, a float32) {
	return float32(c.R) / 0xff, float32(c.G) / 0xff, float32(c.B) / 0xff, float32(c.A) / 0xff
}

// skyQuad returns a full-canvas quad whose vertex colours blend from top
// to bottom.
func skyQuad(width, height float64, top, bottom color.RGBA) ([]ebiten.Vertex, []uint16) {
	tr, tg, tb, ta := vertexColor(top)
	br, bg, bb, ba := vertexColor(bottom)
	w, h := float32(width), float32(height)
	verts := []ebiten.Vertex{
		{DstX: 0, DstY: 0, SrcX: 0.5, SrcY: 0.5, ColorR: tr, ColorG: tg, ColorB: tb, ColorA: ta},
		{DstX: w, DstY: 0, SrcX: 0.5, SrcY: 0.5, ColorR: tr, ColorG: tg, ColorB: tb, ColorA: ta},
		{DstX: 0, DstY: h, SrcX: 0.5, SrcY: 0.5, ColorR: br, ColorG: bg, ColorB: bb, ColorA: ba},
		{DstX: w, DstY: h, SrcX: 0.5, SrcY: 0.5, ColorR: br, ColorG: bg, ColorB: bb, ColorA: ba},
	}
	return verts, []uint16{0, 2, 1, 1, 2, 3}
}

func drawSky(dst *ebiten.Image, width, height float64) {
	verts, inds := skyQuad(width, height, skyTop, skyBottom)
	dst.DrawTriangles(verts, inds, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{})
}
