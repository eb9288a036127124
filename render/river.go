package render

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/riverlight"
)

var (
	riverColor   = color.RGBA{R: 0x2f, G: 0x5e, B: 0x4e, A: 0xff}
	textureColor = color.NRGBA{R: 255, G: 255, B: 255, A: 12}
)

const (
	textureSpacing   = 6
	textureHalfWidth = 200
	textureSwing     = 30
)

// riverMesh is the water polygon, rebuilt every frame as a triangle strip
// between the left and right banks. Buffers grow to a high-water mark.
type riverMesh struct {
	verts []ebiten.Vertex
	inds  []uint16
}

// build fills the mesh from b. For N samples: 2N vertices, 6(N-1) indices.
func (m *riverMesh) build(b riverlight.RiverBoundary, c color.RGBA) {
	n := b.Len()
	if n < 2 {
		m.verts = m.verts[:0]
		m.inds = m.inds[:0]
		return
	}

	numVerts := n * 2
	numInds := (n - 1) * 6
	if cap(m.verts) < numVerts {
		m.verts = make([]ebiten.Vertex, numVerts)
	}
	m.verts = m.verts[:numVerts]
	if cap(m.inds) < numInds {
		m.inds = make([]uint16, numInds)
	}
	m.inds = m.inds[:numInds]

	cr, cg, cb, ca := vertexColor(c)
	for i, s := range b.Samples {
		vi := i * 2
		m.verts[vi] = ebiten.Vertex{
			DstX: float32(s.Left), DstY: float32(s.Row),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
		m.verts[vi+1] = ebiten.Vertex{
			DstX: float32(s.Right), DstY: float32(s.Row),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
		}
	}

	// Two triangles per band.
	for i := 0; i < n-1; i++ {
		ii := i * 6
		v := uint16(i * 2)
		m.inds[ii+0] = v
		m.inds[ii+1] = v + 1
		m.inds[ii+2] = v + 2
		m.inds[ii+3] = v + 1
		m.inds[ii+4] = v + 3
		m.inds[ii+5] = v + 2
	}
}

func (m *riverMesh) draw(dst *ebiten.Image) {
	if len(m.inds) == 0 {
		return
	}
	dst.DrawTriangles(m.verts, m.inds, ensureWhitePixel(), &ebiten.DrawTrianglesOptions{})
}

// textureLine is one faint horizontal stroke across the water.
type textureLine struct {
	X0, X1, Y float64
}

// textureLines appends the river surface lines for a frame: one every 6
// rows, 400px wide around the centre, swaying sideways over time.
func textureLines(buf []textureLine, width, height float64, frame uint64) []textureLine {
	f := float64(frame)
	for y := 0.0; y < height; y += textureSpacing {
		sway := math.Sin(y*0.02+f*0.02) * textureSwing
		buf = append(buf, textureLine{
			X0: width/2 - textureHalfWidth + sway,
			X1: width/2 + textureHalfWidth + sway,
			Y:  y,
		})
	}
	return buf
}

func drawTextureLines(dst *ebiten.Image, lines []textureLine) {
	for _, l := range lines {
		vector.StrokeLine(dst, float32(l.X0), float32(l.Y), float32(l.X1), float32(l.Y), 1, textureColor, false)
	}
}
