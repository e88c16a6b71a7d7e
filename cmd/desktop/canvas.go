package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/wricardo/squaredash/game/engine"
)

// imageCanvas draws engine shapes onto an ebiten image, shifted so the
// grid origin lands one padding band inside the window.
type imageCanvas struct {
	dst    *ebiten.Image
	offset engine.Vec

	// path holds one point list per MoveTo
	path [][]engine.Vec
}

func newImageCanvas(dst *ebiten.Image, offset engine.Vec) *imageCanvas {
	return &imageCanvas{dst: dst, offset: offset}
}

func (c *imageCanvas) xy(x, y float64) (float32, float32) {
	return float32(x + c.offset.X), float32(y + c.offset.Y)
}

func (c *imageCanvas) FillRect(x, y, w, h float64, clr color.Color) {
	sx, sy := c.xy(x, y)
	vector.FillRect(c.dst, sx, sy, float32(w), float32(h), clr, false)
}

func (c *imageCanvas) StrokeRect(x, y, w, h, lineWidth float64, clr color.Color) {
	sx, sy := c.xy(x, y)
	vector.StrokeRect(c.dst, sx, sy, float32(w), float32(h), float32(lineWidth), clr, false)
}

func (c *imageCanvas) FillCircle(cx, cy, r float64, clr color.Color) {
	sx, sy := c.xy(cx, cy)
	vector.FillCircle(c.dst, sx, sy, float32(r), clr, true)
}

func (c *imageCanvas) StrokeCircle(cx, cy, r, lineWidth float64, clr color.Color) {
	sx, sy := c.xy(cx, cy)
	vector.StrokeCircle(c.dst, sx, sy, float32(r), float32(lineWidth), clr, true)
}

func (c *imageCanvas) MoveTo(x, y float64) {
	c.path = append(c.path, []engine.Vec{{X: x, Y: y}})
}

func (c *imageCanvas) LineTo(x, y float64) {
	if len(c.path) == 0 {
		c.MoveTo(x, y)
		return
	}
	last := len(c.path) - 1
	c.path[last] = append(c.path[last], engine.Vec{X: x, Y: y})
}

func (c *imageCanvas) Stroke(lineWidth float64, clr color.Color) {
	for _, seg := range c.segments() {
		x0, y0 := c.xy(seg.from.X, seg.from.Y)
		x1, y1 := c.xy(seg.to.X, seg.to.Y)
		vector.StrokeLine(c.dst, x0, y0, x1, y1, float32(lineWidth), clr, false)
	}
	c.path = c.path[:0]
}

type segment struct{ from, to engine.Vec }

// segments flattens the pending path into line segments
func (c *imageCanvas) segments() []segment {
	var out []segment
	for _, sub := range c.path {
		for i := 1; i < len(sub); i++ {
			out = append(out, segment{from: sub[i-1], to: sub[i]})
		}
	}
	return out
}
