package engine

import "image/color"

// Canvas is the opaque 2-D drawing surface the engine draws on. Hosts
// adapt it to whatever they render with; coordinates are drawing space
// with the grid origin at (0, 0).
type Canvas interface {
	FillRect(x, y, w, h float64, clr color.Color)
	StrokeRect(x, y, w, h, lineWidth float64, clr color.Color)
	FillCircle(cx, cy, r float64, clr color.Color)
	StrokeCircle(cx, cy, r, lineWidth float64, clr color.Color)

	// MoveTo and LineTo build a path that Stroke draws and clears
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Stroke(lineWidth float64, clr color.Color)
}

// Palette
var (
	ColorNormalCellLight = color.RGBA{0xf7, 0xf7, 0xff, 0xff}
	ColorNormalCellDark  = color.RGBA{0xe6, 0xe6, 0xff, 0xff}
	ColorSafeCell        = color.RGBA{0xb6, 0xfe, 0xb4, 0xff}
	ColorOutsideCell     = color.RGBA{0xb5, 0xb5, 0xff, 0xff}
	ColorEdge            = color.Black

	ColorPlayerBody = color.RGBA{0xfe, 0x00, 0x02, 0xff}
	ColorEnemyBody  = color.RGBA{0x00, 0x00, 0xfb, 0xff}
	ColorCoinBody   = color.RGBA{0xff, 0xff, 0x00, 0xff}
	ColorBorder     = color.Black
)

// Line widths
const (
	EdgeLineWidth         = 3.0
	PlayerBorderLineWidth = 4.0
	EnemyBorderLineWidth  = 3.0
	CoinBorderLineWidth   = 3.0
)
