package engine

// Coin is a pickup. It starts untaken, is taken on contact and is reset
// level-wide whenever the player dies.
type Coin struct {
	pos   Vec
	Taken bool
}

// NewCoin places a coin at grid point p of m
func NewCoin(p GridPoint, m *Map) *Coin {
	return &Coin{pos: m.ToContinuous(p)}
}

// NewCoinAt places a coin directly in drawing space
func NewCoinAt(pos Vec) *Coin {
	return &Coin{pos: pos}
}

func (c *Coin) Position() Vec   { return c.pos }
func (c *Coin) Radius() float64 { return CoinRadius }

// Take marks the coin collected
func (c *Coin) Take() { c.Taken = true }

// Reset puts the coin back in play
func (c *Coin) Reset() { c.Taken = false }

// Draw renders the coin unless it has been taken
func (c *Coin) Draw(cv Canvas) {
	if c.Taken {
		return
	}
	cv.FillCircle(c.pos.X, c.pos.Y, CoinRadius, ColorCoinBody)
	cv.StrokeCircle(c.pos.X, c.pos.Y, CoinRadius, CoinBorderLineWidth, ColorBorder)
}
