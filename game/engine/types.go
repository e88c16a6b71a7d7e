package engine

import "encoding/json"

// Cell codes used by level text grids
const (
	OutsideCode = ' '
	NormalCode  = 'M'
	EndCode     = 'F'

	// Safe cells use the digits '1'..'5'; the digit minus one is the respawn index.
	FirstSafeCode = '1'
	LastSafeCode  = '5'
	MaxSafeRanks  = LastSafeCode - FirstSafeCode + 1
)

// Geometry and motion constants
const (
	CellSize = 50.0
	Padding  = 1

	PlayerWidth = 30.0
	PlayerSpeed = 3.0

	EnemyRadius = 11.0
	CoinRadius  = 8.0

	DefaultLinearSpeed = 6.0
	// Degrees per frame; negative is clockwise
	DefaultRadialSpeed = -3.0
)

// Input key identifiers, matching browser KeyboardEvent.code values
const (
	KeyUp    = "ArrowUp"
	KeyDown  = "ArrowDown"
	KeyLeft  = "ArrowLeft"
	KeyRight = "ArrowRight"
)

// Input is a read-only snapshot of which keys are currently held.
// The host owns it; the engine never mutates it.
type Input map[string]bool

// Held reports whether key is held. A nil Input holds nothing.
func (in Input) Held(key string) bool {
	return in[key]
}

// InputFromKeys builds an Input from a list of held key identifiers.
func InputFromKeys(keys []string) Input {
	in := make(Input, len(keys))
	for _, k := range keys {
		in[k] = true
	}
	return in
}

// Direction is one of the four axis directions
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// directionKeys maps each direction to its input key, in evaluation order
var directionKeys = []struct {
	dir Direction
	key string
}{
	{Up, KeyUp},
	{Down, KeyDown},
	{Left, KeyLeft},
	{Right, KeyRight},
}

// Vec is a position in continuous drawing space
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Cell addresses one grid cell, row-major
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// GridPoint is a possibly fractional position in grid units, row first.
// Level files encode it as a two element array [row, col].
type GridPoint struct {
	Row float64
	Col float64
}

// MarshalJSON encodes the point as [row, col]
func (p GridPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Row, p.Col})
}

// UnmarshalJSON decodes a [row, col] pair
func (p *GridPoint) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return &ConfigurationError{Reason: "grid point must be a [row, col] pair"}
	}
	p.Row, p.Col = pair[0], pair[1]
	return nil
}

// CellKind classifies a grid cell
type CellKind string

const (
	Outside CellKind = "outside"
	Normal  CellKind = "normal"
	Safe    CellKind = "safe"
	End     CellKind = "end"
)

// CellClass is the decoded meaning of a cell code. Rank is only
// meaningful for Safe cells and is the zero-based respawn index.
type CellClass struct {
	Kind CellKind `json:"kind"`
	Rank int      `json:"rank,omitempty"`
}

// Walkable reports whether a player may stand on the cell
func (c CellClass) Walkable() bool {
	return c.Kind == Normal || c.Kind == Safe || c.Kind == End
}

// Circle is anything the player can touch: enemies and coins
type Circle interface {
	Position() Vec
	Radius() float64
}

// Effects are host callbacks fired synchronously during interaction
// resolution. Any of them may be nil.
type Effects struct {
	OnDeath         func()
	OnCoinPickup    func()
	OnLevelFinished func()
}

func (fx Effects) death() {
	if fx.OnDeath != nil {
		fx.OnDeath()
	}
}

func (fx Effects) coinPickup() {
	if fx.OnCoinPickup != nil {
		fx.OnCoinPickup()
	}
}

func (fx Effects) levelFinished() {
	if fx.OnLevelFinished != nil {
		fx.OnLevelFinished()
	}
}
