package engine

// Player is the user-controlled square. Its position is the square's
// center in drawing space.
type Player struct {
	Pos          Vec
	respawns     []Vec
	RespawnIndex int
	m            *Map
}

// NewPlayer binds a player to m and spawns it at the first respawn point.
func NewPlayer(respawns []GridPoint, m *Map) (*Player, error) {
	if len(respawns) == 0 {
		return nil, &ConfigurationError{Reason: "player needs at least one respawn point"}
	}

	points := make([]Vec, len(respawns))
	for i, p := range respawns {
		points[i] = m.ToContinuous(p)
	}

	p := &Player{respawns: points, m: m}
	p.Respawn()
	return p, nil
}

func (p *Player) Position() Vec { return p.Pos }

// Size returns the side length of the player square
func (p *Player) Size() float64 { return PlayerWidth }

// RespawnPoints returns the checkpoint positions in drawing space
func (p *Player) RespawnPoints() []Vec {
	out := make([]Vec, len(p.respawns))
	copy(out, p.respawns)
	return out
}

// Cell returns the grid cell holding the player's center
func (p *Player) Cell() Cell {
	return p.m.ToGrid(p.Pos)
}

// UpdateRespawn raises the respawn index when the player stands on a safe
// cell of higher rank. The index never decreases within a level.
func (p *Player) UpdateRespawn(class CellClass) {
	if class.Kind != Safe {
		return
	}
	if class.Rank > p.RespawnIndex && class.Rank < len(p.respawns) {
		p.RespawnIndex = class.Rank
	}
}

// Respawn teleports the player to the current checkpoint
func (p *Player) Respawn() {
	p.Pos = p.respawns[p.RespawnIndex]
}

// CollidesWith treats the square as a circle of half its width and
// reports whether it overlaps o.
func (p *Player) CollidesWith(o Circle) bool {
	return Distance(p.Pos, o.Position()) < PlayerWidth/2+o.Radius()
}

// Draw renders the player square with its border
func (p *Player) Draw(c Canvas) {
	x := p.Pos.X - PlayerWidth/2
	y := p.Pos.Y - PlayerWidth/2
	c.FillRect(x, y, PlayerWidth, PlayerWidth, ColorPlayerBody)
	c.StrokeRect(x, y, PlayerWidth, PlayerWidth, PlayerBorderLineWidth, ColorBorder)
}
