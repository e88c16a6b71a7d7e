package engine

// corner is a point of the player square relative to its center, in
// units of the square's width
type corner struct{ dx, dy float64 }

// leadingCorners are the two corners that lead when moving in a direction
var leadingCorners = map[Direction][2]corner{
	Up:    {{-0.5, -0.5}, {0.5, -0.5}},
	Down:  {{-0.5, 0.5}, {0.5, 0.5}},
	Left:  {{-0.5, -0.5}, {-0.5, 0.5}},
	Right: {{0.5, -0.5}, {0.5, 0.5}},
}

// squareCorners are all four corners of the player square
var squareCorners = [4]corner{{-0.5, -0.5}, {0.5, -0.5}, {-0.5, 0.5}, {0.5, 0.5}}

// squareFits reports whether a player square centered at center lies
// entirely on walkable cells
func squareFits(m *Map, center Vec) bool {
	for _, c := range squareCorners {
		if !m.ClassifyAt(Vec{X: center.X + c.dx*PlayerWidth, Y: center.Y + c.dy*PlayerWidth}).Walkable() {
			return false
		}
	}
	return true
}

// step returns the displacement of one move in direction d
func step(d Direction) Vec {
	switch d {
	case Up:
		return Vec{Y: -PlayerSpeed}
	case Down:
		return Vec{Y: PlayerSpeed}
	case Left:
		return Vec{X: -PlayerSpeed}
	case Right:
		return Vec{X: PlayerSpeed}
	}
	return Vec{}
}

// Move applies one frame of input. Each held direction is tested and
// applied on its own, so a diagonal into a wall still slides along it.
func (p *Player) Move(in Input) {
	for _, dk := range directionKeys {
		if in.Held(dk.key) && !p.WouldCollideWall(dk.dir) {
			s := step(dk.dir)
			p.Pos.X += s.X
			p.Pos.Y += s.Y
		}
	}
}

// WouldCollideWall reports whether moving one step in d would put either
// leading corner of the square on a non-walkable cell.
func (p *Player) WouldCollideWall(d Direction) bool {
	corners, ok := leadingCorners[d]
	if !ok {
		return true
	}
	s := step(d)
	for _, c := range corners {
		probe := Vec{
			X: p.Pos.X + c.dx*PlayerWidth + s.X,
			Y: p.Pos.Y + c.dy*PlayerWidth + s.Y,
		}
		if !p.m.ClassifyAt(probe).Walkable() {
			return true
		}
	}
	return false
}

// CanMove reports whether a step in direction d is currently possible
func (p *Player) CanMove(d Direction) bool {
	return !p.WouldCollideWall(d)
}

// PossibleMoves returns every direction the player could step in now
func (p *Player) PossibleMoves() []Direction {
	var possible []Direction
	for _, dk := range directionKeys {
		if p.CanMove(dk.dir) {
			possible = append(possible, dk.dir)
		}
	}
	return possible
}
