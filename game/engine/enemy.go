package engine

import "math"

// Enemy is a moving hazard. The set of variants is closed: *LinearEnemy
// patrols checkpoints and *RadialEnemy orbits an anchor.
type Enemy interface {
	Circle
	// Kind returns "linear" or "radial"
	Kind() string
	// Advance moves the enemy one frame along its path
	Advance()
	Draw(c Canvas)

	enemy()
}

// Enemy kinds as they appear in level files
const (
	LinearKind = "linear"
	RadialKind = "radial"
)

// enemyBody holds what every variant shares
type enemyBody struct {
	pos Vec
}

func (b *enemyBody) Position() Vec   { return b.pos }
func (b *enemyBody) Radius() float64 { return EnemyRadius }
func (b *enemyBody) enemy()          {}

func (b *enemyBody) Draw(c Canvas) {
	c.FillCircle(b.pos.X, b.pos.Y, EnemyRadius, ColorEnemyBody)
	c.StrokeCircle(b.pos.X, b.pos.Y, EnemyRadius, EnemyBorderLineWidth, ColorBorder)
}

// LinearEnemy patrols a cyclic list of checkpoints at constant speed
type LinearEnemy struct {
	enemyBody
	checkpoints []Vec
	target      int
	speed       float64
}

// NewLinearEnemy starts at checkpoints[0] heading for checkpoints[1].
// It needs at least two checkpoints.
func NewLinearEnemy(checkpoints []Vec, speed float64) (*LinearEnemy, error) {
	if len(checkpoints) < 2 {
		return nil, &ConfigurationError{Reason: "linear enemy needs at least 2 checkpoints"}
	}
	cps := make([]Vec, len(checkpoints))
	copy(cps, checkpoints)

	return &LinearEnemy{
		enemyBody:   enemyBody{pos: cps[0]},
		checkpoints: cps,
		target:      1,
		speed:       speed,
	}, nil
}

func (e *LinearEnemy) Kind() string { return LinearKind }

// Target returns the index of the checkpoint being approached
func (e *LinearEnemy) Target() int { return e.target }

// Checkpoints returns the patrol route
func (e *LinearEnemy) Checkpoints() []Vec {
	out := make([]Vec, len(e.checkpoints))
	copy(out, e.checkpoints)
	return out
}

// Speed returns the step length per frame
func (e *LinearEnemy) Speed() float64 { return e.speed }

// Advance steps speed units toward the target. Once the remaining distance
// drops below speed the target moves to the next checkpoint, wrapping
// after the last. The step is not clamped, so the enemy may overshoot.
func (e *LinearEnemy) Advance() {
	next := e.checkpoints[e.target]
	dx := next.X - e.pos.X
	dy := next.Y - e.pos.Y
	if length := math.Hypot(dx, dy); length > 0 {
		e.pos.X += e.speed * dx / length
		e.pos.Y += e.speed * dy / length
	}

	if Distance(e.pos, next) < e.speed {
		e.target = (e.target + 1) % len(e.checkpoints)
	}
}

// RadialEnemy orbits an anchor. Angle 0 points south (+y); positive
// angular speed turns counter-clockwise on screen.
type RadialEnemy struct {
	enemyBody
	anchor       Vec
	orbitRadius  float64
	angle        float64
	angularSpeed float64
}

// NewRadialEnemy places the enemy on its orbit. Angles are radians.
func NewRadialEnemy(anchor Vec, orbitRadius, angle, angularSpeed float64) *RadialEnemy {
	e := &RadialEnemy{
		anchor:       anchor,
		orbitRadius:  orbitRadius,
		angle:        angle,
		angularSpeed: angularSpeed,
	}
	e.place()
	return e
}

func (e *RadialEnemy) Kind() string { return RadialKind }

// Anchor returns the orbit center
func (e *RadialEnemy) Anchor() Vec { return e.anchor }

// OrbitRadius returns the orbit radius in drawing units
func (e *RadialEnemy) OrbitRadius() float64 { return e.orbitRadius }

// Angle returns the current angle in radians
func (e *RadialEnemy) Angle() float64 { return e.angle }

// AngularSpeed returns radians per frame
func (e *RadialEnemy) AngularSpeed() float64 { return e.angularSpeed }

// Advance turns the enemy by its angular speed
func (e *RadialEnemy) Advance() {
	e.angle += e.angularSpeed
	e.place()
}

func (e *RadialEnemy) place() {
	e.pos = Vec{
		X: e.anchor.X + e.orbitRadius*math.Sin(e.angle),
		Y: e.anchor.Y + e.orbitRadius*math.Cos(e.angle),
	}
}
