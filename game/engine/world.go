package engine

import "fmt"

// World holds the entities of one loaded level. It is built once per
// level load and advanced one frame per Step.
type World struct {
	Name    string
	Map     *Map
	Player  *Player
	Enemies []Enemy
	Coins   []*Coin
}

// NewWorld validates def and builds its map and entities
func NewWorld(def *LevelDefinition) (*World, error) {
	if err := ValidateLevel(def); err != nil {
		return nil, err
	}

	m, err := NewMap(def.Grid())
	if err != nil {
		return nil, fmt.Errorf("build map for level %q: %w", def.Name, err)
	}

	player, err := NewPlayer(def.PlayerRespawns, m)
	if err != nil {
		return nil, configErrorf(def.Name, "%v", err)
	}

	coins := make([]*Coin, len(def.Coins))
	for i, p := range def.Coins {
		coins[i] = NewCoin(p, m)
	}

	enemies := make([]Enemy, 0, len(def.Enemies))
	for i, e := range def.Enemies {
		enemy, err := NewEnemy(e, m)
		if err != nil {
			return nil, configErrorf(def.Name, "enemy %d: %v", i+1, err)
		}
		enemies = append(enemies, enemy)
	}

	return &World{
		Name:    def.Name,
		Map:     m,
		Player:  player,
		Enemies: enemies,
		Coins:   coins,
	}, nil
}

// Step advances the world one frame: the player moves on the input
// snapshot, every enemy advances, then one interaction pass resolves
// deaths, pickups and completion.
func (w *World) Step(in Input, fx Effects) {
	w.Player.Move(in)
	for _, e := range w.Enemies {
		e.Advance()
	}
	Resolve(w.Player, w.Enemies, w.Coins, fx)
}

// Draw renders the whole world back to front
func (w *World) Draw(c Canvas) {
	w.Map.Draw(c)
	w.Map.DrawEdges(c)
	w.Player.Draw(c)
	for _, coin := range w.Coins {
		coin.Draw(c)
	}
	for _, e := range w.Enemies {
		e.Draw(c)
	}
}

// CoinsTaken returns how many coins are currently collected
func (w *World) CoinsTaken() int {
	n := 0
	for _, c := range w.Coins {
		if c.Taken {
			n++
		}
	}
	return n
}
