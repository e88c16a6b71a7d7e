package engine

// Resolve runs one interaction pass between the player and the other
// entities. The order is fixed:
//
//  1. touching any enemy fires OnDeath, resets every coin and respawns
//     the player;
//  2. every untaken coin the player touches fires OnCoinPickup and is
//     taken;
//  3. the player's cell updates the respawn index, and OnLevelFinished
//     fires if that cell is the end cell and every coin is taken.
//
// Resolve keeps no state of its own.
func Resolve(p *Player, enemies []Enemy, coins []*Coin, fx Effects) {
	resolveEnemies(p, enemies, coins, fx)
	resolveCoins(p, coins, fx)
	resolveCheckpoint(p, coins, fx)
}

func resolveEnemies(p *Player, enemies []Enemy, coins []*Coin, fx Effects) {
	for _, e := range enemies {
		if p.CollidesWith(e) {
			fx.death()
			for _, c := range coins {
				c.Reset()
			}
			p.Respawn()
			return
		}
	}
}

func resolveCoins(p *Player, coins []*Coin, fx Effects) {
	for _, c := range coins {
		if !c.Taken && p.CollidesWith(c) {
			fx.coinPickup()
			c.Take()
		}
	}
}

func resolveCheckpoint(p *Player, coins []*Coin, fx Effects) {
	class := p.m.ClassifyAt(p.Pos)
	p.UpdateRespawn(class)
	if class.Kind == End && AllTaken(coins) {
		fx.levelFinished()
	}
}

// AllTaken reports whether every coin has been collected. A level with
// no coins is trivially complete.
func AllTaken(coins []*Coin) bool {
	for _, c := range coins {
		if !c.Taken {
			return false
		}
	}
	return true
}
