package planner

import (
	"github.com/rs/zerolog/log"

	"settlers/experiments/metrics"
	"settlers/game"
	"settlers/searcher"
	"settlers/tracker"
)

// Generator produces the candidate plans of one planning cycle.
type Generator struct {
	cfg     Config
	set     *tracker.Set
	player  int
	memory  *Memory
	metrics metrics.Collector

	delta bool
	ours  int // our win ETA before any placement
}

func NewGenerator(cfg Config, set *tracker.Set, player int, memory *Memory, collector metrics.Collector) *Generator {
	if collector == nil {
		collector = metrics.NewDummyCollector()
	}
	return &Generator{
		cfg:     cfg,
		set:     set,
		player:  player,
		memory:  memory,
		metrics: collector,
	}
}

// Generate clears the memory and refills it from the five plan categories.
func (g *Generator) Generate(etas [game.NumPieceTypes]int) []ScoredPlan {
	g.memory.Forget()

	g.delta = g.cfg.RankByDeltaWinETA
	if g.delta {
		g.ours = g.set.Tracker(g.player).WinGameETA
		if g.ours == tracker.MaxETA {
			g.ours = g.set.RecalcWinGameETA(g.player)
		}
		if g.ours == tracker.MaxETA {
			log.Debug().Msgf("player %d win eta unknown, ranking without delta", g.player)
			g.delta = false
		}
	}

	g.cities(etas)
	g.settlements()
	g.card(etas)
	g.largestArmy()
	g.longestRoad()

	return g.memory.Plans()
}

func (g *Generator) remember(p ScoredPlan) {
	g.metrics.AddCandidate()
	g.memory.Remember(p)
}

func (g *Generator) pl() *game.Player {
	return g.set.Game.Players[g.player]
}

func favour(eta int, f float64) int {
	return max(0, int(float64(eta)-f*float64(eta)))
}

// estimate is the sentinel-substituted ETA of target from the current hand.
func (g *Generator) estimate(target game.Resources) int {
	gm := g.set.Game
	return g.set.Estimator().RollsOrSentinel(
		g.pl().Resources, target, g.set.Cutoff(),
		gm.Production(g.player), gm.Ports(g.player), g.set.Sentinel())
}

// deltaAfter is our win ETA improvement in a hypothetical set.
func (g *Generator) deltaAfter(c *tracker.Set) int {
	after := c.RecalcWinGameETA(g.player)
	if after == tracker.MaxETA {
		return 0
	}
	return g.ours - after
}

func (g *Generator) deltaOf(pieces ...tracker.Piece) int {
	if !g.delta || len(pieces) == 0 {
		return 0
	}
	g.metrics.AddTry()
	c, err := g.set.TryPlaceAll(pieces...)
	if err != nil {
		log.Warn().Err(err).Msgf("player %d could not try %d pieces", g.player, len(pieces))
		return 0
	}
	return g.deltaAfter(c)
}

func (g *Generator) cities(etas [game.NumPieceTypes]int) {
	if g.pl().PiecesLeft(game.City) == 0 {
		return
	}
	eta := favour(etas[game.City], g.cfg.Favour.City)
	for _, pc := range g.set.Tracker(g.player).SortedCities() {
		g.remember(ScoredPlan{
			Type:            CityPlan,
			Plan:            NewBuildPlan(pc),
			ETA:             eta,
			Speedup:         pc.Speedup,
			DeltaWinGameETA: g.deltaOf(pc),
		})
	}
}

func (g *Generator) settlements() {
	if g.pl().PiecesLeft(game.Settlement) == 0 {
		return
	}
	t := g.set.Tracker(g.player)
	roadPieces := g.pl().PiecesLeft(game.Road)
	for _, ps := range t.SortedSettlements() {
		if len(ps.NecessaryRoads) > roadPieces {
			continue
		}
		order := make([]tracker.Piece, 0, len(ps.NecessaryRoads)+1)
		for _, e := range ps.NecessaryRoads {
			if pr, ok := t.Roads[e]; ok {
				order = append(order, pr)
			} else {
				order = append(order, tracker.NewRoad(g.player, e))
			}
		}
		order = append(order, ps)
		g.remember(ScoredPlan{
			Type:            SettlementPlan,
			Plan:            NewBuildPlan(order...),
			ETA:             favour(ps.ETA, g.cfg.Favour.Settlement),
			Speedup:         ps.Speedup,
			DeltaWinGameETA: g.deltaOf(order...),
		})
	}
}

func (g *Generator) card(etas [game.NumPieceTypes]int) {
	if g.set.Game.DeckSize() == 0 {
		return
	}
	card := tracker.NewCard(g.player)
	card.ETA = etas[game.Card]
	g.remember(ScoredPlan{
		Type:            CardPlan,
		Plan:            NewBuildPlan(card),
		ETA:             favour(etas[game.Card], g.cfg.Favour.Card),
		Speedup:         g.cfg.EarlySpeedup.Card,
		DeltaWinGameETA: g.cardDelta(),
	})
}

// cardDelta weighs the win ETA change of each card kind by its share of
// the deck.
func (g *Generator) cardDelta() int {
	if !g.delta {
		return 0
	}
	sum := 0
	for kind := game.DevCardType(0); kind < game.NumDevCardTypes; kind++ {
		g.metrics.AddTry()
		sum += game.DeckComposition[kind] * g.deltaAfter(g.set.TryCard(g.player, kind))
	}
	return sum / game.DeckTotal()
}

func (g *Generator) largestArmy() {
	gm := g.set.Game
	if gm.VictoryPoints(g.player) < g.cfg.MinVPLargestArmy || gm.DeckSize() == 0 {
		return
	}
	knights, ok := g.set.KnightsToBuy(g.player)
	if !ok || gm.DeckSize() < knights {
		return
	}
	eta := g.estimate(game.CardCost.Times(knights)) + g.set.CardPlayDelay()

	order := make([]tracker.Piece, 0, knights)
	for i := 0; i < knights; i++ {
		card := tracker.NewCard(g.player)
		card.Kind = game.Knight
		card.ETA = eta
		order = append(order, card)
	}
	delta := 0
	if g.delta {
		g.metrics.AddTry()
		delta = g.deltaAfter(g.set.TryKnights(g.player, knights))
	}
	g.remember(ScoredPlan{
		Type:            LargestArmyPlan,
		Plan:            NewBuildPlan(order...),
		ETA:             favour(eta, g.cfg.Favour.LargestArmy),
		Speedup:         g.cfg.EarlySpeedup.LargestArmy,
		DeltaWinGameETA: delta,
	})
}

func (g *Generator) longestRoad() {
	gm := g.set.Game
	if gm.VictoryPoints(g.player) < g.cfg.MinVPLongestRoad || g.pl().PiecesLeft(game.Road) == 0 {
		return
	}
	if _, ok := g.set.LongestRoadTarget(g.player); !ok {
		return
	}
	edges := g.set.LongestRoadExtension(g.player)
	if edges == nil {
		g.remember(ScoredPlan{Type: LongestRoadPlan, ETA: searcher.Unreachable, Speedup: g.cfg.EarlySpeedup.LongestRoad})
		return
	}

	t := g.set.Tracker(g.player)
	eta := g.estimate(game.RoadCost.Times(len(edges)))
	order := make([]tracker.Piece, 0, len(edges))
	for _, e := range edges {
		if pr, ok := t.Roads[e]; ok {
			order = append(order, pr)
			continue
		}
		pr := tracker.NewRoad(g.player, e)
		pr.ETA = eta
		order = append(order, pr)
	}
	g.remember(ScoredPlan{
		Type:            LongestRoadPlan,
		Plan:            NewBuildPlan(order...),
		ETA:             favour(eta, g.cfg.Favour.LongestRoad),
		Speedup:         g.cfg.EarlySpeedup.LongestRoad,
		DeltaWinGameETA: g.deltaOf(order...),
	})
}
