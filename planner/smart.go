package planner

import (
	"math"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"

	"settlers/game"
	"settlers/tracker"
)

// roadProjectionCutoff bounds the hand projection used to score a road.
const roadProjectionCutoff = 50

// bestWinETACeiling is the starting point of the leader's win ETA search.
const bestWinETACeiling = 1000

// baseline is the table's win ETAs before a hypothetical placement.
type baseline struct {
	originals []int
	leaders   []int
	best      int
}

type smartCycle struct {
	base baseline

	threatenedSettlements []*tracker.Settlement
	goodSettlements       []*tracker.Settlement
	threatenedRoads       []*tracker.Road
	goodRoads             []*tracker.Road

	settlement *tracker.Settlement
	city       *tracker.City
	road       *tracker.Road

	candidates int
}

// normalized replaces unknown win ETAs with the maximum game length.
func (dm *DecisionMaker) normalized(etas []int) []int {
	out := make([]int, len(etas))
	for i, eta := range etas {
		if eta == tracker.MaxETA {
			eta = dm.cfg.MaxGameLength
		}
		out[i] = eta
	}
	return out
}

func (dm *DecisionMaker) baselineOf(set *tracker.Set) baseline {
	b := baseline{
		originals: dm.normalized(set.WinGameETAs()),
		leaders:   set.Leaders(),
		best:      bestWinETACeiling,
	}
	for _, eta := range b.originals {
		b.best = min(b.best, eta)
	}
	return b
}

// etaBonus discounts a bonus exponentially by the turns needed to get it.
func (dm *DecisionMaker) etaBonus(eta int, bonus float64) float64 {
	return bonus / math.Pow(1+dm.cfg.ETABonusFactor, float64(eta))
}

// winETABonus values the change from b to after: our own speedup, minus
// the help given to rivals, weighted heavier for the leaders.
func (dm *DecisionMaker) winETABonus(b baseline, after []int) float64 {
	after = dm.normalized(after)
	scale := dm.cfg.BonusScale / float64(len(b.originals))

	bonus := 0.0
	for pn, orig := range b.originals {
		diff := orig - after[pn]
		switch {
		case pn == dm.player:
			if after[pn] == 0 {
				bonus += scale
			} else if orig > 0 {
				bonus += scale * float64(diff) / float64(orig)
			}
		case slices.Contains(b.leaders, pn):
			if orig > 0 {
				bonus -= scale * dm.cfg.LeaderAdversarialFactor * float64(diff) / float64(orig)
			} else if diff < 0 {
				bonus += scale * dm.cfg.LeaderAdversarialFactor
			}
		default:
			if orig > 0 {
				bonus -= scale * dm.cfg.AdversarialFactor * (float64(diff) / float64(orig)) * (float64(b.best) / float64(orig))
			} else if diff < 0 {
				bonus += scale * dm.cfg.AdversarialFactor
			}
		}
	}
	return bonus
}

func (dm *DecisionMaker) placementBonus(set *tracker.Set, p tracker.Piece, b baseline) (float64, bool) {
	dm.metrics.AddTry()
	c, err := set.TryPlace(p)
	if err != nil {
		log.Warn().Err(err).Msgf("player %d could not try %s", dm.player, tracker.Describe(p))
		return 0, false
	}
	c.UpdateWinGameETAs()
	return dm.winETABonus(b, c.WinGameETAs()), true
}

// scoreRoad tries the road with the hand projected to just after paying
// for it.
func (dm *DecisionMaker) scoreRoad(set *tracker.Set, pr *tracker.Road, eta int, b baseline) bool {
	dm.metrics.AddTry()
	c, err := set.TryPlace(pr)
	if err != nil {
		log.Warn().Err(err).Msgf("player %d could not try %s", dm.player, tracker.Describe(pr))
		return false
	}
	gm := set.Game
	pl := gm.Players[dm.player]
	est, err := set.Estimator().Rolls(pl.Resources, game.RoadCost, roadProjectionCutoff, gm.Production(dm.player), gm.Ports(dm.player))
	if err == nil {
		c.Game.Players[dm.player].Resources = est.Resources.Subtract(game.RoadCost)
	}
	c.UpdateWinGameETAs()

	bonus := dm.winETABonus(b, c.WinGameETAs())
	if pr.IsThreatened() {
		bonus *= dm.cfg.ThreatMultiplier
	}
	pr.AddToScore(dm.etaBonus(eta, bonus))
	return true
}

func beats(a, b *tracker.Possibility) bool {
	return a.Score > b.Score || (a.Score == b.Score && a.ETA < b.ETA)
}

// smartStrategy scores every piece buildable without extra roads by its
// effect on the table's win ETAs and commits the best one, or a card.
func (dm *DecisionMaker) smartStrategy(set *tracker.Set, etas [game.NumPieceTypes]int) {
	dm.memory.Forget()
	dm.smart = smartCycle{base: dm.baselineOf(set)}
	c := &dm.smart
	pl := set.Game.Players[dm.player]
	t := set.Tracker(dm.player)

	if pl.PiecesLeft(game.Settlement) > 0 {
		for _, ps := range t.SortedSettlements() {
			if len(ps.NecessaryRoads) > 0 {
				continue
			}
			if ps.IsThreatened() {
				c.threatenedSettlements = append(c.threatenedSettlements, ps)
			} else {
				c.goodSettlements = append(c.goodSettlements, ps)
			}
			if ps.ETA > dm.cfg.MaxETA {
				continue
			}
			bonus, ok := dm.placementBonus(set, ps, c.base)
			if !ok {
				continue
			}
			ps.AddToScore(dm.etaBonus(ps.ETA, bonus))
			c.candidates++
			dm.metrics.AddCandidate()
			if c.settlement == nil || ps.Score > c.settlement.Score {
				c.settlement = ps
			}
		}
	}

	if pl.PiecesLeft(game.Road) > 0 {
		for _, pr := range t.SortedRoads() {
			if len(pr.NecessaryRoads) > 0 {
				continue
			}
			if pr.IsThreatened() {
				c.threatenedRoads = append(c.threatenedRoads, pr)
			} else {
				c.goodRoads = append(c.goodRoads, pr)
			}
			if pr.ETA > dm.cfg.MaxETA || !dm.scoreRoad(set, pr, pr.ETA, c.base) {
				continue
			}
			c.candidates++
			dm.metrics.AddCandidate()
			if c.road == nil || pr.Score > c.road.Score {
				c.road = pr
			}
		}
	}

	if pl.PiecesLeft(game.City) > 0 {
		for _, pc := range t.SortedCities() {
			if pc.ETA > dm.cfg.MaxETA {
				continue
			}
			bonus, ok := dm.placementBonus(set, pc, c.base)
			if !ok {
				continue
			}
			pc.AddToScore(dm.etaBonus(pc.ETA, bonus))
			c.candidates++
			dm.metrics.AddCandidate()
			if c.city == nil || pc.Score > c.city.Score {
				c.city = pc
			}
		}
	}

	switch {
	case c.city != nil && c.city.Score > 0 &&
		(c.settlement == nil || beats(c.city.Base(), c.settlement.Base())) &&
		(c.road == nil || beats(c.city.Base(), c.road.Base())):
		dm.plan.Push(c.city)
		dm.chosen = CityPlan.String()
	case c.road != nil && c.road.Score > 0 &&
		(c.settlement == nil || beats(c.road.Base(), c.settlement.Base())):
		dm.plan.Push(c.road)
		dm.chosen = "ROAD"
	case c.settlement != nil:
		dm.plan.Push(c.settlement)
		dm.chosen = SettlementPlan.String()
	}

	gm := set.Game
	if gm.DeckSize() > 0 && gm.Phase != game.SpecialBuildingPhase {
		card := dm.devCardScore(set, etas[game.Card], c.base)
		top, ok := dm.plan.Peek()
		if !ok || card.Score > top.Base().Score {
			dm.plan.Pop()
			dm.plan.Push(card)
			dm.chosen = CardPlan.String()
		}
	}
}

// devCardScore blends the effect of drawing a knight and a victory point
// card, plus a flat bonus.
func (dm *DecisionMaker) devCardScore(set *tracker.Set, eta int, b baseline) *tracker.Card {
	dm.metrics.AddTry()
	knight := set.TryCard(dm.player, game.Knight)
	knight.UpdateWinGameETAs()
	dm.metrics.AddTry()
	vp := set.TryCard(dm.player, game.VictoryPointCard)
	vp.UpdateWinGameETAs()

	total := dm.cfg.KnightWeight*dm.winETABonus(b, knight.WinGameETAs()) +
		dm.cfg.VPCardWeight*dm.winETABonus(b, vp.WinGameETAs()) +
		dm.cfg.DevCardMultiplier
	card := tracker.NewCard(dm.player)
	card.ETA = eta
	card.Score = dm.etaBonus(eta, total)
	dm.smart.candidates++
	dm.metrics.AddCandidate()
	return card
}

// roadBuilding fills the top of the plan with two roads when an old road
// building card can be played this turn.
func (dm *DecisionMaker) roadBuilding(set *tracker.Set) {
	c := &dm.smart
	pl := set.Game.Players[dm.player]
	if c.road == nil || pl.PlayedDevCard || !pl.DevCards.Playable(game.RoadBuilding) || pl.PiecesLeft(game.Road) < 2 {
		return
	}

	dm.metrics.AddTry()
	undo, err := set.Apply(c.road)
	if err != nil {
		log.Warn().Err(err).Msgf("player %d could not try %s", dm.player, tracker.Describe(c.road))
		return
	}
	set.UpdateWinGameETAs()
	after := dm.baselineOf(set)

	var second *tracker.Road
	consider := func(pr *tracker.Road) {
		if pr.Coord == c.road.Coord {
			return
		}
		if second == nil || pr.Score > second.Score {
			second = pr
		}
	}
	ht := set.Tracker(dm.player)
	for _, e := range c.road.NewRoads {
		pr, ok := ht.Roads[e]
		if !ok || len(pr.NecessaryRoads) > 0 {
			continue
		}
		pr.ResetScore()
		// The card pays for it.
		if dm.scoreRoad(set, pr, 0, after) {
			consider(pr)
		}
	}
	if err := set.Undo(undo); err != nil {
		log.Warn().Err(err).Msgf("player %d could not undo %s", dm.player, tracker.Describe(c.road))
		return
	}
	for _, pr := range c.threatenedRoads {
		consider(pr)
	}
	for _, pr := range c.goodRoads {
		consider(pr)
	}
	if second == nil {
		return
	}

	if top, ok := dm.plan.Peek(); ok && top.Type() == game.Road {
		dm.plan.Pop()
		dm.plan.Push(second)
		dm.plan.Push(top)
	} else {
		dm.plan.Push(second)
		dm.plan.Push(c.road)
	}
	dm.chosen = "ROAD_BUILDING"
}
