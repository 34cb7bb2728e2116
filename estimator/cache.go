package estimator

import (
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"

	"settlers/game"
)

const DefaultCacheSize = 4096

type Option func(e *Estimator)

func WithCacheSize(size int) Option {
	return func(e *Estimator) {
		if size > 0 {
			e.size = size
		}
	}
}

type key struct {
	current game.Resources
	target  game.Resources
	cutoff  int
	prod    game.Production
	ports   game.PortFlags
}

type entry struct {
	estimate Estimate
	err      error
}

// Estimator memoizes Rolls behind an LRU cache. Planning asks the same
// questions many times per turn; the answers never change. It is safe for
// concurrent use by independent games.
type Estimator struct {
	size   int
	mux    sync.Mutex
	lru    *simplelru.LRU
	hits   int
	misses int
}

func NewEstimator(options ...Option) *Estimator {
	e := &Estimator{size: DefaultCacheSize}
	for _, option := range options {
		option(e)
	}
	lru, err := simplelru.NewLRU(e.size, nil)
	if err != nil {
		panic("invalid estimator cache size")
	}
	e.lru = lru
	return e
}

func (e *Estimator) Rolls(current, target game.Resources, cutoff int, prod game.Production, ports game.PortFlags) (Estimate, error) {
	k := key{current: current, target: target, cutoff: cutoff, prod: prod, ports: ports}

	e.mux.Lock()
	defer e.mux.Unlock()
	if cached, ok := e.lru.Get(k); ok {
		e.hits++
		hit := cached.(entry)
		return hit.estimate, hit.err
	}
	e.misses++
	est, err := Rolls(current, target, cutoff, prod, ports)
	e.lru.Add(k, entry{estimate: est, err: err})
	return est, err
}

// RollsOrSentinel swallows a cutoff and reports sentinel instead.
func (e *Estimator) RollsOrSentinel(current, target game.Resources, cutoff int, prod game.Production, ports game.PortFlags, sentinel int) int {
	est, err := e.Rolls(current, target, cutoff, prod, ports)
	if err != nil {
		return sentinel
	}
	return est.Rolls
}

func (e *Estimator) BuildingETAs(hand game.Resources, prod game.Production, ports game.PortFlags, cutoff, sentinel int) [game.NumPieceTypes]int {
	var etas [game.NumPieceTypes]int
	for t := game.PieceType(0); t < game.NumPieceTypes; t++ {
		etas[t] = e.RollsOrSentinel(hand, t.Cost(), cutoff, prod, ports, sentinel)
	}
	return etas
}

func (e *Estimator) Speedup(prod, extra game.Production, ports, extraPorts game.PortFlags, cutoff int) int {
	var empty game.Resources
	before := e.BuildingETAs(empty, prod, ports, cutoff, cutoff)
	after := e.BuildingETAs(empty, prod.Add(extra), ports|extraPorts, cutoff, cutoff)
	total := 0
	for t := range before {
		total += before[t] - after[t]
	}
	return total
}

// Stats reports cache hits and misses so far.
func (e *Estimator) Stats() (hits, misses int) {
	e.mux.Lock()
	defer e.mux.Unlock()
	return e.hits, e.misses
}
