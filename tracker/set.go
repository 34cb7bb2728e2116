package tracker

import (
	"errors"
	"fmt"
	"math"

	"settlers/estimator"
	"settlers/game"
)

// MaxETA is the win ETA of a player nobody could estimate yet.
const MaxETA = math.MaxInt

const (
	DefaultReachDepth    = 3
	DefaultCutoff        = 100
	DefaultSentinel      = 100
	DefaultCardPlayDelay = 4
)

var (
	ErrUndoOrder        = errors.New("undo out of order")
	ErrUnknownPiece     = errors.New("unknown possible piece")
	ErrIllegalPlacement = errors.New("illegal hypothetical placement")
)

type settings struct {
	reachDepth    int
	cutoff        int
	sentinel      int
	cardPlayDelay int
}

type Option func(s *Set)

// WithReachDepth bounds how many roads away a settlement site is tracked.
func WithReachDepth(depth int) Option {
	return func(s *Set) {
		if depth > 0 {
			s.cfg.reachDepth = depth
		}
	}
}

func WithCutoff(cutoff int) Option {
	return func(s *Set) {
		if cutoff > 0 {
			s.cfg.cutoff = cutoff
		}
	}
}

// WithSentinel sets the ETA reported for anything past the cutoff.
func WithSentinel(sentinel int) Option {
	return func(s *Set) {
		if sentinel > 0 {
			s.cfg.sentinel = sentinel
		}
	}
}

func WithCardPlayDelay(delay int) Option {
	return func(s *Set) {
		if delay >= 0 {
			s.cfg.cardPlayDelay = delay
		}
	}
}

// Set is the trackers of every seat of one game. A Set is not safe for
// concurrent use; independent games use independent sets.
type Set struct {
	Game     *game.Game
	Trackers []*PlayerTracker
	est      *estimator.Estimator
	cfg      settings
	journal  []snapshot
}

// snapshot is the state one Apply replaced. Trackers are kept by value:
// refresh swaps in new maps and never touches the old possibilities.
type snapshot struct {
	game     *game.Game
	trackers []PlayerTracker
}

// Undo restores the state before one Apply.
type Undo struct {
	depth int
	piece game.Piece
}

func NewSet(g *game.Game, est *estimator.Estimator, options ...Option) *Set {
	if est == nil {
		panic("tracker set needs an estimator")
	}
	s := &Set{
		Game: g,
		est:  est,
		cfg: settings{
			reachDepth:    DefaultReachDepth,
			cutoff:        DefaultCutoff,
			sentinel:      DefaultSentinel,
			cardPlayDelay: DefaultCardPlayDelay,
		},
	}
	for _, option := range options {
		option(s)
	}
	s.Trackers = make([]*PlayerTracker, len(g.Players))
	for i := range s.Trackers {
		s.Trackers[i] = NewPlayerTracker(i)
	}
	s.Refresh()
	return s
}

func (s *Set) Estimator() *estimator.Estimator {
	return s.est
}

func (s *Set) Tracker(player int) *PlayerTracker {
	return s.Trackers[player]
}

func (s *Set) Cutoff() int {
	return s.cfg.cutoff
}

func (s *Set) Sentinel() int {
	return s.cfg.sentinel
}

func (s *Set) CardPlayDelay() int {
	return s.cfg.cardPlayDelay
}

// Copy returns an independent set over a copy of the game.
func (s *Set) Copy() *Set {
	c := &Set{
		Game:     s.Game.Copy(),
		Trackers: make([]*PlayerTracker, len(s.Trackers)),
		est:      s.est,
		cfg:      s.cfg,
	}
	for i, t := range s.Trackers {
		c.Trackers[i] = t.copy()
	}
	return c
}

// Refresh rebuilds every tracker from the board, in player order. Win ETAs
// are left uncomputed.
func (s *Set) Refresh() {
	s.Game.UpdateLongestRoad()
	for _, t := range s.Trackers {
		t.refresh(s)
	}
	s.updateThreats()
}

// ResetScores clears every score and recomputes threats, once per planning cycle.
func (s *Set) ResetScores() {
	for _, t := range s.Trackers {
		t.resetScores()
	}
	s.updateThreats()
}

func (s *Set) check(pc game.Piece) error {
	g := s.Game
	if pc.Player < 0 || pc.Player >= len(g.Players) {
		return fmt.Errorf("player %d: %w", pc.Player, ErrIllegalPlacement)
	}
	if g.Players[pc.Player].PiecesLeft(pc.Type) <= 0 {
		return fmt.Errorf("%s: %w: %w", pc, ErrIllegalPlacement, game.ErrNoPieces)
	}
	var legal bool
	switch pc.Type {
	case game.Settlement:
		legal = pc.Coord >= 0 && pc.Coord < len(g.NodeOwner) && g.IsPotentialSettlement(game.NodeID(pc.Coord))
	case game.City:
		legal = pc.Coord >= 0 && pc.Coord < len(g.NodeOwner) && g.IsLegalCity(pc.Player, game.NodeID(pc.Coord))
	case game.Road:
		legal = pc.Coord >= 0 && pc.Coord < len(g.EdgeOwner) && g.EdgeOwner[pc.Coord] == game.None
	}
	if !legal {
		return fmt.Errorf("%s: %w", pc, ErrIllegalPlacement)
	}
	return nil
}

func placement(p Piece) (game.Piece, error) {
	pc, ok := Placement(p)
	if !ok {
		return game.Piece{}, fmt.Errorf("%s: %w", Describe(p), ErrUnknownPiece)
	}
	return pc, nil
}

// TryPlace returns a new set with p placed and every tracker refreshed.
// The receiver is left untouched.
func (s *Set) TryPlace(p Piece) (*Set, error) {
	return s.TryPlaceAll(p)
}

// TryPlaceAll places pieces in order on one copy.
func (s *Set) TryPlaceAll(pieces ...Piece) (*Set, error) {
	c := s.Copy()
	for _, p := range pieces {
		pc, err := placement(p)
		if err != nil {
			return nil, err
		}
		if err := c.check(pc); err != nil {
			return nil, err
		}
		c.Game.PutTempPiece(pc)
	}
	c.Refresh()
	return c, nil
}

// TryCard returns a new set where player holds one more card of kind.
// A knight is played at once.
func (s *Set) TryCard(player int, kind game.DevCardType) *Set {
	c := s.Copy()
	pl := c.Game.Players[player]
	if kind == game.Knight {
		pl.Knights++
		c.Game.UpdateLargestArmy()
	} else {
		pl.DevCards.Add(kind, false)
	}
	c.Refresh()
	return c
}

// TryKnights returns a new set where player has played n more knights.
func (s *Set) TryKnights(player, n int) *Set {
	c := s.Copy()
	c.Game.Players[player].Knights += n
	c.Game.UpdateLargestArmy()
	c.Refresh()
	return c
}

// Apply places p in place. Undo with the returned token restores the exact
// prior state; tokens must be undone last in, first out.
func (s *Set) Apply(p Piece) (Undo, error) {
	pc, err := placement(p)
	if err != nil {
		return Undo{}, err
	}
	if err := s.check(pc); err != nil {
		return Undo{}, err
	}
	snap := snapshot{game: s.Game.Copy(), trackers: make([]PlayerTracker, len(s.Trackers))}
	for i, t := range s.Trackers {
		snap.trackers[i] = *t
	}
	s.journal = append(s.journal, snap)
	s.Game.PutTempPiece(pc)
	s.Refresh()
	return Undo{depth: len(s.journal), piece: pc}, nil
}

func (s *Set) Undo(u Undo) error {
	if u.depth == 0 || u.depth != len(s.journal) {
		return fmt.Errorf("undo of %s at depth %d with %d pending: %w", u.piece, u.depth, len(s.journal), ErrUndoOrder)
	}
	snap := s.journal[len(s.journal)-1]
	s.journal = s.journal[:len(s.journal)-1]
	if len(s.journal) == 0 {
		s.journal = nil
	}

	// Restore into the objects callers may hold.
	g := s.Game
	players, nodes, cities, edges := g.Players, g.NodeOwner, g.Cities, g.EdgeOwner
	*g = *snap.game
	for i, pl := range players {
		*pl = *snap.game.Players[i]
	}
	copy(nodes, snap.game.NodeOwner)
	copy(cities, snap.game.Cities)
	copy(edges, snap.game.EdgeOwner)
	g.Players, g.NodeOwner, g.Cities, g.EdgeOwner = players, nodes, cities, edges
	for i, t := range s.Trackers {
		*t = snap.trackers[i]
	}
	return nil
}

// Pending is the number of applied pieces not yet undone.
func (s *Set) Pending() int {
	return len(s.journal)
}
