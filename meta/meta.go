// meta/meta.go
package meta

// MAX_TURNS caps a self-play game, in rounds of the table.
const MAX_TURNS = 300

// SEATS is the default number of players at the table.
const SEATS = 4

// MAX_BUILDS_PER_TURN bounds how often a seat replans within one turn.
const MAX_BUILDS_PER_TURN = 6

// NUM_GAMES is the default number of games per matchup.
const NUM_GAMES = 20

// CACHE_SIZE is the roll estimate cache shared by the seats of a game.
const CACHE_SIZE = 8192
