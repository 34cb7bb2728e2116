package engine

import "settlers/experiments/metrics"

type Engine interface {
	// Run plays a game till there's a winner or the turn cap is reached
	Run() (winner int, gameMetric metrics.GameMetric, turnMetrics []metrics.TurnMetric)
}
