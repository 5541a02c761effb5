package match

// TicksPerSecond is the fixed simulation rate. Every cadence and countdown
// in the engine is expressed in these ticks.
const TicksPerSecond = 20

// Staggered cadences relative to the arena tick counter. Offsetting the
// 10-tick jobs keeps regeneration and trap scans off the same tick.
const (
	regenCadence    = 10 // ticks%10 == 0
	trapCadence     = 10 // ticks%10 == 5
	trapOffset      = 5
	auraCadence     = 5 // ticks%5 == 0
	secondCadence   = 20 // ticks%20 == 0, drives countdowns and polls
)

// SecondsPerHour sizes effect durations that should outlast any match.
const SecondsPerHour = 3600

// SecondsToTicks converts whole seconds to ticks.
func SecondsToTicks(s int) int64 {
	return int64(s) * TicksPerSecond
}
