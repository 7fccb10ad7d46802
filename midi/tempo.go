package midi

import (
	"sort"

	"midigraph/model"
)

// 120 BPM, the MIDI default when a file carries no tempo event.
const defaultMicrosPerQuarter = 500000

// TempoMap converts absolute ticks to wall-clock milliseconds over a
// piecewise-constant tempo schedule.
type TempoMap struct {
	ticksPerQuarter uint32
	changes         []model.TempoChange
	// cumulative (ticks × µs-per-quarter) products at each change,
	// divided down only in TicksToMs so no precision is lost at
	// segment boundaries
	cum []uint64
}

// NewTempoMap builds the lookup table from changes sorted by tick.
// A change at tick 0 is synthesized when missing, and a later change
// at the same tick replaces the earlier one.
func NewTempoMap(ticksPerQuarter uint32, changes []model.TempoChange) *TempoMap {
	merged := []model.TempoChange{{Tick: 0, MicrosPerQuarter: defaultMicrosPerQuarter}}
	for _, c := range changes {
		last := &merged[len(merged)-1]
		if c.Tick == last.Tick {
			last.MicrosPerQuarter = c.MicrosPerQuarter
		} else {
			merged = append(merged, c)
		}
	}

	cum := make([]uint64, len(merged))
	for i := 1; i < len(merged); i++ {
		prev := merged[i-1]
		cum[i] = cum[i-1] + (merged[i].Tick-prev.Tick)*uint64(prev.MicrosPerQuarter)
	}

	return &TempoMap{
		ticksPerQuarter: ticksPerQuarter,
		changes:         merged,
		cum:             cum,
	}
}

// TicksToMs resolves an absolute tick to milliseconds since tick 0.
func (m *TempoMap) TicksToMs(tick uint64) int64 {
	i := sort.Search(len(m.changes), func(i int) bool {
		return m.changes[i].Tick > tick
	}) - 1

	c := m.changes[i]
	total := m.cum[i] + (tick-c.Tick)*uint64(c.MicrosPerQuarter)
	return int64(total / (uint64(m.ticksPerQuarter) * 1000))
}
