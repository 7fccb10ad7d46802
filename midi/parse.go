package midi

import (
	"fmt"
	"math"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"midigraph/model"
	"midigraph/util"
)

// Song is the raw material extracted from an SMF: the tempo map, the
// note events merged across tracks, and the channels that carry notes.
type Song struct {
	Tempo    *TempoMap
	Notes    []model.NoteEvent
	Channels []model.Channel
}

// Parse walks every track once, collecting tempo changes, note on/off
// events and channel programs. Note events are merged onto a single
// absolute-tick timeline, sorted by tick with the original event order
// as the tie-break.
func Parse(s *smf.SMF, drumChannel uint8) (*Song, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported timing format %v", ErrMalformed, s.TimeFormat)
	}

	var tempos []model.TempoChange
	var notes []model.NoteEvent
	programs := make(map[uint8]uint8)
	seen := make(map[uint8]bool)

	for _, track := range s.Tracks {
		var absTicks uint64
		for _, ev := range track {
			absTicks += uint64(ev.Delta)

			var ch, key, vel, prog uint8
			var bpm float64
			switch {
			case ev.Message.GetNoteOn(&ch, &key, &vel):
				notes = append(notes, model.NoteEvent{
					Tick: absTicks, Channel: ch, Pitch: key, Velocity: vel, On: true,
				})
				seen[ch] = true
			case ev.Message.GetNoteOff(&ch, &key, &vel):
				notes = append(notes, model.NoteEvent{
					Tick: absTicks, Channel: ch, Pitch: key, Velocity: vel, On: false,
				})
				seen[ch] = true
			case ev.Message.GetMetaTempo(&bpm):
				tempos = append(tempos, model.TempoChange{
					Tick: absTicks, MicrosPerQuarter: microsPerQuarter(bpm),
				})
			case ev.Message.GetProgramChange(&ch, &prog):
				if _, ok := programs[ch]; !ok {
					programs[ch] = prog
				}
			}
		}
	}

	sort.SliceStable(tempos, func(i, j int) bool {
		return tempos[i].Tick < tempos[j].Tick
	})
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Tick < notes[j].Tick
	})

	var channels []model.Channel
	for _, ch := range util.SortedKeys(seen) {
		channels = append(channels, model.Channel{
			Num:     ch,
			Program: programs[ch],
			IsDrum:  ch == drumChannel,
		})
	}

	return &Song{
		Tempo:    NewTempoMap(uint32(mt), tempos),
		Notes:    notes,
		Channels: channels,
	}, nil
}

// gomidi reports tempo meta events as BPM; the tempo map works in the
// wire unit, microseconds per quarter note.
func microsPerQuarter(bpm float64) uint32 {
	return uint32(math.Round(60000000 / bpm))
}
