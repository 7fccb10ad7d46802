package midi

import (
	"midigraph/model"
	"midigraph/util"
)

// BuildSnapshots runs the channel state tracker over the merged event
// stream, emitting a snapshot whenever the cross-channel note list
// changes. indexes maps channel number to soundfont index, with
// model.IgnoredFont for channels excluded from output. The first
// snapshot always sits at t=0, even when empty.
func BuildSnapshots(song *Song, indexes [16]int, referencePitch uint8) []model.Snapshot {
	var active [16]map[uint8]uint8
	for i := range active {
		active[i] = make(map[uint8]uint8)
	}

	snapshots := []model.Snapshot{{TimeMs: 0, Notes: []model.SnapshotNote{}}}

	// Changes landing on the same millisecond coalesce into the final
	// state; a change that restores the previous state cancels out.
	emit := func(ms int64, notes []model.SnapshotNote) {
		last := &snapshots[len(snapshots)-1]
		if ms == last.TimeMs {
			if len(snapshots) > 1 && equalNotes(snapshots[len(snapshots)-2].Notes, notes) {
				snapshots = snapshots[:len(snapshots)-1]
			} else {
				last.Notes = notes
			}
			return
		}
		if !equalNotes(last.Notes, notes) {
			snapshots = append(snapshots, model.Snapshot{TimeMs: ms, Notes: notes})
		}
	}

	for _, ev := range song.Notes {
		set := active[ev.Channel]
		if ev.On && ev.Velocity > 0 {
			set[ev.Pitch] = ev.Velocity
		} else {
			// an off with no matching on is a silent no-op
			delete(set, ev.Pitch)
		}

		if indexes[ev.Channel] == model.IgnoredFont {
			continue
		}
		emit(song.Tempo.TicksToMs(ev.Tick), soundingNotes(&active, indexes, referencePitch))
	}

	return snapshots
}

// soundingNotes flattens the per-channel active sets into one list
// ordered by (channel, pitch).
func soundingNotes(active *[16]map[uint8]uint8, indexes [16]int, referencePitch uint8) []model.SnapshotNote {
	notes := make([]model.SnapshotNote, 0)
	for ch := 0; ch < 16; ch++ {
		idx := indexes[ch]
		if idx == model.IgnoredFont {
			continue
		}
		for _, pitch := range util.SortedKeys(active[ch]) {
			notes = append(notes, model.SnapshotNote{
				Semitone:  int(pitch) - int(referencePitch),
				Velocity:  active[ch][pitch],
				Soundfont: idx,
			})
		}
	}
	return notes
}

func equalNotes(a, b []model.SnapshotNote) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
