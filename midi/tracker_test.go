package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"midigraph/model"
)

func channelZeroOnly() [16]int {
	var indexes [16]int
	for i := range indexes {
		indexes[i] = model.IgnoredFont
	}
	indexes[0] = 0
	return indexes
}

func TestBuildSnapshotsSingleNote(t *testing.T) {
	song := &Song{
		Tempo: NewTempoMap(480, nil),
		Notes: []model.NoteEvent{
			{Tick: 0, Channel: 0, Pitch: 69, Velocity: 100, On: true},
			{Tick: 480, Channel: 0, Pitch: 69, On: false},
		},
	}

	snapshots := BuildSnapshots(song, channelZeroOnly(), 69)

	assert.Equal(t, []model.Snapshot{
		{TimeMs: 0, Notes: []model.SnapshotNote{{Semitone: 0, Velocity: 100, Soundfont: 0}}},
		{TimeMs: 500, Notes: []model.SnapshotNote{}},
	}, snapshots)
}

func TestBuildSnapshotsEmptySong(t *testing.T) {
	song := &Song{Tempo: NewTempoMap(480, nil)}

	snapshots := BuildSnapshots(song, channelZeroOnly(), 69)

	assert.Equal(t, []model.Snapshot{{TimeMs: 0, Notes: []model.SnapshotNote{}}}, snapshots)
}

func TestBuildSnapshotsZeroVelocityOnIsOff(t *testing.T) {
	song := &Song{
		Tempo: NewTempoMap(480, nil),
		Notes: []model.NoteEvent{
			{Tick: 0, Channel: 0, Pitch: 60, Velocity: 90, On: true},
			{Tick: 480, Channel: 0, Pitch: 60, Velocity: 0, On: true},
		},
	}

	snapshots := BuildSnapshots(song, channelZeroOnly(), 69)

	assert.Len(t, snapshots, 2)
	assert.Empty(t, snapshots[1].Notes)
}

func TestBuildSnapshotsUnmatchedOffIsNoOp(t *testing.T) {
	song := &Song{
		Tempo: NewTempoMap(480, nil),
		Notes: []model.NoteEvent{
			{Tick: 0, Channel: 0, Pitch: 60, On: false},
			{Tick: 480, Channel: 0, Pitch: 69, Velocity: 100, On: true},
		},
	}

	snapshots := BuildSnapshots(song, channelZeroOnly(), 69)

	assert.Equal(t, []model.Snapshot{
		{TimeMs: 0, Notes: []model.SnapshotNote{}},
		{TimeMs: 500, Notes: []model.SnapshotNote{{Semitone: 0, Velocity: 100, Soundfont: 0}}},
	}, snapshots)
}

func TestBuildSnapshotsCoalescesSameMillisecond(t *testing.T) {
	// three pitches of a chord land on the same tick; only the final
	// combined state survives
	song := &Song{
		Tempo: NewTempoMap(480, nil),
		Notes: []model.NoteEvent{
			{Tick: 0, Channel: 0, Pitch: 60, Velocity: 80, On: true},
			{Tick: 0, Channel: 0, Pitch: 64, Velocity: 80, On: true},
			{Tick: 0, Channel: 0, Pitch: 67, Velocity: 80, On: true},
			{Tick: 480, Channel: 0, Pitch: 60, On: false},
			{Tick: 480, Channel: 0, Pitch: 64, On: false},
			{Tick: 480, Channel: 0, Pitch: 67, On: false},
		},
	}

	snapshots := BuildSnapshots(song, channelZeroOnly(), 69)

	assert.Len(t, snapshots, 2)
	assert.Equal(t, []model.SnapshotNote{
		{Semitone: -9, Velocity: 80, Soundfont: 0},
		{Semitone: -5, Velocity: 80, Soundfont: 0},
		{Semitone: -2, Velocity: 80, Soundfont: 0},
	}, snapshots[0].Notes)
}

func TestBuildSnapshotsRevertWithinMillisecondCancelsOut(t *testing.T) {
	// a note that starts and stops on the same millisecond leaves no trace
	song := &Song{
		Tempo: NewTempoMap(480, nil),
		Notes: []model.NoteEvent{
			{Tick: 0, Channel: 0, Pitch: 60, Velocity: 80, On: true},
			{Tick: 480, Channel: 0, Pitch: 64, Velocity: 80, On: true},
			{Tick: 480, Channel: 0, Pitch: 64, On: false},
		},
	}

	snapshots := BuildSnapshots(song, channelZeroOnly(), 69)

	assert.Equal(t, []model.Snapshot{
		{TimeMs: 0, Notes: []model.SnapshotNote{{Semitone: -9, Velocity: 80, Soundfont: 0}}},
	}, snapshots)
}

func TestBuildSnapshotsIgnoredChannelEmitsNothing(t *testing.T) {
	song := &Song{
		Tempo: NewTempoMap(480, nil),
		Notes: []model.NoteEvent{
			{Tick: 0, Channel: 9, Pitch: 36, Velocity: 120, On: true},
			{Tick: 480, Channel: 9, Pitch: 36, On: false},
		},
	}

	snapshots := BuildSnapshots(song, channelZeroOnly(), 69)

	assert.Equal(t, []model.Snapshot{{TimeMs: 0, Notes: []model.SnapshotNote{}}}, snapshots)
}

func TestBuildSnapshotsOrdersByChannelThenPitch(t *testing.T) {
	var indexes [16]int
	for i := range indexes {
		indexes[i] = model.IgnoredFont
	}
	indexes[0] = 0
	indexes[1] = 1

	song := &Song{
		Tempo: NewTempoMap(480, nil),
		Notes: []model.NoteEvent{
			{Tick: 0, Channel: 1, Pitch: 72, Velocity: 50, On: true},
			{Tick: 0, Channel: 0, Pitch: 76, Velocity: 60, On: true},
			{Tick: 0, Channel: 0, Pitch: 64, Velocity: 70, On: true},
		},
	}

	snapshots := BuildSnapshots(song, indexes, 69)

	assert.Equal(t, []model.SnapshotNote{
		{Semitone: -5, Velocity: 70, Soundfont: 0},
		{Semitone: 7, Velocity: 60, Soundfont: 0},
		{Semitone: 3, Velocity: 50, Soundfont: 1},
	}, snapshots[0].Notes)
}

func TestBuildSnapshotsNeverExceedsEventCount(t *testing.T) {
	notes := []model.NoteEvent{
		{Tick: 0, Channel: 0, Pitch: 60, Velocity: 80, On: true},
		{Tick: 10, Channel: 0, Pitch: 62, Velocity: 80, On: true},
		{Tick: 20, Channel: 0, Pitch: 60, On: false},
		{Tick: 30, Channel: 0, Pitch: 62, On: false},
	}
	song := &Song{Tempo: NewTempoMap(480, nil), Notes: notes}

	snapshots := BuildSnapshots(song, channelZeroOnly(), 69)

	assert.LessOrEqual(t, len(snapshots), len(notes)+1)
}
