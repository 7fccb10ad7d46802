package model

// Pitch relative to the configured reference pitch (A4 by default),
// in semitones.
type RelativeNote = int

// SoundFont is an ordered vector of harmonic magnitude weights.
type SoundFont = []float32

// IgnoredFont marks a channel whose notes never reach the output.
const IgnoredFont = -1

// TempoChange is a tempo meta event at an absolute tick.
type TempoChange struct {
	Tick             uint64
	MicrosPerQuarter uint32
}

// NoteEvent is a single note on/off extracted from the merged
// multi-track event stream. A NoteOn with velocity 0 counts as an off.
type NoteEvent struct {
	Tick     uint64
	Channel  uint8
	Pitch    uint8
	Velocity uint8
	On       bool
}

// Channel describes a MIDI channel discovered in a file.
type Channel struct {
	Num     uint8
	Program uint8
	IsDrum  bool
}

// SnapshotNote is one sounding note inside a snapshot.
type SnapshotNote struct {
	Semitone  RelativeNote
	Velocity  uint8
	Soundfont int
}

// Snapshot captures the full set of sounding notes at the moment the
// set changed. Notes are ordered by (channel, pitch) at build time.
type Snapshot struct {
	TimeMs int64
	Notes  []SnapshotNote
}

// SoundFontMap packs several soundfonts into one rectangular table so
// a 1-D-list-only consumer can index font i harmonic h as flat[i*Stride+h].
type SoundFontMap struct {
	Fonts  []SoundFont
	Stride int
}

// NewSoundFontMap pads every font with trailing zeros to the longest
// length and records that length as the stride.
func NewSoundFontMap(fonts []SoundFont) SoundFontMap {
	var stride int
	for _, f := range fonts {
		if len(f) > stride {
			stride = len(f)
		}
	}
	padded := make([]SoundFont, len(fonts))
	for i, f := range fonts {
		p := make(SoundFont, stride)
		copy(p, f)
		padded[i] = p
	}
	return SoundFontMap{Fonts: padded, Stride: stride}
}

// Flatten concatenates the padded fonts in order.
func (m SoundFontMap) Flatten() []float32 {
	flat := make([]float32, 0, len(m.Fonts)*m.Stride)
	for _, f := range m.Fonts {
		flat = append(flat, f...)
	}
	return flat
}

// ProcessedSong is a MIDI file reduced to snapshot form, ready for
// formula compilation.
type ProcessedSong struct {
	Snapshots  []Snapshot
	Channels   []Channel
	SoundFonts SoundFontMap
}
