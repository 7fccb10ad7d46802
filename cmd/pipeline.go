package cmd

import (
	"midigraph/config"
	"midigraph/formula"
	"midigraph/midi"
	"midigraph/model"
	"midigraph/soundfont"
)

// Convert runs the whole MIDI-to-formula pipeline: parse, resolve
// soundfonts, build snapshots, compile. selectors may be empty for
// defaults; any failure aborts with no partial output.
func Convert(path string, selectors []string, c config.Config) (string, error) {
	parsed, err := midi.ReadFile(path)
	if err != nil {
		return "", err
	}
	song, err := midi.Parse(parsed, c.DrumChannel)
	if err != nil {
		return "", err
	}
	assignment, err := soundfont.Resolve(song.Channels, selectors, c.Soundfonts)
	if err != nil {
		return "", err
	}

	processed := &model.ProcessedSong{
		Snapshots:  midi.BuildSnapshots(song, assignment.Indexes, c.ReferencePitch),
		Channels:   song.Channels,
		SoundFonts: model.NewSoundFontMap(assignment.Fonts),
	}
	return formula.Compile(processed, formula.Options{MaxLength: c.MaxFormulaLength})
}

// Info parses a MIDI file and reports its channels with General MIDI
// instrument names.
func Info(path string, c config.Config) ([]model.ChannelInfo, error) {
	parsed, err := midi.ReadFile(path)
	if err != nil {
		return nil, err
	}
	song, err := midi.Parse(parsed, c.DrumChannel)
	if err != nil {
		return nil, err
	}

	infos := make([]model.ChannelInfo, len(song.Channels))
	for i, ch := range song.Channels {
		infos[i] = model.ChannelInfo{
			Id:         ch.Num + 1, // channels are 1-based in display
			Instrument: soundfont.InstrumentName(ch.Program, ch.IsDrum),
			IsDrum:     ch.IsDrum,
		}
	}
	return infos, nil
}
