package soundfont

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"midigraph/config"
	"midigraph/model"
)

func writeFont(t *testing.T, dir, name, content string) {
	t.Helper()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func fontDir(t *testing.T) string {
	dir := t.TempDir()
	writeFont(t, dir, "default.txt", "1")
	writeFont(t, dir, "piano.txt", "0.5,0.25,0.125")
	return dir
}

func testConfig(dir string) config.SoundfontConfig {
	return config.SoundfontConfig{Dir: dir, Default: "default.txt"}
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "piano.txt", NormalizeName("piano"))
	assert.Equal(t, "piano.txt", NormalizeName("piano.txt"))
	assert.Equal(t, "-", NormalizeName("-"))
}

func TestParseFile(t *testing.T) {
	dir := fontDir(t)

	font, err := ParseFile("piano.txt", dir)
	assert.NoError(t, err)
	assert.Equal(t, model.SoundFont{0.5, 0.25, 0.125}, font)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile("nope.txt", t.TempDir())
	assert.ErrorIs(t, err, ErrMissing)
}

func TestParseFileBadWeight(t *testing.T) {
	dir := t.TempDir()
	writeFont(t, dir, "bad.txt", "0.5,oops,1")

	_, err := ParseFile("bad.txt", dir)
	assert.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	dir := fontDir(t)
	channels := []model.Channel{
		{Num: 0},
		{Num: 9, IsDrum: true},
	}

	a, err := Resolve(channels, nil, testConfig(dir))
	assert.NoError(t, err)

	assert.Equal(t, 0, a.Indexes[0])
	assert.Equal(t, model.IgnoredFont, a.Indexes[9])
	assert.Len(t, a.Fonts, 1)
	assert.Equal(t, model.SoundFont{1}, a.Fonts[0])
}

func TestResolveSingleSelectorReplicates(t *testing.T) {
	dir := fontDir(t)
	channels := []model.Channel{{Num: 0}, {Num: 1}, {Num: 2}}

	a, err := Resolve(channels, []string{"piano"}, testConfig(dir))
	assert.NoError(t, err)

	assert.Equal(t, 0, a.Indexes[0])
	assert.Equal(t, 1, a.Indexes[1])
	assert.Equal(t, 2, a.Indexes[2])
	assert.Len(t, a.Fonts, 3)
}

func TestResolveIgnoreSelector(t *testing.T) {
	dir := fontDir(t)
	channels := []model.Channel{{Num: 0}, {Num: 1}}

	a, err := Resolve(channels, []string{"piano", "-"}, testConfig(dir))
	assert.NoError(t, err)

	assert.Equal(t, 0, a.Indexes[0])
	assert.Equal(t, model.IgnoredFont, a.Indexes[1])
	assert.Len(t, a.Fonts, 1)
}

func TestResolveCountMismatch(t *testing.T) {
	dir := fontDir(t)
	channels := []model.Channel{{Num: 0}, {Num: 1}, {Num: 2}}

	_, err := Resolve(channels, []string{"piano", "piano"}, testConfig(dir))
	assert.ErrorIs(t, err, ErrChannelMismatch)
}

func TestResolveMissingFontFails(t *testing.T) {
	dir := fontDir(t)
	channels := []model.Channel{{Num: 0}}

	_, err := Resolve(channels, []string{"harp"}, testConfig(dir))
	assert.ErrorIs(t, err, ErrMissing)
}

func TestExists(t *testing.T) {
	dir := fontDir(t)

	assert.True(t, Exists("piano.txt", dir))
	assert.False(t, Exists("harp.txt", dir))
	assert.True(t, Exists("-", dir))
}

func TestFormatRoundsToFivePlaces(t *testing.T) {
	assert.Equal(t, "0.5,0.33333,1", Format(model.SoundFont{0.5, 0.333333333, 1.000001}))
	assert.Equal(t, "", Format(nil))
}

func TestInstrumentName(t *testing.T) {
	assert.Equal(t, "Acoustic Grand Piano", InstrumentName(0, false))
	assert.Equal(t, "Drum Kit", InstrumentName(0, true))
	assert.Equal(t, "Unknown Instrument", InstrumentName(200, false))
}
