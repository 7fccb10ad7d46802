package soundfont

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"midigraph/config"
	"midigraph/model"
)

var (
	// ErrMissing means a referenced soundfont file is absent. The
	// conversion fails rather than substituting a default, so a wrong
	// timbre can never slip through undetected.
	ErrMissing = errors.New("soundfont not found")
	// ErrChannelMismatch means the selector list length does not match
	// the channel count.
	ErrChannelMismatch = errors.New("soundfont count does not match channel count")
)

// IgnoreSelector excludes a channel from conversion entirely.
const IgnoreSelector = "-"

// Assignment resolves each MIDI channel to an index into Fonts, or
// model.IgnoredFont for channels excluded from output.
type Assignment struct {
	Indexes [16]int
	Fonts   []model.SoundFont
}

// NormalizeName appends the .txt extension when absent. The ignore
// selector passes through untouched.
func NormalizeName(name string) string {
	if name == IgnoreSelector || strings.HasSuffix(name, ".txt") {
		return name
	}
	return name + ".txt"
}

// DefaultSelectors returns one selector per channel: the configured
// default font for regular channels, ignore for drum channels.
func DefaultSelectors(channels []model.Channel, defaultFont string) []string {
	selectors := make([]string, len(channels))
	for i, ch := range channels {
		if ch.IsDrum {
			selectors[i] = IgnoreSelector
		} else {
			selectors[i] = defaultFont
		}
	}
	return selectors
}

// Resolve maps discovered channels to soundfont indexes, loading every
// referenced font from the configured directory. No selectors means
// defaults; a single selector is replicated across all channels;
// otherwise the selector count must match the channel count exactly.
func Resolve(channels []model.Channel, selectors []string, cfg config.SoundfontConfig) (*Assignment, error) {
	switch {
	case len(selectors) == 0:
		selectors = DefaultSelectors(channels, cfg.Default)
	case len(selectors) == 1 && len(channels) > 1:
		replicated := make([]string, len(channels))
		for i := range replicated {
			replicated[i] = selectors[0]
		}
		selectors = replicated
	case len(selectors) != len(channels):
		return nil, fmt.Errorf("%w: need %v for channels, got %v",
			ErrChannelMismatch, len(channels), len(selectors))
	}

	a := &Assignment{}
	for i := range a.Indexes {
		a.Indexes[i] = model.IgnoredFont
	}

	for i, ch := range channels {
		name := NormalizeName(selectors[i])
		if name == IgnoreSelector {
			continue
		}
		font, err := ParseFile(name, cfg.Dir)
		if err != nil {
			return nil, err
		}
		a.Indexes[ch.Num] = len(a.Fonts)
		a.Fonts = append(a.Fonts, font)
	}
	return a, nil
}

// ParseFile reads a soundfont file: comma-separated decimal weights on
// a single line.
func ParseFile(name, dir string) (model.SoundFont, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %v", ErrMissing, name)
		}
		return nil, fmt.Errorf("reading soundfont %v: %w", name, err)
	}

	parts := strings.Split(strings.TrimSpace(string(data)), ",")
	font := make(model.SoundFont, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 32)
		if err != nil {
			return nil, fmt.Errorf("soundfont %v: bad weight %q: %w", name, part, err)
		}
		font = append(font, float32(v))
	}
	return font, nil
}

// Exists reports whether a named soundfont is present in dir. The
// ignore selector always exists.
func Exists(name, dir string) bool {
	if name == IgnoreSelector {
		return true
	}
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}

// Format renders weights as comma-separated decimals, rounded to five
// places for stable file output.
func Format(font model.SoundFont) string {
	parts := make([]string, len(font))
	for i, w := range font {
		rounded := math.Round(float64(w)*100000) / 100000
		parts[i] = strconv.FormatFloat(rounded, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
