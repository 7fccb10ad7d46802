package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSoundFontMapPadsToLongest(t *testing.T) {
	m := NewSoundFontMap([]SoundFont{
		{1, 0.5},
		{0.25},
		{0.1, 0.2, 0.3},
	})

	assert.Equal(t, 3, m.Stride)
	assert.Equal(t, SoundFont{1, 0.5, 0}, m.Fonts[0])
	assert.Equal(t, SoundFont{0.25, 0, 0}, m.Fonts[1])
	assert.Equal(t, SoundFont{0.1, 0.2, 0.3}, m.Fonts[2])
}

func TestFlattenIndexing(t *testing.T) {
	fonts := []SoundFont{
		{1, 0.5},
		{0.25, 0.125, 0.0625},
	}
	m := NewSoundFontMap(fonts)
	flat := m.Flatten()

	assert.Len(t, flat, len(fonts)*m.Stride)
	for i, f := range fonts {
		for h, w := range f {
			assert.Equal(t, w, flat[i*m.Stride+h])
		}
	}
}

func TestNewSoundFontMapEmpty(t *testing.T) {
	m := NewSoundFontMap(nil)

	assert.Equal(t, 0, m.Stride)
	assert.Empty(t, m.Flatten())
}
