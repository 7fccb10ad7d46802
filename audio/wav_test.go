package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
)

func writeTestWav(t *testing.T, rate, bitDepth, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	assert.NoError(t, err)
	defer f.Close()

	e := wav.NewEncoder(f, rate, bitDepth, channels, 1)
	err = e.Write(&gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	assert.NoError(t, err)
	assert.NoError(t, e.Close())
	return path
}

func TestDecodeWavMono16Bit(t *testing.T) {
	path := writeTestWav(t, 44100, 16, 1, []int{0, 16384, -16384, 32767})

	w, err := DecodeWavFile(path)
	assert.NoError(t, err)

	assert.Equal(t, 44100, w.SampleRate)
	assert.Len(t, w.Samples, 4)
	assert.InDelta(t, 0.0, w.Samples[0], 1e-4)
	assert.InDelta(t, 0.5, w.Samples[1], 1e-4)
	assert.InDelta(t, -0.5, w.Samples[2], 1e-4)
	assert.InDelta(t, 1.0, w.Samples[3], 1e-4)
}

func TestDecodeWavStereoAveragesToMono(t *testing.T) {
	// interleaved L/R frames
	path := writeTestWav(t, 22050, 16, 2, []int{16384, -16384, 8192, 8192})

	w, err := DecodeWavFile(path)
	assert.NoError(t, err)

	assert.Equal(t, 22050, w.SampleRate)
	assert.Len(t, w.Samples, 2)
	assert.InDelta(t, 0.0, w.Samples[0], 1e-4)
	assert.InDelta(t, 0.25, w.Samples[1], 1e-4)
}

func TestDecodeWavRejectsGarbage(t *testing.T) {
	_, err := DecodeWav(bytes.NewReader([]byte("not a wav file at all")))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeWavMissingFile(t *testing.T) {
	_, err := DecodeWavFile(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	w := &WavData{Samples: make([]float64, 44100), SampleRate: 44100}
	assert.InDelta(t, 1.0, w.Duration(), 1e-9)

	empty := &WavData{}
	assert.Equal(t, 0.0, empty.Duration())
}
