package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrDecode wraps any failure to decode WAV data.
var ErrDecode = errors.New("undecodable wav data")

// WavData is a decoded PCM buffer, averaged down to mono and
// normalized to [-1, 1].
type WavData struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the buffer length in seconds.
func (w *WavData) Duration() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// DecodeWavFile reads and decodes a WAV file from disk.
func DecodeWavFile(path string) (*WavData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wav file: %w", err)
	}
	defer f.Close()
	return DecodeWav(f)
}

// DecodeWav decodes a PCM WAV stream. Multi-channel input is averaged
// down to one channel.
func DecodeWav(r io.ReadSeeker) (*WavData, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: not a wav file", ErrDecode)
	}
	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if d.WavAudioFormat != 1 {
		return nil, fmt.Errorf("%w: unsupported audio format %v", ErrDecode, d.WavAudioFormat)
	}

	bitDepth := int(d.SampleBitDepth())
	if bitDepth == 0 {
		return nil, fmt.Errorf("%w: unknown bit depth", ErrDecode)
	}
	format := d.Format()
	if format.NumChannels < 1 || format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: bad format %+v", ErrDecode, format)
	}

	bytesPerSample := (bitDepth-1)/8 + 1
	nsamples := int(d.PCMLen()) / bytesPerSample
	buf := &gaudio.IntBuffer{
		Format:         format,
		Data:           make([]int, nsamples),
		SourceBitDepth: bitDepth,
	}
	n, err := d.PCMBuffer(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	nch := format.NumChannels
	scale := math.Pow(2, float64(bitDepth-1))
	frames := n / nch
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < nch; c++ {
			sum += float64(buf.Data[i*nch+c])
		}
		mono[i] = sum / float64(nch) / scale
	}

	return &WavData{Samples: mono, SampleRate: format.SampleRate}, nil
}
