package audio

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"midigraph/config"
	"midigraph/model"
)

// ErrOutOfRange means an analysis parameter lies outside the
// configured limits. Rejected before any computation starts.
var ErrOutOfRange = errors.New("analysis parameter out of range")

// Params control one harmonic extraction pass.
type Params struct {
	Samples   int     // FFT window length, must be a power of two
	StartTime float64 // offset into the buffer, seconds
	BaseFreq  float64 // fundamental frequency, Hz
	Harmonics int     // number of harmonics to extract
	Boost     float64 // multiplier applied to every weight
}

// DefaultParams mirror the CLI defaults of the analyze command.
func DefaultParams() Params {
	return Params{
		Samples:   8192,
		StartTime: 0.0,
		BaseFreq:  440.0,
		Harmonics: 16,
		Boost:     1.0,
	}
}

func (p Params) validate(limits config.AnalysisLimits) error {
	switch {
	case p.Samples < limits.MinSamples || p.Samples > limits.MaxSamples:
		return fmt.Errorf("%w: samples %v outside [%v, %v]",
			ErrOutOfRange, p.Samples, limits.MinSamples, limits.MaxSamples)
	case p.Samples&(p.Samples-1) != 0:
		return fmt.Errorf("%w: samples %v is not a power of two", ErrOutOfRange, p.Samples)
	case p.StartTime < limits.MinStartTime || p.StartTime > limits.MaxStartTime:
		return fmt.Errorf("%w: start time %v outside [%v, %v]",
			ErrOutOfRange, p.StartTime, limits.MinStartTime, limits.MaxStartTime)
	case p.BaseFreq < limits.MinBaseFreq || p.BaseFreq > limits.MaxBaseFreq:
		return fmt.Errorf("%w: base frequency %v outside [%v, %v]",
			ErrOutOfRange, p.BaseFreq, limits.MinBaseFreq, limits.MaxBaseFreq)
	case p.Harmonics < limits.MinHarmonics || p.Harmonics > limits.MaxHarmonics:
		return fmt.Errorf("%w: harmonics %v outside [%v, %v]",
			ErrOutOfRange, p.Harmonics, limits.MinHarmonics, limits.MaxHarmonics)
	case p.Boost < limits.MinBoost || p.Boost > limits.MaxBoost:
		return fmt.Errorf("%w: boost %v outside [%v, %v]",
			ErrOutOfRange, p.Boost, limits.MinBoost, limits.MaxBoost)
	}
	return nil
}

// Analyze extracts harmonic magnitudes from a window of the buffer.
// The window is a raw rectangular slice, zero padded past the end of
// the buffer; no window function is applied. For harmonic k the FFT
// bin is round(k*baseFreq*N/rate) clamped to [0, N/2] and the weight
// is the single-sided amplitude 2*|X[bin]|/N times the boost.
func Analyze(w *WavData, p Params, limits config.AnalysisLimits) (model.SoundFont, error) {
	if err := p.validate(limits); err != nil {
		return nil, err
	}

	start := int(math.Round(p.StartTime * float64(w.SampleRate)))
	window := make([]float64, p.Samples)
	for i := range window {
		if j := start + i; j >= 0 && j < len(w.Samples) {
			window[i] = w.Samples[j]
		}
	}

	fft := fourier.NewFFT(p.Samples)
	coeffs := fft.Coefficients(nil, window)

	n := float64(p.Samples)
	weights := make(model.SoundFont, p.Harmonics)
	for k := 1; k <= p.Harmonics; k++ {
		bin := int(math.Round(float64(k) * p.BaseFreq * n / float64(w.SampleRate)))
		if bin < 0 {
			bin = 0
		}
		if bin > p.Samples/2 {
			bin = p.Samples / 2
		}
		mag := 2 * cmplx.Abs(coeffs[bin]) / n
		weights[k-1] = float32(mag * p.Boost)
	}
	return weights, nil
}
