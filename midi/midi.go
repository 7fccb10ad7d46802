package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrMalformed wraps any failure to parse a MIDI container.
var ErrMalformed = errors.New("malformed midi")

// ReadFile reads and parses a standard MIDI file from disk.
func ReadFile(path string) (*smf.SMF, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading midi file: %w", err)
	}
	return Read(dat)
}

// Read parses standard MIDI file bytes.
func Read(data []byte) (s *smf.SMF, e error) {
	// gomidi panics on some truncated files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			e = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return res, nil
}
