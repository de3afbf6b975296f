// Package audio decodes song files and exposes playback as a clock.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var (
	ErrMissingAsset = errors.New("missing audio asset")
	ErrUnsupported  = errors.New("unsupported audio format")
)

// Track is a fully decoded song held in memory, so the same samples can be
// analysed for beats and then played.
type Track struct {
	Path   string
	buffer *beep.Buffer
}

func Load(path string) (*Track, error) {
	f, err := os.Open(path)
	if nil != err {
		return nil, fmt.Errorf("%w: %v", ErrMissingAsset, err)
	}

	streamer, format, err := decode(f, filepath.Ext(path))
	if nil != err {
		f.Close()
		if errors.Is(err, ErrUnsupported) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, fmt.Errorf("%w: unable to decode %s: %v", ErrMissingAsset, path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	if err := streamer.Err(); nil != err {
		return nil, fmt.Errorf("%w: unable to read %s: %v", ErrMissingAsset, path, err)
	}

	return &Track{Path: path, buffer: buffer}, nil
}

func decode(f io.ReadCloser, ext string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		return mp3.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	case ".wav":
		return wav.Decode(f)
	}
	return nil, beep.Format{}, ErrUnsupported
}

func (t *Track) Format() beep.Format {
	return t.buffer.Format()
}

// Length is the duration of the track in seconds.
func (t *Track) Length() float64 {
	return t.buffer.Format().SampleRate.D(t.buffer.Len()).Seconds()
}

// Samples returns a copy of every decoded stereo frame.
func (t *Track) Samples() [][2]float64 {
	out := make([][2]float64, t.buffer.Len())
	s := t.buffer.Streamer(0, t.buffer.Len())
	for n := 0; n < len(out); {
		read, ok := s.Stream(out[n:])
		n += read
		if !ok {
			return out[:n]
		}
	}
	return out
}

// Streamer returns a fresh stream over the whole track.
func (t *Track) Streamer() beep.StreamSeeker {
	return t.buffer.Streamer(0, t.buffer.Len())
}

// Assets are the files found in a song directory.
type Assets struct {
	Audio string
	Chart string // optional StepMania chart
}

var audioExts = map[string]bool{".mp3": true, ".ogg": true, ".wav": true}

// FindAssets walks dir for a playable audio file and an optional .sm chart.
// Ogg files are preferred over mp3, and mp3 over wav.
func FindAssets(dir string) (Assets, error) {
	var assets Assets
	rank := map[string]int{".ogg": 3, ".mp3": 2, ".wav": 1}

	if err := filepath.Walk(dir, func(p string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(info.Name()))
		switch {
		case audioExts[ext]:
			if assets.Audio == "" || rank[ext] > rank[strings.ToLower(filepath.Ext(assets.Audio))] {
				assets.Audio = p
			}
		case ext == ".sm":
			assets.Chart = p
		}
		return nil
	}); nil != err {
		return assets, fmt.Errorf("%w: unable to walk song directory: %v", ErrMissingAsset, err)
	}

	if assets.Audio == "" {
		return assets, fmt.Errorf("%w: no .ogg, .mp3 or .wav file in %s", ErrMissingAsset, dir)
	}
	return assets, nil
}
