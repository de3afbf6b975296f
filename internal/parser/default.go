package parser

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
)

var ErrNoBPM = errors.New("chart declares no bpm")

// maxBPM bounds tempos so a beat always moves the clock forward.
const maxBPM = 10000

type DefaultParser struct{}

func (p *DefaultParser) Parse(file string) (*Meta, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	meta, err := p.ParseBytes(data)
	if nil != err {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return meta, nil
}

func (p *DefaultParser) ParseBytes(data []byte) (*Meta, error) {
	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := &Meta{}

	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 6 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		nKeys, ok := NKeyMap[chartType]
		if !ok {
			continue
		}
		meta.Difficulties = append(meta.Difficulties, Difficulty{
			Name:  strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
			Msd:   strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			NKeys: nKeys,
		})
	}

	for _, mdl := range strings.Split(sections[0], "#") {
		mdl = strings.TrimSpace(mdl)
		key, value, found := strings.Cut(mdl, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), ";"))

		switch key {
		case "TITLE":
			meta.Title = value
		case "ARTIST":
			meta.Artist = value
		case "OFFSET":
			offs, err := strconv.ParseFloat(value, 64)
			if nil != err {
				return nil, fmt.Errorf("bad offset %q: %w", value, err)
			}
			if math.IsNaN(offs) || math.IsInf(offs, 0) {
				return nil, fmt.Errorf("bad offset %q", value)
			}
			// StepMania offsets are negative when beat zero comes after the
			// start of the audio.
			meta.Offset = -offs
		case "BPMS":
			bpms, err := parseBPMs(value)
			if nil != err {
				return nil, err
			}
			meta.BPMs = bpms
		}
	}

	if len(meta.BPMs) == 0 {
		return nil, ErrNoBPM
	}
	return meta, nil
}

func parseBPMs(value string) ([]BPM, error) {
	value = strings.ReplaceAll(value, "\n", "")
	bpms := []BPM{}
	for _, bpm := range strings.Split(value, ",") {
		bpm = strings.TrimSpace(bpm)
		if bpm == "" {
			continue
		}
		as := strings.Split(bpm, "=")
		if len(as) != 2 {
			return nil, fmt.Errorf("bad bpm entry %q", bpm)
		}
		sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
		if nil != err {
			return nil, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
		if nil != err {
			return nil, err
		}
		if math.IsNaN(sb) || math.IsInf(sb, 0) || !(v > 0 && v <= maxBPM) {
			return nil, fmt.Errorf("bad bpm entry %q", bpm)
		}
		bpms = append(bpms, BPM{StartingBeat: sb, Value: v})
	}
	sort.SliceStable(bpms, func(i, j int) bool {
		return bpms[i].StartingBeat < bpms[j].StartingBeat
	})
	return bpms, nil
}

// BPMAt returns the tempo in effect at beat.
func (m *Meta) BPMAt(beat float64) float64 {
	sel := 0.0
	for _, bpm := range m.BPMs {
		if beat >= bpm.StartingBeat {
			sel = bpm.Value
		} else {
			break
		}
	}
	return sel
}
