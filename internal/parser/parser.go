package parser

// Parser reads the timing metadata of a chart file.
type Parser interface {
	Parse(file string) (*Meta, error)
}

// BPM is a tempo change starting at a beat.
type BPM struct {
	StartingBeat float64
	Value        float64
}

// Difficulty is the header of a single NOTES section.
type Difficulty struct {
	Name  string
	Msd   string
	NKeys uint8
}

// Meta is the song-level timing information of a StepMania chart.
type Meta struct {
	Title        string
	Artist       string
	Offset       float64 // seconds from the start of the audio to beat zero
	BPMs         []BPM
	Difficulties []Difficulty
}

var NKeyMap = map[string]uint8{
	"dance-single": 4,
	"dance-solo":   6,
	"dance-double": 8,
}
