// Package config parses the command line and the tuning file.
package config

import (
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

const Version = "0.1.0"

const (
	CommandPlay     = "play"
	CommandSessions = "sessions"
	CommandReplay   = "replay"
)

// Config is the parsed command line.
type Config struct {
	Command   string
	Directory string
	SessionID int64

	Settings    string
	Seed        int64
	Delay       time.Duration
	FramePeriod time.Duration
	Detector    string
	DB          string
	Record      bool
	Silent      bool
	LogFile     string
	LogLevel    string
}

func Parse(args []string) (*Config, error) {
	cfg := &Config{}
	app := kingpin.New("beatfall", "Falling-target rhythm game driven by the beats of a song.")
	app.Version(Version)

	app.Flag("settings", "Tuning YAML file").Short('c').StringVar(&cfg.Settings)
	app.Flag("seed", "Column RNG seed, 0 picks one from the clock").Default("0").Int64Var(&cfg.Seed)
	app.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&cfg.Delay)
	app.Flag("frame-period", "Render frame period").Default("16ms").Short('p').DurationVar(&cfg.FramePeriod)
	app.Flag("detector", "Beat source: auto, energy or chart").Default("auto").EnumVar(&cfg.Detector, "auto", "energy", "chart")
	app.Flag("db", "Session journal database").Default("./sessions.db").StringVar(&cfg.DB)
	app.Flag("record", "Record the session for replay").Default("true").BoolVar(&cfg.Record)
	app.Flag("silent", "Play without sound, timed by the wall clock").BoolVar(&cfg.Silent)
	app.Flag("log-file", "Log destination while playing").Default("beatfall.log").StringVar(&cfg.LogFile)
	app.Flag("log-level", "Log level").Default("info").EnumVar(&cfg.LogLevel, "debug", "info", "warn", "error")

	play := app.Command(CommandPlay, "Play the song in a directory").Default()
	play.Arg("directory", "Song directory").Required().ExistingDirVar(&cfg.Directory)

	app.Command(CommandSessions, "List recorded sessions")

	replay := app.Command(CommandReplay, "Re-simulate a recorded session")
	replay.Arg("id", "Session id").Required().Int64Var(&cfg.SessionID)

	cmd, err := app.Parse(args)
	if nil != err {
		return nil, err
	}
	cfg.Command = cmd
	return cfg, nil
}
