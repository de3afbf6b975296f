package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"

	"git.lost.host/meutraa/beatfall/internal/config"
	"git.lost.host/meutraa/beatfall/internal/replay"
)

func main() {
	logger := newLogger(os.Stderr, "info")
	if err := run(os.Args[1:], logger); nil != err {
		logger.Fatal("beatfall stopped", "err", err)
	}
}

func newLogger(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "beatfall",
	})
	if lvl, err := log.ParseLevel(level); nil == err {
		logger.SetLevel(lvl)
	}
	return logger
}

func run(args []string, logger *log.Logger) error {
	cfg, err := config.Parse(args)
	if nil != err {
		return err
	}
	if lvl, err := log.ParseLevel(cfg.LogLevel); nil == err {
		logger.SetLevel(lvl)
	}

	switch cfg.Command {
	case config.CommandSessions:
		return listSessions(cfg, os.Stdout)
	case config.CommandReplay:
		return replaySession(cfg, os.Stdout)
	}

	tuning, err := config.LoadTuning(cfg.Settings)
	if nil != err {
		return err
	}
	if err := tuning.Validate(); nil != err {
		return err
	}

	p := &Program{Config: cfg, Tuning: tuning, Logger: logger}
	if err := p.Init(); nil != err {
		return err
	}
	return p.Run()
}

func listSessions(cfg *config.Config, out io.Writer) error {
	store, err := replay.Open(cfg.DB)
	if nil != err {
		return err
	}
	defer store.Close()

	sessions, err := store.List()
	if nil != err {
		return err
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLAYED\tFRAMES\tSEED\tBEATS\tSONG")
	for _, s := range sessions {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\t%s\n", s.ID, s.CreatedAt.Format(time.DateTime), s.Frames, s.Seed, shortSum(s.Sum), s.Song)
	}
	return w.Flush()
}

// shortSum trims a beat grid hash to something readable in a table.
func shortSum(sum string) string {
	if len(sum) > 8 {
		return sum[:8]
	}
	return sum
}

func replaySession(cfg *config.Config, out io.Writer) error {
	store, err := replay.Open(cfg.DB)
	if nil != err {
		return err
	}
	defer store.Close()

	session, err := store.Load(cfg.SessionID)
	if nil != err {
		return err
	}
	state := replay.Run(session)
	fmt.Fprintf(out, "session %d  %s\n", session.ID, session.Song)
	fmt.Fprintf(out, "  score: %6d\n", state.Score)
	fmt.Fprintf(out, "   hits: %6d\n", state.Hits)
	fmt.Fprintf(out, " misses: %6d\n", state.Misses)
	fmt.Fprintf(out, " frames: %6d\n", len(session.Frames))
	return nil
}
