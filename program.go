package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"git.lost.host/meutraa/beatfall/internal/audio"
	"git.lost.host/meutraa/beatfall/internal/beat"
	"git.lost.host/meutraa/beatfall/internal/config"
	"git.lost.host/meutraa/beatfall/internal/game"
	"git.lost.host/meutraa/beatfall/internal/input"
	"git.lost.host/meutraa/beatfall/internal/parser"
	"git.lost.host/meutraa/beatfall/internal/render"
	"git.lost.host/meutraa/beatfall/internal/replay"
	"git.lost.host/meutraa/beatfall/internal/theme"
)

// flashFrames is how long a miss flash stays on screen.
const flashFrames = 12

type Program struct {
	Config *config.Config
	Tuning config.Tuning
	Logger *log.Logger

	Parser   parser.Parser
	Detector beat.Detector
	Theme    theme.Theme
	Renderer render.Renderer

	assets   audio.Assets
	track    *audio.Track
	beats    beat.Result
	seed     int64
	state    *game.State
	recorder *replay.Recorder
}

func (p *Program) Init() error {
	// Ensure our Default implementations are used as interfaces
	p.Parser = &parser.DefaultParser{}
	p.Detector = beat.NewEnergyDetector()
	p.Theme = &theme.DefaultTheme{}

	var err error
	p.assets, err = audio.FindAssets(p.Config.Directory)
	if nil != err {
		return err
	}
	p.Logger.Info("assets found", "audio", p.assets.Audio, "chart", p.assets.Chart)

	p.track, err = audio.Load(p.assets.Audio)
	if nil != err {
		return err
	}

	if err := p.detectBeats(); nil != err {
		return err
	}
	if len(p.beats.Beats) == 0 {
		p.Logger.Warn("no beats found, nothing will fall", "audio", p.assets.Audio)
	}

	p.seed = p.Config.Seed
	if p.seed == 0 {
		p.seed = time.Now().UnixNano()
	}

	field := p.Tuning.Field
	p.state = game.NewState(field, p.beats.Beats, p.seed)
	p.state.OnMove = p.onMove
	p.state.OnUndo = p.onUndo
	p.recorder = replay.NewRecorder(filepath.Base(p.Config.Directory), p.seed, field, p.beats.Beats)

	return nil
}

// detectBeats fills p.beats from the chart or the audio, depending on the
// detector flag. In auto mode a chart wins when it parses.
func (p *Program) detectBeats() error {
	mode := p.Config.Detector
	if mode == "chart" && p.assets.Chart == "" {
		return fmt.Errorf("%w: no .sm chart in %s", audio.ErrMissingAsset, p.Config.Directory)
	}

	if mode != "energy" && p.assets.Chart != "" {
		result, err := p.chartBeats()
		switch {
		case nil == err:
			p.beats = result
			p.Logger.Info("beats loaded", "source", "chart", "count", len(result.Beats), "bpm", result.Tempo)
			return nil
		case mode == "chart":
			return err
		}
		p.Logger.Warn("unusable chart, detecting beats from audio", "chart", p.assets.Chart, "err", err)
	}

	result, err := p.Detector.Detect(p.track.Samples(), int(p.track.Format().SampleRate))
	if nil != err {
		return err
	}
	p.beats = result
	p.Logger.Info("beats detected", "source", "energy", "count", len(result.Beats), "bpm", result.Tempo)
	return nil
}

func (p *Program) chartBeats() (beat.Result, error) {
	meta, err := p.Parser.Parse(p.assets.Chart)
	if nil != err {
		return beat.Result{}, err
	}
	p.Logger.Info("chart", "title", meta.Title, "artist", meta.Artist, "difficulties", len(meta.Difficulties))
	return beat.ChartBeats(meta, p.track.Length())
}

func (p *Program) onMove(m game.Move) {
	if m.Kind != game.MoveMiss {
		return
	}
	field := p.Tuning.Field
	p.Renderer.AddDecoration(render.Rect{
		X:    field.ColumnX(m.Column),
		Y:    field.HitZoneY - field.TargetSize/2,
		W:    field.TargetSize,
		H:    field.TargetSize,
		Kind: render.KindFlash,
	}, flashFrames)
}

func (p *Program) onUndo(u game.UndoResult) {
	if u == game.UndoDangling {
		p.Logger.Debug("undo of a hit whose target is gone", "score", p.state.Score)
		return
	}
	p.Logger.Debug("undo", "result", u, "score", p.state.Score)
}

// Run plays the song until it ends or the player quits.
func (p *Program) Run() error {
	logFile, err := os.OpenFile(p.Config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if nil != err {
		return err
	}
	defer logFile.Close()
	p.Logger.SetOutput(logFile)
	defer p.Logger.SetOutput(os.Stderr)

	var clock audio.Clock
	if p.Config.Silent {
		clock = audio.NewWallClock(p.track.Length())
	} else {
		player, err := audio.NewPlayer(p.track)
		if nil != err {
			return err
		}
		clock = player
	}
	defer clock.Close()

	keys, err := input.Open(input.NewKeyMap(p.Tuning))
	if nil != err {
		return err
	}
	defer keys.Close()

	field := p.Tuning.Field
	if nil == p.Renderer {
		p.Renderer = render.NewDefaultRenderer(p.Theme, field.Width, field.Height)
	}
	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer p.Renderer.Deinit()

	clock.Start(p.Config.Delay)
	p.Logger.Info("playing", "seed", p.seed, "delay", p.Config.Delay)

	p.Renderer.RenderLoop(p.Config.FramePeriod, func(elapsed time.Duration) bool {
		events := keys.Poll()
		now := clock.Now()
		dt := elapsed.Seconds()

		quit := p.state.Frame(events, now, dt)
		p.recorder.Record(events, now, dt)
		if quit {
			return false
		}

		p.Renderer.Draw(p.scene(now))
		return !(clock.Done() && p.state.Finished())
	})

	if err := keys.Err(); nil != err {
		p.Logger.Error("keyboard failed", "err", err)
	}
	p.Logger.Info("finished", "score", p.state.Score, "hits", p.state.Hits, "misses", p.state.Misses)

	if p.Config.Record {
		p.save()
	}
	return nil
}

// save stores the recorded session. A failure is logged rather than
// returned since the round itself completed.
func (p *Program) save() {
	store, err := replay.Open(p.Config.DB)
	if nil != err {
		p.Logger.Error("unable to open session journal", "db", p.Config.DB, "err", err)
		return
	}
	defer store.Close()

	id, err := store.Save(p.recorder.Session())
	if nil != err {
		p.Logger.Error("unable to save session", "err", err)
		return
	}
	p.Logger.Info("session saved", "id", id, "db", p.Config.DB)
}

// scene builds the render frame for the current state.
func (p *Program) scene(now float64) render.Frame {
	s := p.state
	field := s.Tuning
	rects := make([]render.Rect, 0, field.Columns+s.Targets.Len()+1)

	for c := 1; c < field.Columns; c++ {
		x := float64(c) * field.ColumnWidth()
		rects = append(rects, render.Rect{X: x, Y: 0, W: 0, H: field.Height, Kind: render.KindDivider})
	}
	rects = append(rects, render.Rect{X: 0, Y: field.HitZoneY, W: field.Width, H: 0, Kind: render.KindHitZone})

	for t := range s.Targets.All() {
		kind := render.KindTarget
		if t.Hit {
			kind = render.KindTargetHit
		}
		rects = append(rects, render.Rect{
			X:    field.ColumnX(t.Column),
			Y:    t.Y,
			W:    field.TargetSize,
			H:    field.TargetSize,
			Kind: kind,
		})
	}

	return render.Frame{
		Rects:   rects,
		Score:   s.Score,
		Hits:    s.Hits,
		Misses:  s.Misses,
		Pending: s.Schedule.Len(),
		Tempo:   p.beats.Tempo,
		Now:     now,
	}
}
