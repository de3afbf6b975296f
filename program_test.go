package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"

	"git.lost.host/meutraa/beatfall/internal/audio"
	"git.lost.host/meutraa/beatfall/internal/config"
	"git.lost.host/meutraa/beatfall/internal/game"
	"git.lost.host/meutraa/beatfall/internal/render"
	"git.lost.host/meutraa/beatfall/internal/testdata"
)

type recordingRenderer struct {
	decorations []render.Rect
}

func (r *recordingRenderer) Init() error   { return nil }
func (r *recordingRenderer) Deinit() error { return nil }
func (r *recordingRenderer) AddDecoration(rect render.Rect, frames int) {
	r.decorations = append(r.decorations, rect)
}
func (r *recordingRenderer) RenderLoop(time.Duration, func(time.Duration) bool) {}
func (r *recordingRenderer) Draw(render.Frame)                                  {}

// songDir writes one second of silence and, optionally, the test chart.
func songDir(t *testing.T, chart bool) string {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "song.wav"))
	if nil != err {
		t.Fatal(err)
	}
	format := beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(8000), format); nil != err {
		t.Fatal(err)
	}
	f.Close()

	if chart {
		if err := os.WriteFile(filepath.Join(dir, "song.sm"), testdata.ChartBytes(), 0o644); nil != err {
			t.Fatal(err)
		}
	}
	return dir
}

func newProgram(dir, detector string) *Program {
	return &Program{
		Config: &config.Config{Directory: dir, Detector: detector, Seed: 7},
		Tuning: config.DefaultTuning(),
		Logger: log.New(io.Discard),
	}
}

func TestInitUsesChart(t *testing.T) {
	p := newProgram(songDir(t, true), "auto")
	if err := p.Init(); nil != err {
		t.Fatal(err)
	}
	expected := []float64{0.5, 1.0}
	if len(p.beats.Beats) != len(expected) {
		t.Fatalf("expected beats %v, got %v", expected, p.beats.Beats)
	}
	for i := range expected {
		if p.beats.Beats[i] != expected[i] {
			t.Fatalf("expected beats %v, got %v", expected, p.beats.Beats)
		}
	}
	if p.beats.Tempo != 120 {
		t.Errorf("expected 120 bpm, got %v", p.beats.Tempo)
	}
	if p.state.Schedule.Len() != 2 {
		t.Errorf("expected 2 scheduled spawns, got %d", p.state.Schedule.Len())
	}
	if p.seed != 7 {
		t.Errorf("expected seed 7, got %d", p.seed)
	}
}

func TestInitLogsChart(t *testing.T) {
	var buf bytes.Buffer
	p := newProgram(songDir(t, true), "auto")
	p.Logger = log.New(&buf)
	if err := p.Init(); nil != err {
		t.Fatal(err)
	}
	for _, s := range []string{"Test Pattern", "artist=beatfall", "difficulties=1"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("log %q does not mention %q", buf.String(), s)
		}
	}
}

func TestInitSkipsBrokenChart(t *testing.T) {
	dir := songDir(t, false)
	chart := []byte("#OFFSET:0;\n#BPMS:0=inf;\n")
	if err := os.WriteFile(filepath.Join(dir, "song.sm"), chart, 0o644); nil != err {
		t.Fatal(err)
	}

	if err := newProgram(dir, "auto").Init(); nil != err {
		t.Fatal("auto mode should fall back to the audio, got", err)
	}
	if err := newProgram(dir, "chart").Init(); nil == err {
		t.Fatal("chart mode should refuse an unusable chart")
	}
}

func TestInitFallsBackToEnergy(t *testing.T) {
	p := newProgram(songDir(t, false), "auto")
	if err := p.Init(); nil != err {
		t.Fatal(err)
	}
	if len(p.beats.Beats) != 0 {
		t.Errorf("expected no beats in silence, got %v", p.beats.Beats)
	}
	if !p.state.Finished() {
		t.Error("an empty schedule should leave nothing to play")
	}
}

func TestInitErrors(t *testing.T) {
	for name, tc := range map[string]struct {
		dir      string
		detector string
	}{
		"no audio":          {t.TempDir(), "auto"},
		"chart without .sm": {songDir(t, false), "chart"},
		"missing directory": {filepath.Join(t.TempDir(), "nope"), "auto"},
	} {
		err := newProgram(tc.dir, tc.detector).Init()
		if !errors.Is(err, audio.ErrMissingAsset) {
			t.Log(name, "expected ErrMissingAsset, got", err)
			t.Fail()
		}
	}
}

func TestMissFlashesColumn(t *testing.T) {
	p := newProgram(songDir(t, true), "chart")
	if err := p.Init(); nil != err {
		t.Fatal(err)
	}
	r := &recordingRenderer{}
	p.Renderer = r

	p.state.Frame([]game.Event{game.Press(2), game.Undo()}, 0, 0)

	if len(r.decorations) != 1 {
		t.Fatalf("expected one flash, got %d", len(r.decorations))
	}
	d := r.decorations[0]
	field := p.Tuning.Field
	if d.Kind != render.KindFlash || d.X != field.ColumnX(2) {
		t.Errorf("unexpected flash %+v", d)
	}
}

func TestScene(t *testing.T) {
	p := newProgram(songDir(t, true), "chart")
	if err := p.Init(); nil != err {
		t.Fatal(err)
	}
	p.state.SpawnDue(10)

	f := p.scene(10)
	counts := map[render.Kind]int{}
	for _, r := range f.Rects {
		counts[r.Kind]++
	}
	field := p.Tuning.Field
	if counts[render.KindDivider] != field.Columns-1 {
		t.Errorf("expected %d dividers, got %d", field.Columns-1, counts[render.KindDivider])
	}
	if counts[render.KindHitZone] != 1 {
		t.Errorf("expected one hit zone, got %d", counts[render.KindHitZone])
	}
	if counts[render.KindTarget] != 2 {
		t.Errorf("expected 2 targets, got %d", counts[render.KindTarget])
	}
	if f.Pending != 0 || f.Tempo != 120 || f.Now != 10 {
		t.Errorf("unexpected frame header %+v", f)
	}
}
