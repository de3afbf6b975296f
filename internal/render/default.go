package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"git.lost.host/meutraa/beatfall/internal/theme"
)

// DefaultRenderer draws frames onto an ANSI terminal, scaling field units to
// the terminal size. Output is buffered and written once per frame.
type DefaultRenderer struct {
	Theme theme.Theme

	fieldW, fieldH float64
	cols, rows     int

	out          io.Writer
	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	Rect   Rect
	Frames int // remaining frames until removed
}

func NewDefaultRenderer(th theme.Theme, fieldW, fieldH float64) *DefaultRenderer {
	return &DefaultRenderer{
		Theme:  th,
		fieldW: fieldW,
		fieldH: fieldH,
		cols:   80,
		rows:   24,
		out:    os.Stdout,
	}
}

func (r *DefaultRenderer) Init() error {
	fd := int(os.Stdout.Fd())
	state, err := term.MakeRaw(fd)
	if nil != err {
		return err
	}
	r.restoreState = state

	if cols, rows, err := term.GetSize(fd); nil == err {
		r.Resize(cols, rows)
	}

	fmt.Fprintf(r.out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if r.restoreState == nil {
		return nil
	}
	return term.Restore(int(os.Stdout.Fd()), r.restoreState)
}

func (r *DefaultRenderer) Resize(cols, rows int) {
	if cols > 0 {
		r.cols = cols
	}
	if rows > 0 {
		r.rows = rows
	}
}

// Cell maps a field position to a 1-based terminal column and row.
func (r *DefaultRenderer) Cell(x, y float64) (int, int) {
	col := int(math.Floor(x/r.fieldW*float64(r.cols))) + 1
	row := int(math.Floor(y/r.fieldH*float64(r.rows))) + 1
	return col, row
}

func (r *DefaultRenderer) AddDecoration(rect Rect, frames int) {
	r.decorations = append(r.decorations, &decoration{Rect: rect, Frames: frames})
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames <= 0 {
			continue
		}
		r.fillRect(d.Rect)
		d.Frames--
		nd = append(nd, d)
	}
	r.decorations = nd
}

// RenderLoop calls render once per period until it returns false. The
// callback receives the wall time since its previous call.
func (r *DefaultRenderer) RenderLoop(period time.Duration, render func(dt time.Duration) bool) {
	last := time.Now()
	for {
		now := time.Now()
		dt := now.Sub(last)
		last = now
		deadline := now.Add(period)

		if !render(dt) {
			return
		}

		r.tickDecorations()
		r.flush()

		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Draw(f Frame) {
	r.buffer.WriteString("\033[H\033[2J")
	for _, rect := range f.Rects {
		r.fillRect(rect)
	}
	hud := fmt.Sprintf("Score: %d  Hits: %d  Misses: %d  Beats left: %d", f.Score, f.Hits, f.Misses, f.Pending)
	if f.Tempo > 0 {
		hud += fmt.Sprintf("  %.0f bpm", f.Tempo)
	}
	r.Fill(1, 2, r.Theme.RenderHUD(hud))
}

func (r *DefaultRenderer) glyph(k Kind) string {
	switch k {
	case KindDivider:
		return r.Theme.RenderDivider()
	case KindHitZone:
		return r.Theme.RenderHitZone()
	case KindTargetHit:
		return r.Theme.RenderTarget(true)
	case KindFlash:
		return r.Theme.RenderFlash()
	}
	return r.Theme.RenderTarget(false)
}

// fillRect covers every cell the rect touches, clipped to the screen. Rects
// thinner than a cell still take one.
func (r *DefaultRenderer) fillRect(rect Rect) {
	c0, r0 := r.Cell(rect.X, rect.Y)
	c1, r1 := r.Cell(rect.X+rect.W, rect.Y+rect.H)
	if c1 <= c0 {
		c1 = c0 + 1
	}
	if r1 <= r0 {
		r1 = r0 + 1
	}
	g := r.glyph(rect.Kind)
	for row := max(r0, 1); row < r1 && row <= r.rows; row++ {
		for col := max(c0, 1); col < c1 && col <= r.cols; col++ {
			r.Fill(row, col, g)
		}
	}
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) flush() {
	io.WriteString(r.out, r.buffer.String())
	r.buffer.Reset()
}
