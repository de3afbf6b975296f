package render

import (
	"time"
)

type Kind uint8

const (
	KindDivider Kind = iota
	KindHitZone
	KindTarget
	KindTargetHit
	KindFlash
)

// Rect is a drawable area in field units.
type Rect struct {
	X, Y, W, H float64
	Kind       Kind
}

// Frame is everything drawn in one iteration of the loop.
type Frame struct {
	Rects   []Rect
	Score   int
	Hits    int
	Misses  int
	Pending int // spawns still scheduled
	Tempo   float64
	Now     float64
}

type Renderer interface {
	Init() error
	Deinit() error
	AddDecoration(r Rect, frames int)
	RenderLoop(period time.Duration, render func(dt time.Duration) bool)
	Draw(f Frame)
}
