package editor

import (
	"math"

	"github.com/slotboard/slotboard/pkg/slot/span"
)

// Axis selects the resize direction.
type Axis int

// Resize axes.
const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// String returns the axis name used in logs and hook events.
func (a Axis) String() string {
	if a == AxisVertical {
		return "vertical"
	}
	return "horizontal"
}

// ResizeConfig holds the pointer-to-grid translation constants.
type ResizeConfig struct {
	// PixelsPerUnit is the horizontal sensitivity: how many surface units
	// of pointer travel produce one grid-unit of span change.
	PixelsPerUnit float64

	// MinHeight is the lower bound for vertical resizes.
	MinHeight float64
}

// Resize defaults.
const (
	DefaultPixelsPerUnit = 60.0
	DefaultMinHeight     = 40.0

	// verticalDivisor softens vertical resize: two units of pointer
	// travel produce one unit of height change.
	verticalDivisor = 2.0
)

func (c ResizeConfig) pixelsPerUnit() float64 {
	if c.PixelsPerUnit > 0 {
		return c.PixelsPerUnit
	}
	return DefaultPixelsPerUnit
}

func (c ResizeConfig) minHeight() float64 {
	if c.MinHeight > 0 {
		return c.MinHeight
	}
	return DefaultMinHeight
}

// ResizeValue is a candidate or committed size. Span is set for horizontal
// gestures, Height for vertical ones.
type ResizeValue struct {
	Axis   Axis
	Span   int
	Height float64
}

// ResizeGesture translates a continuous pointer drag into discrete size
// changes. Every Update produces a live preview value; End recomputes the
// final value from total displacement and returns it for commit.
type ResizeGesture struct {
	cfg    ResizeConfig
	slotID string
	axis   Axis

	startX, startY float64
	startSpan      int
	startHeight    float64

	onPreview func(ResizeValue)
}

// NewResizeGesture starts a resize of the given slot. startSpan is the
// slot's current span (horizontal), startHeight its current pixel height
// (vertical). onPreview may be nil.
func NewResizeGesture(cfg ResizeConfig, slotID string, axis Axis, x, y float64, startSpan int, startHeight float64, onPreview func(ResizeValue)) *ResizeGesture {
	return &ResizeGesture{
		cfg:         cfg,
		slotID:      slotID,
		axis:        axis,
		startX:      x,
		startY:      y,
		startSpan:   startSpan,
		startHeight: startHeight,
		onPreview:   onPreview,
	}
}

// SlotID returns the slot being resized.
func (g *ResizeGesture) SlotID() string {
	return g.slotID
}

// Axis returns the gesture's resize direction.
func (g *ResizeGesture) Axis() Axis {
	return g.axis
}

// Update computes the candidate value for the current pointer position and
// invokes the preview callback. Nothing is committed.
func (g *ResizeGesture) Update(x, y float64) ResizeValue {
	v := g.valueAt(x, y)
	if g.onPreview != nil {
		g.onPreview(v)
	}
	return v
}

// End computes the final value from total displacement. The caller commits
// it through the tree mutator.
func (g *ResizeGesture) End(x, y float64) ResizeValue {
	return g.valueAt(x, y)
}

// valueAt translates total displacement into a clamped size. Out-of-bounds
// input is clamped, never rejected.
func (g *ResizeGesture) valueAt(x, y float64) ResizeValue {
	if g.axis == AxisVertical {
		delta := (y - g.startY) / verticalDivisor
		h := g.startHeight + delta
		if min := g.cfg.minHeight(); h < min {
			h = min
		}
		return ResizeValue{Axis: AxisVertical, Height: h}
	}

	delta := int(math.Round((x - g.startX) / g.cfg.pixelsPerUnit()))
	s := g.startSpan + delta
	if s < 1 {
		s = 1
	}
	if s > span.Columns {
		s = span.Columns
	}
	return ResizeValue{Axis: AxisHorizontal, Span: s}
}
