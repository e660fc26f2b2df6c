package swipe

import (
	"math"
	"sync"
)

const (
	// Threshold is the horizontal distance past which a drag commits.
	Threshold = 100.0
	// IndicatorDistance is the distance past which the ✓/✗ hint shows.
	IndicatorDistance = 50.0

	fadeDistance    = 200.0
	minOpacity      = 0.3
	disabledOpacity = 0.5
	degreesPerPixel = 0.1
)

type Direction int

const (
	None Direction = iota
	Left
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "none"
}

type Point struct {
	X, Y float64
}

// Card tracks one drag gesture on a sin card.
type Card struct {
	id uint64

	mu       sync.Mutex
	disabled bool
	dragging bool
	origin   Point
	offset   Point
	decision Direction
}

func NewCard(id uint64) *Card {
	return &Card{id: id}
}

func (c *Card) Id() uint64 {
	return c.id
}

// SetDisabled makes the card ignore input while a transaction is pending.
func (c *Card) SetDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = disabled
}

func (c *Card) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Start captures the pointer origin.
func (c *Card) Start(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled || c.decision != None {
		return
	}
	c.dragging = true
	c.origin = Point{X: x, Y: y}
}

// Move updates the offset from the origin.
func (c *Card) Move(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging || c.disabled {
		return
	}
	c.offset = Point{X: x - c.origin.X, Y: y - c.origin.Y}
}

// End releases the pointer. A drag past Threshold commits and returns the
// direction; anything shorter snaps the card back and returns None.
func (c *Card) End() Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dragging || c.disabled {
		return None
	}
	c.dragging = false
	switch {
	case c.offset.X > Threshold:
		c.decision = Right
	case c.offset.X < -Threshold:
		c.decision = Left
	default:
		c.offset = Point{}
	}
	return c.decision
}

// Drag runs a whole horizontal gesture of dx pixels.
func (c *Card) Drag(dx float64) Direction {
	c.Start(0, 0)
	c.Move(dx, 0)
	return c.End()
}

func (c *Card) Dragging() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragging
}

func (c *Card) Offset() Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset
}

// Decision is the committed direction, None until a drag commits.
func (c *Card) Decision() Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decision
}

// Rotation in degrees.
func (c *Card) Rotation() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.offset.X * degreesPerPixel
}

func (c *Card) Opacity() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disabled {
		return disabledOpacity
	}
	return math.Max(minOpacity, 1-math.Abs(c.offset.X)/fadeDistance)
}

// Indicator returns "✓" or "✗" once the drag is far enough to hint at the
// outcome, "" otherwise.
func (c *Card) Indicator() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.offset.X > IndicatorDistance:
		return "✓"
	case c.offset.X < -IndicatorDistance:
		return "✗"
	}
	return ""
}
