package swipe

import (
	"gotest.tools/assert"
	"testing"
)

func TestDecisionThreshold(t *testing.T) {
	cases := []struct {
		dx   float64
		want Direction
	}{
		{dx: 101, want: Right},
		{dx: 99, want: None},
		{dx: 100, want: None},
		{dx: -100, want: None},
		{dx: -150, want: Left},
	}
	for _, tc := range cases {
		c := NewCard(1)
		got := c.Drag(tc.dx)
		assert.Equal(t, got, tc.want, "dx=%v", tc.dx)
		assert.Equal(t, c.Decision(), tc.want)
		assert.Assert(t, !c.Dragging())
		if tc.want == None {
			assert.Equal(t, c.Offset(), Point{})
		}
	}
}

func TestGesture(t *testing.T) {
	c := NewCard(7)
	c.Start(200, 300)
	assert.Assert(t, c.Dragging())
	c.Move(240, 310)
	assert.Equal(t, c.Offset(), Point{X: 40, Y: 10})
	assert.Equal(t, c.Indicator(), "")

	c.Move(300, 310)
	assert.Equal(t, c.Offset(), Point{X: 100, Y: 10})
	assert.Equal(t, c.Indicator(), "✓")
	assert.Equal(t, c.Rotation(), 10.0)
	assert.Equal(t, c.Opacity(), 0.5)

	c.Move(20, 300)
	assert.Equal(t, c.Indicator(), "✗")
	assert.Equal(t, c.Opacity(), 0.3)
	assert.Equal(t, c.End(), Left)

	// a committed card ignores further gestures
	assert.Equal(t, c.Drag(300), None)
	assert.Equal(t, c.Decision(), Left)
}

func TestInputWithoutStartIsIgnored(t *testing.T) {
	c := NewCard(1)
	c.Move(500, 0)
	assert.Equal(t, c.Offset(), Point{})
	assert.Equal(t, c.End(), None)
	assert.Equal(t, c.Indicator(), "")
	assert.Equal(t, c.Opacity(), 1.0)
}

func TestDisabled(t *testing.T) {
	c := NewCard(1)
	c.SetDisabled(true)
	assert.Equal(t, c.Drag(150), None)
	assert.Assert(t, !c.Dragging())
	assert.Equal(t, c.Opacity(), 0.5)

	c.SetDisabled(false)
	assert.Equal(t, c.Drag(150), Right)
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, Left.String(), "left")
	assert.Equal(t, Right.String(), "right")
	assert.Equal(t, None.String(), "none")
}
