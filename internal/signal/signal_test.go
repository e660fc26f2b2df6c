package signal

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
	"time"
)

func TestSimulateInterrupt(t *testing.T) {
	var order []int
	AddInterruptHandler(func() { order = append(order, 1) })
	AddInterruptHandler(func() { order = append(order, 2) })
	ctx := Context(context.Background())
	assert.False(t, InterruptRequested())

	SimulateInterrupt()
	select {
	case <-InterruptHandlersDone:
	case <-time.After(5 * time.Second):
		t.Fatal("interrupt handlers did not run")
	}
	require.True(t, InterruptRequested())
	assert.Equal(t, []int{2, 1}, order)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	// late registrations do not block
	AddInterruptHandler(func() { order = append(order, 3) })
	assert.Equal(t, []int{2, 1}, order)
}
