package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/shiwa/diceroller/internal/display"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

type fakeClock struct{ now uint32 }

func (c *fakeClock) Read() uint32 { return c.now }

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	t.Cleanup(s.Fini)
	return s
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestVirtualPin_Hold(t *testing.T) {
	clk := &fakeClock{now: 100}
	p := &VirtualPin{clock: clk, holdMs: 250}
	assert.Equal(t, gpio.High, p.Read())

	p.Press()
	assert.Equal(t, gpio.Low, p.Read())
	clk.now += 249
	assert.Equal(t, gpio.Low, p.Read())
	p.Press() // автоповтор продлевает
	clk.now += 200
	assert.Equal(t, gpio.Low, p.Read())
	clk.now += 50
	assert.Equal(t, gpio.High, p.Read())
	assert.Equal(t, gpio.High, p.Read())
}

func TestHandleEvent(t *testing.T) {
	clk := &fakeClock{now: 10}
	s := New(newScreen(t), clk, 100)
	roll, amount, die := s.Pins()

	assert.False(t, s.HandleEvent(key('2')))
	assert.Equal(t, gpio.Low, amount.Read())
	assert.Equal(t, gpio.High, roll.Read())
	assert.Equal(t, gpio.High, die.Read())

	assert.False(t, s.HandleEvent(key('x')))
	assert.False(t, s.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.True(t, s.HandleEvent(key('q')))
	assert.True(t, s.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestShow(t *testing.T) {
	s := New(newScreen(t), &fakeClock{}, 100)
	assert.Equal(t, "    ", s.Text())
	require.NoError(t, s.Show(display.ConfigFrame(2, 12)))
	assert.Equal(t, "2d12", s.Text())
}

func TestRun_StepsUntilCancel(t *testing.T) {
	s := New(newScreen(t), &fakeClock{}, 100)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	steps := 0
	err := s.Run(ctx, time.Millisecond, func() error {
		steps++
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, steps)
}

func TestRun_StepError(t *testing.T) {
	s := New(newScreen(t), &fakeClock{}, 100)
	boom := errors.New("boom")
	err := s.Run(context.Background(), time.Millisecond, func() error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestRun_QuitKey(t *testing.T) {
	screen := newScreen(t)
	s := New(screen, &fakeClock{}, 100)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := s.Run(ctx, time.Millisecond, func() error { return nil })
	assert.NoError(t, err)
}
