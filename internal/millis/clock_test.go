package millis

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     TimerConfig
		wantErr error
	}{
		{"default", DefaultTimer(), nil},
		{"prescaler 256", TimerConfig{Prescaler: 256, CompareCount: 125, CPUFreqHz: 16_000_000}, nil},
		{"prescaler 1024", TimerConfig{Prescaler: 1024, CompareCount: 250, CPUFreqHz: 16_000_000}, nil},
		{"prescaler 8 too fast", TimerConfig{Prescaler: 8, CompareCount: 250, CPUFreqHz: 16_000_000}, ErrInvalidTimer},
		{"prescaler 8 at 1MHz", TimerConfig{Prescaler: 8, CompareCount: 125, CPUFreqHz: 1_000_000}, nil},
		{"prescaler 32", TimerConfig{Prescaler: 32, CompareCount: 250, CPUFreqHz: 16_000_000}, ErrUnsupportedPrescaler},
		{"prescaler 0", TimerConfig{Prescaler: 0, CompareCount: 250, CPUFreqHz: 16_000_000}, ErrUnsupportedPrescaler},
		{"zero compare", TimerConfig{Prescaler: 64, CompareCount: 0, CPUFreqHz: 16_000_000}, ErrInvalidTimer},
		{"zero freq", TimerConfig{Prescaler: 64, CompareCount: 250}, ErrInvalidTimer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestTimerConfig_IncrementAndPeriod(t *testing.T) {
	tests := []struct {
		cfg    TimerConfig
		inc    uint32
		period time.Duration
		exact  bool
	}{
		{DefaultTimer(), 1, time.Millisecond, true},
		{TimerConfig{Prescaler: 256, CompareCount: 125, CPUFreqHz: 16_000_000}, 2, 2 * time.Millisecond, true},
		{TimerConfig{Prescaler: 1024, CompareCount: 250, CPUFreqHz: 16_000_000}, 16, 16 * time.Millisecond, true},
		{TimerConfig{Prescaler: 1024, CompareCount: 255, CPUFreqHz: 16_000_000}, 16, 16320 * time.Microsecond, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.inc, tt.cfg.Increment(), "%+v", tt.cfg)
		assert.Equal(t, tt.period, tt.cfg.Period(), "%+v", tt.cfg)
		assert.Equal(t, tt.exact, tt.cfg.Exact(), "%+v", tt.cfg)
	}
}

func TestNewClock_UnsupportedPrescaler(t *testing.T) {
	_, err := NewClock(TimerConfig{Prescaler: 100, CompareCount: 250, CPUFreqHz: 16_000_000})
	require.ErrorIs(t, err, ErrUnsupportedPrescaler)

	assert.Panics(t, func() {
		MustNewClock(TimerConfig{Prescaler: 100, CompareCount: 250, CPUFreqHz: 16_000_000})
	})
}

func TestClock_ReadAfterTicks(t *testing.T) {
	for _, cfg := range []TimerConfig{
		DefaultTimer(),
		{Prescaler: 256, CompareCount: 125, CPUFreqHz: 16_000_000},
		{Prescaler: 1024, CompareCount: 250, CPUFreqHz: 16_000_000},
	} {
		c := MustNewClock(cfg)
		require.Equal(t, uint32(0), c.Read(), "счётчик сбрасывается при инициализации")
		const n = 1234
		for i := 0; i < n; i++ {
			c.Tick()
		}
		assert.Equal(t, n*cfg.Increment(), c.Read())
	}
}

func TestClock_Wraparound(t *testing.T) {
	c := MustNewClock(TimerConfig{Prescaler: 1024, CompareCount: 250, CPUFreqHz: 16_000_000})
	c.counter.Store(math.MaxUint32 - 5)
	c.Tick() // +16
	assert.Equal(t, uint32(10), c.Read())
	assert.Equal(t, uint32(16), Since(c.Read(), math.MaxUint32-5))
}

func TestSince(t *testing.T) {
	tests := []struct {
		now, then, want uint32
	}{
		{100, 40, 60},
		{5, math.MaxUint32 - 4, 10},
		{0, math.MaxUint32, 1},
		{7, 7, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Since(tt.now, tt.then), "Since(%d, %d)", tt.now, tt.then)
	}
}

func TestClock_ConcurrentTickRead(t *testing.T) {
	c := MustNewClock(DefaultTimer())
	const n = 10000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			c.Tick()
		}
	}()
	var last uint32
	for i := 0; i < n; i++ {
		v := c.Read()
		require.GreaterOrEqual(t, v, last, "часы не идут назад")
		last = v
	}
	wg.Wait()
	assert.Equal(t, uint32(n), c.Read())
}

func TestClock_Run(t *testing.T) {
	c := MustNewClock(DefaultTimer())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	require.Eventually(t, func() bool { return c.Read() >= 5 }, 2*time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}
