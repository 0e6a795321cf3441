// Package millis — монотонный счётчик миллисекунд, который увеличивает периодическое
// прерывание таймера (аналог TIMER0_COMPA в режиме CTC).
//
// Счётчик — единственное разделяемое состояние между контекстом прерывания и основным
// циклом. Запись делает только Tick, чтение — Read; оба атомарны, поэтому основной цикл
// никогда не видит «разорванное» значение. Переполнение через 2^32 допустимо: потребители
// считают интервалы только через Since.
package millis

import (
	"context"
	"sync/atomic"
	"time"
)

// Reader — источник текущего значения часов (мс, по модулю 2^32).
type Reader interface {
	Read() uint32
}

// Clock — монотонные часы с шагом Increment мс на каждое срабатывание таймера.
type Clock struct {
	timer     TimerConfig
	increment uint32
	counter   atomic.Uint32
}

// NewClock настраивает таймер и обнуляет счётчик.
// Неподдерживаемый prescaler — ошибка конфигурации (ErrUnsupportedPrescaler).
func NewClock(t TimerConfig) (*Clock, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	c := &Clock{
		timer:     t,
		increment: t.Increment(),
	}
	c.counter.Store(0)
	return c, nil
}

// MustNewClock как NewClock, но паникует при ошибке конфигурации.
// Вызывается при старте: без корректного таймера всё остальное время неверно.
func MustNewClock(t TimerConfig) *Clock {
	c, err := NewClock(t)
	if err != nil {
		panic(err)
	}
	return c
}

// Tick — обработчик прерывания: добавляет фиксированный шаг к счётчику.
func (c *Clock) Tick() {
	c.counter.Add(c.increment)
}

// Read возвращает текущее значение счётчика в миллисекундах.
func (c *Clock) Read() uint32 {
	return c.counter.Load()
}

// Increment возвращает шаг счётчика за одно срабатывание.
func (c *Clock) Increment() uint32 {
	return c.increment
}

// Timer возвращает конфигурацию таймера.
func (c *Clock) Timer() TimerConfig {
	return c.timer
}

// Run — источник прерываний на хосте: вызывает Tick с периодом таймера до отмены ctx.
func (c *Clock) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.timer.Period())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Since возвращает now - then по модулю 2^32.
// Корректно через переполнение счётчика, пока реальный интервал меньше 2^32 мс.
func Since(now, then uint32) uint32 {
	return now - then
}
