package millis

import (
	"errors"
	"fmt"
	"time"
)

// Значения по умолчанию: 16 МГц, prescaler 64, 250 отсчётов — прерывание раз в 1 мс.
const (
	DefaultPrescaler    = 64
	DefaultCompareCount = 250
	DefaultCPUFreqHz    = 16_000_000
)

// ErrUnsupportedPrescaler — prescaler не из набора 8, 64, 256, 1024.
var ErrUnsupportedPrescaler = errors.New("unsupported timer prescaler")

// ErrInvalidTimer — прочие ошибки конфигурации таймера.
var ErrInvalidTimer = errors.New("invalid timer configuration")

// TimerConfig — регистры таймера: делитель, значение сравнения (8 бит) и частота ядра.
type TimerConfig struct {
	Prescaler    uint32
	CompareCount uint8
	CPUFreqHz    uint32
}

// DefaultTimer возвращает конфигурацию с периодом 1 мс.
func DefaultTimer() TimerConfig {
	return TimerConfig{
		Prescaler:    DefaultPrescaler,
		CompareCount: DefaultCompareCount,
		CPUFreqHz:    DefaultCPUFreqHz,
	}
}

// SupportedPrescaler сообщает, поддерживает ли таймер данный делитель.
func SupportedPrescaler(p uint32) bool {
	switch p {
	case 8, 64, 256, 1024:
		return true
	default:
		return false
	}
}

// Validate проверяет конфигурацию таймера.
func (t TimerConfig) Validate() error {
	if !SupportedPrescaler(t.Prescaler) {
		return fmt.Errorf("%w: %d", ErrUnsupportedPrescaler, t.Prescaler)
	}
	if t.CompareCount == 0 {
		return fmt.Errorf("%w: compare count is zero", ErrInvalidTimer)
	}
	if t.CPUFreqHz < 1000 {
		return fmt.Errorf("%w: cpu frequency %d Hz", ErrInvalidTimer, t.CPUFreqHz)
	}
	if t.Increment() == 0 {
		return fmt.Errorf("%w: period %v is shorter than 1ms", ErrInvalidTimer, t.Period())
	}
	return nil
}

// Increment — шаг счётчика в мс: prescaler * compare / (частота в кГц), с отбрасыванием остатка.
func (t TimerConfig) Increment() uint32 {
	khz := t.CPUFreqHz / 1000
	if khz == 0 {
		return 0
	}
	return t.Prescaler * uint32(t.CompareCount) / khz
}

// Exact сообщает, делится ли период таймера на миллисекунды без остатка.
func (t TimerConfig) Exact() bool {
	khz := t.CPUFreqHz / 1000
	return khz != 0 && (t.Prescaler*uint32(t.CompareCount))%khz == 0
}

// Period — реальный период срабатывания таймера.
func (t TimerConfig) Period() time.Duration {
	if t.CPUFreqHz == 0 {
		return 0
	}
	ticks := uint64(t.Prescaler) * uint64(t.CompareCount)
	return time.Duration(ticks * uint64(time.Second) / uint64(t.CPUFreqHz))
}
