// Package panel — основной цикл прибора: опрос трёх кнопок, переключение режимов,
// бросок кубиков с подмешиванием времени в генератор и вывод на индикатор.
package panel

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/shiwa/diceroller/internal/button"
	"github.com/shiwa/diceroller/internal/dice"
	"github.com/shiwa/diceroller/internal/display"
	"github.com/shiwa/diceroller/internal/logger"
	"github.com/shiwa/diceroller/internal/millis"
	"github.com/shiwa/diceroller/internal/rng"
	"github.com/shiwa/diceroller/internal/stopwatch"
	"periph.io/x/conn/v3/gpio"
)

// Имена кнопок (для логов и метрик).
const (
	ButtonRoll   = "roll"
	ButtonAmount = "amount"
	ButtonDie    = "die"
)

// Observer получает события панели (метрики). Все методы вызываются из цикла панели.
type Observer interface {
	Pulse(name string)
	Reseeded()
	Rolled(faces, throws uint8, result uint16)
}

type nopObserver struct{}

func (nopObserver) Pulse(string)                {}
func (nopObserver) Reseeded()                   {}
func (nopObserver) Rolled(uint8, uint8, uint16) {}

// Config — зависимости панели.
type Config struct {
	Clock   millis.Reader
	Roll    button.Pin
	Amount  button.Pin
	Die     button.Pin
	Display display.Display

	Seed       uint32
	Faces      uint8    // начальный кубик; 0 — d4
	Throws     uint8    // начальное число бросков; 0 — 1
	WindowMs   uint32   // 0 — button.DefaultWindowMs
	ActiveHigh bool     // кнопка замыкает вход на питание; по умолчанию — на землю
	Observer   Observer // nil — без метрик
}

// Panel — состояние основного цикла. Не безопасна для использования из нескольких горутин.
type Panel struct {
	clock     millis.Reader
	roll      *button.Debouncer
	amount    *button.Debouncer
	die       *button.Debouncer
	roller    *dice.Roller
	rng       *rng.Engine
	stopwatch *stopwatch.Stopwatch
	display   display.Display
	observer  Observer
	seed      uint32
}

// New собирает панель.
func New(c Config) (*Panel, error) {
	if c.Clock == nil || c.Roll == nil || c.Amount == nil || c.Die == nil || c.Display == nil {
		return nil, fmt.Errorf("panel: clock, buttons and display are required")
	}
	window := c.WindowMs
	if window == 0 {
		window = button.DefaultWindowMs
	}
	opts := []button.Option{button.WithWindow(window), button.WithReleasedLevel(gpio.Level(!c.ActiveHigh))}
	obs := c.Observer
	if obs == nil {
		obs = nopObserver{}
	}
	roller := dice.NewRoller()
	if c.Faces != 0 && !roller.SetDie(c.Faces) {
		return nil, fmt.Errorf("panel: no d%d die", c.Faces)
	}
	if c.Throws != 0 && !roller.SetThrows(c.Throws) {
		return nil, fmt.Errorf("panel: throws %d out of range", c.Throws)
	}
	return &Panel{
		clock:     c.Clock,
		roll:      button.New(c.Roll, c.Clock, opts...),
		amount:    button.New(c.Amount, c.Clock, opts...),
		die:       button.New(c.Die, c.Clock, opts...),
		roller:    roller,
		rng:       rng.New(c.Seed),
		stopwatch: stopwatch.New(c.Clock),
		display:   c.Display,
		observer:  obs,
		seed:      c.Seed,
	}, nil
}

// Roller возвращает состояние кубиков.
func (p *Panel) Roller() *dice.Roller {
	return p.roller
}

// Seed возвращает seed, с которым генератор был создан.
func (p *Panel) Seed() uint32 {
	return p.seed
}

// Stopwatch возвращает секундомер броска.
func (p *Panel) Stopwatch() *stopwatch.Stopwatch {
	return p.stopwatch
}

// Step — одна итерация цикла: обработка кнопок, затем вывод кадра.
func (p *Panel) Step() error {
	r := p.roller
	switch {
	case p.roll.Poll() == button.Down:
		p.observer.Pulse(ButtonRoll)
		if r.Mode == dice.Configuration {
			r.Mode = dice.Normal
			logger.Debug("mode %v", r.Mode)
			break
		}
		p.reseed(p.rng.Uint32() + p.clock.Read())
		p.stopwatch.Start()
		r.Rolling = true
	case p.roll.Poll() == button.Up && r.Rolling:
		p.stopwatch.Stop()
		held := p.stopwatch.Time()
		p.reseed(p.rng.Uint32() + p.clock.Read() + held)
		r.Rolling = false
		sum := r.Roll(p.rng)
		p.observer.Rolled(r.Die(), r.Throws(), sum)
		logger.Debug("roll %dd%d = %d (held %d ms)", r.Throws(), r.Die(), sum, held)
	case p.amount.Poll() == button.Down:
		p.observer.Pulse(ButtonAmount)
		if r.Mode == dice.Configuration {
			r.NextAmount()
		} else {
			r.Mode = dice.Configuration
		}
	case p.die.Poll() == button.Down:
		p.observer.Pulse(ButtonDie)
		if r.Mode == dice.Configuration {
			r.NextDie()
		} else {
			r.Mode = dice.Configuration
		}
	}
	return p.display.Show(p.Frame())
}

func (p *Panel) reseed(seed uint32) {
	p.rng.Reseed(seed)
	p.observer.Reseeded()
}

// Frame возвращает кадр для текущего режима.
func (p *Panel) Frame() display.Frame {
	r := p.roller
	switch {
	case r.Mode == dice.Configuration:
		return display.ConfigFrame(r.Throws(), r.Die())
	case r.Rolling:
		return display.TimerFrame(p.stopwatch.Time())
	default:
		return display.NumberFrame(r.Result())
	}
}

// Run крутит Step до отмены ctx. interval == 0 — без пауз (как на микроконтроллере).
func (p *Panel) Run(ctx context.Context, interval time.Duration) error {
	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		} else {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			runtime.Gosched()
		}
		if err := p.Step(); err != nil {
			return fmt.Errorf("panel step: %w", err)
		}
	}
}
