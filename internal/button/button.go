// Package button — подавление дребезга механических кнопок.
//
// Отпускание принимается сразу; нажатие считается устойчивым, если с предыдущего опроса
// прошло больше окна (по умолчанию 30 мс). Метка времени обновляется на каждом опросе
// в нажатом состоянии, поэтому при опросе в каждом цикле удержание даёт ровно один Down.
package button

import (
	"github.com/shiwa/diceroller/internal/millis"
	"periph.io/x/conn/v3/gpio"
)

// DefaultWindowMs — минимальная пауза между опросами для признания нажатия.
const DefaultWindowMs = 30

// State — логическое состояние кнопки после опроса.
type State int

const (
	Up State = iota
	Down
	Debouncing
)

func (s State) String() string {
	switch s {
	case Up:
		return "up"
	case Down:
		return "down"
	case Debouncing:
		return "debouncing"
	default:
		return "unknown"
	}
}

// Pin — сырой цифровой вход. Подходит любой periph gpio.PinIn.
type Pin interface {
	Read() gpio.Level
}

// Debouncer — автомат одной кнопки. Не разделяется между горутинами.
type Debouncer struct {
	pin      Pin
	clock    millis.Reader
	window   uint32
	released gpio.Level
	state    State
	deadline uint32
	level    gpio.Level
}

// Option настраивает Debouncer.
type Option func(*Debouncer)

// WithWindow задаёт окно устойчивости в мс.
func WithWindow(ms uint32) Option {
	return func(d *Debouncer) {
		d.window = ms
	}
}

// WithReleasedLevel задаёт уровень отпущенной кнопки (по умолчанию High — подтяжка к питанию).
func WithReleasedLevel(l gpio.Level) Option {
	return func(d *Debouncer) {
		d.released = l
	}
}

// New создаёт Debouncer в состоянии Up.
func New(pin Pin, clock millis.Reader, opts ...Option) *Debouncer {
	d := &Debouncer{
		pin:      pin,
		clock:    clock,
		window:   DefaultWindowMs,
		released: gpio.High,
		state:    Up,
	}
	for _, o := range opts {
		o(d)
	}
	d.level = d.released
	return d
}

// Poll читает вход и возвращает новое состояние.
func (d *Debouncer) Poll() State {
	d.level = d.pin.Read()
	if d.level == d.released {
		d.state = Up
		return d.state
	}

	now := d.clock.Read()
	if millis.Since(now, d.deadline) > d.window {
		d.state = Down
	} else {
		d.state = Debouncing
	}
	d.deadline = now
	return d.state
}

// State возвращает результат последнего опроса.
func (d *Debouncer) State() State {
	return d.state
}

// Level возвращает сырой уровень, прочитанный последним опросом.
func (d *Debouncer) Level() gpio.Level {
	return d.level
}
