// Package sim — терминальная передняя панель прибора на tcell: клавиши 1, 2, 3 нажимают
// кнопки, индикатор рисуется текстом. Удобно для проверки логики без платы.
package sim

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/shiwa/diceroller/internal/display"
	"github.com/shiwa/diceroller/internal/millis"
	"periph.io/x/conn/v3/gpio"
)

// VirtualPin — кнопка, которая после Press остаётся нажатой (Low) holdMs миллисекунд.
// Используется только из цикла Sim.Run.
type VirtualPin struct {
	clock     millis.Reader
	holdMs    uint32
	pressed   bool
	pressedAt uint32
}

// Press нажимает кнопку; повторное нажатие (автоповтор клавиши) продлевает удержание.
func (p *VirtualPin) Press() {
	p.pressed = true
	p.pressedAt = p.clock.Read()
}

// Read реализует button.Pin: Low, пока кнопка удерживается.
func (p *VirtualPin) Read() gpio.Level {
	if p.pressed && millis.Since(p.clock.Read(), p.pressedAt) < p.holdMs {
		return gpio.Low
	}
	p.pressed = false
	return gpio.High
}

// Sim — экран, клавиатура и виртуальные кнопки.
type Sim struct {
	screen tcell.Screen
	clock  millis.Reader
	keys   map[rune]*VirtualPin
	roll   *VirtualPin
	amount *VirtualPin
	die    *VirtualPin
	text   string
}

// New создаёт симулятор поверх инициализированного экрана.
func New(screen tcell.Screen, clock millis.Reader, holdMs uint32) *Sim {
	pin := func() *VirtualPin { return &VirtualPin{clock: clock, holdMs: holdMs} }
	s := &Sim{
		screen: screen,
		clock:  clock,
		roll:   pin(),
		amount: pin(),
		die:    pin(),
		text:   display.Text(nil),
	}
	s.keys = map[rune]*VirtualPin{'1': s.roll, '2': s.amount, '3': s.die}
	return s
}

// Pins возвращает виртуальные кнопки roll, amount, die.
func (s *Sim) Pins() (roll, amount, die *VirtualPin) {
	return s.roll, s.amount, s.die
}

// Show реализует display.Display.
func (s *Sim) Show(f display.Frame) error {
	s.text = display.Text(f)
	return nil
}

// Text возвращает текст на индикаторе.
func (s *Sim) Text() string {
	return s.text
}

// HandleEvent обрабатывает событие терминала; true — пользователь вышел.
func (s *Sim) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return true
		}
		if ev.Key() != tcell.KeyRune {
			return false
		}
		if ev.Rune() == 'q' {
			return true
		}
		if p, ok := s.keys[ev.Rune()]; ok {
			p.Press()
		}
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return false
}

// Run обрабатывает клавиатуру и вызывает step раз в interval, пока ctx не отменён
// или пользователь не выйдет. Экран закрывает вызывающий.
func (s *Sim) Run(ctx context.Context, interval time.Duration, step func() error) error {
	events := make(chan tcell.Event, 100)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	redraw := time.NewTicker(40 * time.Millisecond)
	defer redraw.Stop()

	s.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if s.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			if err := step(); err != nil {
				return err
			}
		case <-redraw.C:
			s.draw()
		}
	}
}

func (s *Sim) draw() {
	s.screen.Clear()
	title := tcell.StyleDefault.Bold(true)
	led := tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorBlack)
	hint := tcell.StyleDefault.Foreground(tcell.ColorGray)

	drawString(s.screen, 2, 1, "diceroller", title)
	drawString(s.screen, 2, 3, "[ "+s.text+" ]", led)
	drawString(s.screen, 2, 5, "1: roll  2: amount  3: die  q: quit", hint)
	s.screen.Show()
}

func drawString(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
