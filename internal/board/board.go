// Package board открывает GPIO платы через periph: входы кнопок и линии индикатора.
package board

import (
	"fmt"
	"sync"

	"github.com/shiwa/diceroller/internal/config"
	"github.com/shiwa/diceroller/internal/logger"
	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

var initOnce sync.Once

// Init загружает зарегистрированные драйверы periph (один раз на процесс).
// Ошибка инициализации не фатальна: пины могут быть зарегистрированы вручную.
func Init() {
	initOnce.Do(func() {
		if _, err := driverreg.Init(); err != nil {
			logger.Info("driverreg.Init (periph) skipped: %v", err)
		}
	})
}

// Buttons — входы трёх кнопок.
type Buttons struct {
	Roll, Amount, Die gpio.PinIn
}

// Lines — выходы сдвигового регистра индикатора.
type Lines struct {
	Latch, Clock, Data gpio.PinOut
}

// OpenButtons находит входы по имени и включает подтяжку к неактивному уровню.
func OpenButtons(c config.ButtonsConfig) (*Buttons, error) {
	Init()
	pull := gpio.PullUp
	if c.ActiveHigh {
		pull = gpio.PullDown
	}
	var b Buttons
	for _, p := range []struct {
		name string
		dst  *gpio.PinIn
	}{
		{c.Roll, &b.Roll},
		{c.Amount, &b.Amount},
		{c.Die, &b.Die},
	} {
		pin, err := lookup(p.name)
		if err != nil {
			return nil, err
		}
		if err := pin.In(pull, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("gpio %s input: %w", p.name, err)
		}
		*p.dst = pin
	}
	return &b, nil
}

// OpenLines находит выходы индикатора и выставляет их в Low.
func OpenLines(c config.DisplayConfig) (*Lines, error) {
	Init()
	var l Lines
	for _, p := range []struct {
		name string
		dst  *gpio.PinOut
	}{
		{c.Latch, &l.Latch},
		{c.Clock, &l.Clock},
		{c.Data, &l.Data},
	} {
		pin, err := lookup(p.name)
		if err != nil {
			return nil, err
		}
		if err := pin.Out(gpio.Low); err != nil {
			return nil, fmt.Errorf("gpio %s output: %w", p.name, err)
		}
		*p.dst = pin
	}
	return &l, nil
}

func lookup(name string) (gpio.PinIO, error) {
	if name == "" {
		return nil, fmt.Errorf("gpio: empty pin name")
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("gpio %s: not found", name)
	}
	return pin, nil
}
