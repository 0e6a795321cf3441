package display

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// BitOrder — порядок выдвигания битов в регистр.
type BitOrder int

const (
	MSBFirst BitOrder = iota
	LSBFirst
)

// Line — цифровой выход. Подходит любой periph gpio.PinOut.
type Line interface {
	Out(l gpio.Level) error
}

// ShiftRegister — индикатор на двух каскадных 74HC595: сначала байт сегментов,
// затем байт выбора разряда, защёлка по фронту latch.
type ShiftRegister struct {
	Latch, Clock, Data Line
	Order              BitOrder
}

// NewShiftRegister создаёт драйвер с порядком MSBFirst.
func NewShiftRegister(latch, clock, data Line) *ShiftRegister {
	return &ShiftRegister{Latch: latch, Clock: clock, Data: data, Order: MSBFirst}
}

// Show выводит все разряды кадра по очереди.
func (s *ShiftRegister) Show(f Frame) error {
	for _, c := range f {
		if err := s.writeCell(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *ShiftRegister) writeCell(c Cell) error {
	if err := s.Latch.Out(gpio.Low); err != nil {
		return fmt.Errorf("latch: %w", err)
	}
	if err := s.shiftOut(c.Segments); err != nil {
		return err
	}
	if err := s.shiftOut(c.Digit); err != nil {
		return err
	}
	if err := s.Latch.Out(gpio.High); err != nil {
		return fmt.Errorf("latch: %w", err)
	}
	return nil
}

// shiftOut выдвигает байт по линии data с тактом по clock.
func (s *ShiftRegister) shiftOut(v byte) error {
	for i := 0; i < 8; i++ {
		var bit bool
		if s.Order == LSBFirst {
			bit = v&0x01 != 0
			v >>= 1
		} else {
			bit = v&0x80 != 0
			v <<= 1
		}
		if err := s.Data.Out(gpio.Level(bit)); err != nil {
			return fmt.Errorf("data: %w", err)
		}
		if err := s.Clock.Out(gpio.High); err != nil {
			return fmt.Errorf("clock: %w", err)
		}
		if err := s.Clock.Out(gpio.Low); err != nil {
			return fmt.Errorf("clock: %w", err)
		}
	}
	return nil
}
