package display

import (
	"fmt"
	"io"

	"github.com/tarm/serial"
)

// Serial — текстовый индикатор на UART: каждый новый кадр уходит строкой "<текст>\r\n".
// Одинаковые подряд кадры не повторяются.
type Serial struct {
	w    io.Writer
	c    io.Closer
	last string
}

// OpenSerial открывает последовательный порт для индикатора.
func OpenSerial(device string, baud int) (*Serial, error) {
	p, err := serial.OpenPort(&serial.Config{Name: device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("serial open %s: %w", device, err)
	}
	return &Serial{w: p, c: p}, nil
}

// NewSerialWriter — индикатор поверх произвольного writer (например, для тестов или pty).
func NewSerialWriter(w io.Writer) *Serial {
	return &Serial{w: w}
}

// Show выводит кадр, если он отличается от предыдущего.
func (s *Serial) Show(f Frame) error {
	text := Text(f)
	if text == s.last {
		return nil
	}
	if _, err := io.WriteString(s.w, text+"\r\n"); err != nil {
		return fmt.Errorf("serial write: %w", err)
	}
	s.last = text
	return nil
}

// Close закрывает порт.
func (s *Serial) Close() error {
	if s.c == nil {
		return nil
	}
	return s.c.Close()
}
