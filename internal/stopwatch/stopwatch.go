// Package stopwatch — секундомер поверх монотонных часов millis.
package stopwatch

import "github.com/shiwa/diceroller/internal/millis"

// Stopwatch измеряет интервал между Start и Stop. Принадлежит одному вызывающему.
type Stopwatch struct {
	clock    millis.Reader
	elapsed  uint32
	previous uint32
	running  bool
}

// New создаёт остановленный секундомер с нулевым временем.
func New(clock millis.Reader) *Stopwatch {
	return &Stopwatch{clock: clock}
}

// Start обнуляет время, запоминает текущее показание часов и запускает отсчёт.
func (s *Stopwatch) Start() {
	s.elapsed = 0
	s.running = true
	s.previous = s.clock.Read()
}

func (s *Stopwatch) update() {
	s.elapsed = millis.Since(s.clock.Read(), s.previous)
}

// Time возвращает прошедшее время в мс. Пока секундомер идёт, пересчитывает его.
func (s *Stopwatch) Time() uint32 {
	if s.running {
		s.update()
	}
	return s.elapsed
}

// Stop фиксирует прошедшее время до следующего Start.
func (s *Stopwatch) Stop() {
	s.update()
	s.running = false
}

// Reset обнуляет время и останавливает секундомер.
func (s *Stopwatch) Reset() {
	s.elapsed = 0
	s.previous = 0
	s.running = false
}

// Running сообщает, идёт ли отсчёт.
func (s *Stopwatch) Running() bool {
	return s.running
}
