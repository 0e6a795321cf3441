// Package rng — быстрый некриптографический генератор с 4 байтами состояния (X ABC)
// и равномерной выборкой в диапазоне [0, n) без смещения по модулю.
//
// Вся арифметика — по модулю 2^8 (регистры) и 2^32 (seed); переполнение — часть алгоритма.
package rng

import (
	"encoding/binary"
	"math/bits"
)

// Engine — состояние генератора: x — счётчик, a, b, c — рабочие регистры.
// Не безопасен для одновременного использования из нескольких горутин.
type Engine struct {
	x, a, b, c uint8
}

// New создаёт генератор и подмешивает seed.
func New(seed uint32) *Engine {
	e := &Engine{}
	e.Reseed(seed)
	return e
}

// Reseed подмешивает seed в текущее состояние (не сбрасывает его):
// байты 1..3 ксорятся в a, b, c, байт 0 сдвигает счётчик x.
func (e *Engine) Reseed(seed uint32) {
	var s [4]byte
	binary.NativeEndian.PutUint32(s[:], seed)
	e.a ^= s[1]
	e.b ^= s[2]
	e.c ^= s[3]
	e.x = mix(e.x + s[0] + 1)
	e.step()
}

// Random возвращает следующий псевдослучайный байт.
func (e *Engine) Random() uint8 {
	e.x = mix(e.x + 1)
	e.step()
	return e.c
}

func (e *Engine) step() {
	e.a = e.a ^ e.c ^ e.x
	e.b += e.a
	e.c += inverseMix(e.b)
}

// Bounded возвращает равномерное значение из [0, bound) (метод Лемира с отбраковкой).
// bound == 0 — нарушение контракта вызывающего; возвращается 0.
func (e *Engine) Bounded(bound uint8) uint8 {
	if bound == 0 {
		return 0
	}
	m := uint16(e.Random()) * uint16(bound)
	l := uint8(m)
	if l < bound {
		t := -bound // (256 - bound) mod 256
		if t >= bound {
			t -= bound
			if t >= bound {
				t %= bound
			}
		}
		for l < t {
			m = uint16(e.Random()) * uint16(bound)
			l = uint8(m)
		}
	}
	return uint8(m >> 8)
}

// Uint32 склеивает четыре последовательных байта в порядке байт платформы.
func (e *Engine) Uint32() uint32 {
	b := [4]byte{e.Random(), e.Random(), e.Random(), e.Random()}
	return binary.NativeEndian.Uint32(b[:])
}

// Read заполняет p случайными байтами; всегда возвращает len(p), nil.
func (e *Engine) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = e.Random()
	}
	return len(p), nil
}

// mix — прямой S-box (как в Rijndael): rotl1 ^ rotl2 ^ rotl3 ^ rotl4 ^ 0x63.
func mix(v uint8) uint8 {
	return bits.RotateLeft8(v, 1) ^ bits.RotateLeft8(v, 2) ^
		bits.RotateLeft8(v, 3) ^ bits.RotateLeft8(v, 4) ^ 0x63
}

// inverseMix — обратный S-box: rotl1 ^ rotl3 ^ rotl6 ^ 0x05.
func inverseMix(v uint8) uint8 {
	return bits.RotateLeft8(v, 1) ^ bits.RotateLeft8(v, 3) ^ bits.RotateLeft8(v, 6) ^ 0x05
}
