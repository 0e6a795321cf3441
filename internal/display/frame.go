// Package display — четырёхразрядный семисегментный индикатор: кодирование чисел
// в кадры и драйверы вывода (сдвиговый регистр, UART, текст).
package display

// Коды сегментов для общего анода (0 — сегмент горит), индекс 10 — пусто.
var segmentMap = [11]byte{0xC0, 0xF9, 0xA4, 0xB0, 0x99, 0x92, 0x82, 0xF8, 0x80, 0x90, 0xFF}

// Байты выбора разряда 0..3 (слева направо).
var digitSelect = [4]byte{0xF1, 0xF2, 0xF4, 0xF8}

const (
	letterD  byte = 0xA1
	dotMask  byte = 0x80
	Digits        = 4
	blankIdx      = 10
)

// Cell — один разряд кадра: байт сегментов и байт выбора разряда.
type Cell struct {
	Segments byte
	Digit    byte
}

// Frame — набор разрядов, которые нужно вывести. Отсутствующие разряды не выводятся.
type Frame []Cell

// Display — потребитель кадров.
type Display interface {
	Show(f Frame) error
}

func digitCell(pos int, value uint8, dot bool) Cell {
	seg := segmentMap[value%10]
	if dot {
		seg &^= dotMask
	}
	return Cell{Segments: seg, Digit: digitSelect[pos]}
}

// NumberFrame — число 0..9999 без ведущих нулей.
func NumberFrame(n uint16) Frame {
	f := make(Frame, 0, Digits)
	if n >= 1000 {
		f = append(f, digitCell(0, uint8(n/1000%10), false))
	}
	if n >= 100 {
		f = append(f, digitCell(1, uint8(n/100%10), false))
	}
	if n >= 10 {
		f = append(f, digitCell(2, uint8(n/10%10), false))
	}
	return append(f, digitCell(3, uint8(n%10), false))
}

// TimerFrame — миллисекунды как секунды с точкой и десятыми: "12.3".
func TimerFrame(ms uint32) Frame {
	f := make(Frame, 0, Digits)
	if ms >= 100_000 {
		f = append(f, digitCell(0, uint8(ms/100_000%10), false))
	}
	if ms >= 10_000 {
		f = append(f, digitCell(1, uint8(ms/10_000%10), false))
	}
	f = append(f, digitCell(2, uint8(ms/1000%10), true))
	return append(f, digitCell(3, uint8(ms/100%10), false))
}

// ConfigFrame — настройка: "<броски>d<грани>", d100 отображается как "00".
func ConfigFrame(throws, faces uint8) Frame {
	f := Frame{
		digitCell(0, throws, false),
		{Segments: letterD, Digit: digitSelect[1]},
	}
	if faces == 100 {
		return append(f, digitCell(2, 0, false), digitCell(3, 0, false))
	}
	return append(f, digitCell(2, faces/10, false), digitCell(3, faces%10, false))
}
