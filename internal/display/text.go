package display

import "strings"

// Text переводит кадр в строку из Digits символов; точка добавляется после разряда.
// Неизвестные коды сегментов выводятся как '?'.
func Text(f Frame) string {
	var pos [Digits]string
	for i := range pos {
		pos[i] = " "
	}
	for _, c := range f {
		p := position(c.Digit)
		if p < 0 {
			continue
		}
		pos[p] = glyph(c.Segments)
	}
	return strings.Join(pos[:], "")
}

func position(digit byte) int {
	for i, d := range digitSelect {
		if d == digit {
			return i
		}
	}
	return -1
}

func glyph(seg byte) string {
	dot := seg&dotMask == 0
	seg |= dotMask
	var ch string
	switch {
	case seg == letterD|dotMask:
		ch = "d"
	case seg == segmentMap[blankIdx]:
		ch = " "
	default:
		ch = "?"
		for i := 0; i < 10; i++ {
			if segmentMap[i] == seg {
				ch = string(rune('0' + i))
				break
			}
		}
	}
	if dot {
		ch += "."
	}
	return ch
}
