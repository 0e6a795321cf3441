// Package dice — выбор кубика и количества бросков, сумма броска.
package dice

// Faces — доступные кубики по числу граней, в порядке переключения.
var Faces = [...]uint8{4, 6, 8, 10, 12, 20, 100}

// MaxThrows — наибольшее число кубиков за один бросок.
const MaxThrows = 9

// Mode — режим панели.
type Mode int

const (
	Configuration Mode = iota
	Normal
)

func (m Mode) String() string {
	switch m {
	case Configuration:
		return "configuration"
	case Normal:
		return "normal"
	default:
		return "unknown"
	}
}

// Source — источник равномерных значений в [0, bound). Реализует rng.Engine.
type Source interface {
	Bounded(bound uint8) uint8
}

// Roller — состояние кубиков: режим, число бросков, текущий кубик и последняя сумма.
type Roller struct {
	Mode    Mode
	Rolling bool

	throws uint8
	index  int
	result uint16
}

// NewRoller возвращает Roller в режиме настройки: один d4.
func NewRoller() *Roller {
	return &Roller{
		Mode:   Configuration,
		throws: 1,
	}
}

// NextAmount переключает число бросков 1..MaxThrows по кругу.
func (r *Roller) NextAmount() {
	if r.throws < MaxThrows {
		r.throws++
	} else {
		r.throws = 1
	}
}

// Throws возвращает число бросков.
func (r *Roller) Throws() uint8 {
	return r.throws
}

// SetThrows задаёт число бросков; значения вне 1..MaxThrows игнорируются.
func (r *Roller) SetThrows(n uint8) bool {
	if n < 1 || n > MaxThrows {
		return false
	}
	r.throws = n
	return true
}

// NextDie переключает кубик по кругу.
func (r *Roller) NextDie() {
	r.index = (r.index + 1) % len(Faces)
}

// Die возвращает число граней текущего кубика.
func (r *Roller) Die() uint8 {
	return Faces[r.index]
}

// SetDie выбирает кубик по числу граней; false, если такого кубика нет.
func (r *Roller) SetDie(faces uint8) bool {
	for i, f := range Faces {
		if f == faces {
			r.index = i
			return true
		}
	}
	return false
}

// Roll бросает Throws() кубиков и запоминает сумму.
func (r *Roller) Roll(src Source) uint16 {
	r.result = 0
	die := r.Die()
	for i := uint8(0); i < r.throws; i++ {
		r.result += uint16(src.Bounded(die)) + 1
	}
	return r.result
}

// Result возвращает сумму последнего броска.
func (r *Roller) Result() uint16 {
	return r.result
}
