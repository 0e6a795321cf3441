// Package hosttime — источник начальной энтропии и времени хоста для запуска прибора
// (на Linux — clock_gettime через x/sys).
package hosttime

// fold сворачивает 64-битное значение в 32 бита (xor половин).
func fold(v uint64) uint32 {
	return uint32(v) ^ uint32(v>>32)
}
