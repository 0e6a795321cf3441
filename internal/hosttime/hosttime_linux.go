//go:build linux

package hosttime

import (
	"time"

	"golang.org/x/sys/unix"
)

// BootSeed возвращает начальный seed генератора из CLOCK_MONOTONIC и CLOCK_REALTIME.
// При ошибке clock_gettime используется time.Now().
func BootSeed() uint32 {
	var mono, wall unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &mono); err != nil {
		return fold(uint64(time.Now().UnixNano()))
	}
	_ = unix.ClockGettime(unix.CLOCK_REALTIME, &wall)
	return fold(uint64(mono.Nano())) ^ fold(uint64(wall.Nano()))
}

// Uptime возвращает время с загрузки системы (CLOCK_BOOTTIME).
func Uptime() (time.Duration, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_BOOTTIME, &ts); err != nil {
		return 0, err
	}
	return time.Duration(ts.Nano()), nil
}
