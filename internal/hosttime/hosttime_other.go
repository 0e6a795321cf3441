//go:build !linux

package hosttime

import "time"

var started = time.Now()

// BootSeed — на не-Linux seed берётся из time.Now().
func BootSeed() uint32 {
	return fold(uint64(time.Now().UnixNano()))
}

// Uptime — на не-Linux время с запуска процесса.
func Uptime() (time.Duration, error) {
	return time.Since(started), nil
}
