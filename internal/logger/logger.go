// Package logger — единый вывод логов diceroller с префиксом и учётом quiet/verbose.
package logger

import "log"

const prefix = "diceroller: "

// Quiet при true отключает информационные сообщения (Info); Error выводится всегда.
var Quiet bool

// Verbose при true включает отладочные сообщения (Debug).
var Verbose bool

// Info выводит сообщение с префиксом, если Quiet == false.
func Info(format string, args ...interface{}) {
	if Quiet {
		return
	}
	log.Printf(prefix+format, args...)
}

// Debug выводит сообщение только при Verbose (и не Quiet).
func Debug(format string, args ...interface{}) {
	if !Verbose || Quiet {
		return
	}
	log.Printf(prefix+"debug: "+format, args...)
}

// Error выводит сообщение об ошибке всегда.
func Error(format string, args ...interface{}) {
	log.Printf(prefix+format, args...)
}
