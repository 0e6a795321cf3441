package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/shiwa/diceroller/internal/button"
	"github.com/shiwa/diceroller/internal/dice"
	"github.com/shiwa/diceroller/internal/millis"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultPath — конфиг по умолчанию в текущем каталоге.
const DefaultPath = "diceroller.yml"

// ErrInvalid — конфигурация не прошла проверку.
var ErrInvalid = errors.New("invalid config")

// Config — конфигурация прибора.
type Config struct {
	Timer    TimerConfig    `yaml:"timer"`
	Debounce DebounceConfig `yaml:"debounce"`
	Buttons  ButtonsConfig  `yaml:"buttons"`
	Display  DisplayConfig  `yaml:"display"`
	Dice     DiceConfig     `yaml:"dice"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Sim      SimConfig      `yaml:"sim"`
	// Seed — начальный seed генератора; 0 — взять из часов хоста.
	Seed uint32 `yaml:"seed"`
	// LoopInterval — пауза между итерациями основного цикла ("" или "0" — без пауз).
	LoopInterval string `yaml:"loop_interval"`
}

// TimerConfig — регистры таймера, управляющего часами millis.
type TimerConfig struct {
	Prescaler    uint32 `yaml:"prescaler"`
	CompareCount uint8  `yaml:"compare_count"`
	CPUFreqHz    uint32 `yaml:"cpu_freq_hz"`
}

// DebounceConfig — окно подавления дребезга.
type DebounceConfig struct {
	WindowMs uint32 `yaml:"window_ms"`
}

// ButtonsConfig — имена GPIO входов (как их знает periph gpioreg).
type ButtonsConfig struct {
	Roll       string `yaml:"roll"`
	Amount     string `yaml:"amount"`
	Die        string `yaml:"die"`
	ActiveHigh bool   `yaml:"active_high"`
}

// DisplayConfig — драйвер индикатора: shiftreg, serial или none.
type DisplayConfig struct {
	Driver   string `yaml:"driver"`
	Latch    string `yaml:"latch"`
	Clock    string `yaml:"clock"`
	Data     string `yaml:"data"`
	LSBFirst bool   `yaml:"lsb_first"`
	Port     string `yaml:"port"`
	Baud     int    `yaml:"baud"`
}

// DiceConfig — начальный выбор кубика.
type DiceConfig struct {
	Faces  uint8 `yaml:"faces"`
	Throws uint8 `yaml:"throws"`
}

// MetricsConfig — адрес HTTP /metrics; пусто — не поднимать.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// SimConfig — параметры терминального симулятора.
type SimConfig struct {
	HoldMs uint32 `yaml:"hold_ms"`
}

// Default возвращает конфиг по умолчанию (Arduino Uno: 16 МГц, прерывание раз в 1 мс).
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			Prescaler:    millis.DefaultPrescaler,
			CompareCount: millis.DefaultCompareCount,
			CPUFreqHz:    millis.DefaultCPUFreqHz,
		},
		Debounce: DebounceConfig{WindowMs: button.DefaultWindowMs},
		Buttons: ButtonsConfig{
			Roll:   "GPIO17",
			Amount: "GPIO27",
			Die:    "GPIO22",
		},
		Display: DisplayConfig{
			Driver: "shiftreg",
			Latch:  "GPIO23",
			Clock:  "GPIO24",
			Data:   "GPIO25",
			Port:   "/dev/ttyUSB0",
			Baud:   9600,
		},
		Dice: DiceConfig{Faces: 4, Throws: 1},
		Sim:  SimConfig{HoldMs: 250},
	}
}

// Load читает конфиг из YAML на fs и дополняет его значениями по умолчанию.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadOrDefault — как Load, но при отсутствии файла возвращает Default().
func LoadOrDefault(fs afero.Fs, path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	ok, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if !ok {
		return Default(), nil
	}
	return Load(fs, path)
}

// Millis возвращает конфигурацию таймера для пакета millis.
func (c *Config) Millis() millis.TimerConfig {
	return millis.TimerConfig(c.Timer)
}

// Interval разбирает LoopInterval; пусто или ошибка — 0.
func (c *Config) Interval() time.Duration {
	if c.LoopInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(c.LoopInterval)
	if err != nil {
		return 0
	}
	return d
}

// Validate проверяет значения, которые нельзя исправить подстановкой умолчаний.
func (c *Config) Validate() error {
	if err := c.Millis().Validate(); err != nil {
		return fmt.Errorf("%w: timer: %w", ErrInvalid, err)
	}
	switch c.Display.Driver {
	case "shiftreg", "serial", "none":
	default:
		return fmt.Errorf("%w: unknown display driver %q", ErrInvalid, c.Display.Driver)
	}
	r := dice.NewRoller()
	if !r.SetDie(c.Dice.Faces) {
		return fmt.Errorf("%w: no d%d die", ErrInvalid, c.Dice.Faces)
	}
	if !r.SetThrows(c.Dice.Throws) {
		return fmt.Errorf("%w: throws %d out of 1..%d", ErrInvalid, c.Dice.Throws, dice.MaxThrows)
	}
	if c.LoopInterval != "" {
		if _, err := time.ParseDuration(c.LoopInterval); err != nil {
			return fmt.Errorf("%w: loop_interval: %w", ErrInvalid, err)
		}
	}
	return nil
}

func applyDefaults(c *Config) {
	d := Default()
	if c.Timer.Prescaler == 0 {
		c.Timer.Prescaler = d.Timer.Prescaler
	}
	if c.Timer.CompareCount == 0 {
		c.Timer.CompareCount = d.Timer.CompareCount
	}
	if c.Timer.CPUFreqHz == 0 {
		c.Timer.CPUFreqHz = d.Timer.CPUFreqHz
	}
	if c.Debounce.WindowMs == 0 {
		c.Debounce.WindowMs = d.Debounce.WindowMs
	}
	if c.Buttons.Roll == "" {
		c.Buttons.Roll = d.Buttons.Roll
	}
	if c.Buttons.Amount == "" {
		c.Buttons.Amount = d.Buttons.Amount
	}
	if c.Buttons.Die == "" {
		c.Buttons.Die = d.Buttons.Die
	}
	if c.Display.Driver == "" {
		c.Display.Driver = d.Display.Driver
	}
	if c.Display.Latch == "" {
		c.Display.Latch = d.Display.Latch
	}
	if c.Display.Clock == "" {
		c.Display.Clock = d.Display.Clock
	}
	if c.Display.Data == "" {
		c.Display.Data = d.Display.Data
	}
	if c.Display.Port == "" {
		c.Display.Port = d.Display.Port
	}
	if c.Display.Baud == 0 {
		c.Display.Baud = d.Display.Baud
	}
	if c.Dice.Faces == 0 {
		c.Dice.Faces = d.Dice.Faces
	}
	if c.Dice.Throws == 0 {
		c.Dice.Throws = d.Dice.Throws
	}
	if c.Sim.HoldMs == 0 {
		c.Sim.HoldMs = d.Sim.HoldMs
	}
}
