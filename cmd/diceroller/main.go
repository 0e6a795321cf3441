// diceroller — электронный кубик: три кнопки, четырёхразрядный индикатор, генератор
// с подмешиванием времени удержания кнопки броска.
//
// Использование:
//
//	diceroller run -config diceroller.yml   — работа на плате (GPIO через periph)
//	diceroller sim                          — передняя панель в терминале
//	diceroller roll --seed 42 --die 20      — детерминированные броски без железа
//	diceroller stats --bound 6              — проверка равномерности генератора
package main

import (
	"log"

	"github.com/shiwa/diceroller/internal/config"
	"github.com/shiwa/diceroller/internal/logger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	configPath string
	quiet      bool
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "diceroller",
		Short: "Электронный кубик для настольных игр",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Quiet = quiet
			logger.Verbose = verbose
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("diceroller: %v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "путь к YAML конфигу (по умолчанию "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "меньше вывода")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "отладочные сообщения")
}

// loadConfig читает конфиг с диска. Явно указанный, но отсутствующий файл — ошибка.
func loadConfig(fs afero.Fs, path string) (*config.Config, error) {
	if path != "" {
		return config.Load(fs, path)
	}
	return config.LoadOrDefault(fs, "")
}

// applyOverrides переносит явно заданные флаги команды поверх файла.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Lookup("metrics-addr") != nil && flags.Changed("metrics-addr") {
		cfg.Metrics.Addr, _ = flags.GetString("metrics-addr")
	}
	if flags.Lookup("display") != nil && flags.Changed("display") {
		cfg.Display.Driver, _ = flags.GetString("display")
	}
	return cfg.Validate()
}

func mustConfig(cmd *cobra.Command) *config.Config {
	cfg, err := loadConfig(afero.NewOsFs(), configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := applyOverrides(cmd, cfg); err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}
