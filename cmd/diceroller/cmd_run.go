package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiwa/diceroller/internal/board"
	"github.com/shiwa/diceroller/internal/button"
	"github.com/shiwa/diceroller/internal/config"
	"github.com/shiwa/diceroller/internal/display"
	"github.com/shiwa/diceroller/internal/hosttime"
	"github.com/shiwa/diceroller/internal/logger"
	"github.com/shiwa/diceroller/internal/metrics"
	"github.com/shiwa/diceroller/internal/millis"
	"github.com/shiwa/diceroller/internal/panel"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Работа на плате: кнопки и индикатор на GPIO",
	Run:   runDevice,
}

func init() {
	runCmd.Flags().String("metrics-addr", "", "адрес HTTP /metrics (переопределяет config)")
	runCmd.Flags().String("display", "", "драйвер индикатора: shiftreg, serial, none (переопределяет config)")
	rootCmd.AddCommand(runCmd)
}

// nopDisplay — driver: none, кадры только в отладочный лог при смене.
type nopDisplay struct{ last string }

func (d *nopDisplay) Show(f display.Frame) error {
	if t := display.Text(f); t != d.last {
		d.last = t
		logger.Debug("display [%s]", t)
	}
	return nil
}

// openDisplay открывает индикатор по конфигу; close освобождает порт.
func openDisplay(c config.DisplayConfig) (display.Display, func() error, error) {
	noop := func() error { return nil }
	switch c.Driver {
	case "shiftreg":
		lines, err := board.OpenLines(c)
		if err != nil {
			return nil, nil, err
		}
		sr := display.NewShiftRegister(lines.Latch, lines.Clock, lines.Data)
		if c.LSBFirst {
			sr.Order = display.LSBFirst
		}
		return sr, noop, nil
	case "serial":
		s, err := display.OpenSerial(c.Port, c.Baud)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "none":
		return &nopDisplay{}, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown display driver %q", c.Driver)
}

// seedFor — seed из конфига или, если он не задан, из часов хоста.
func seedFor(cfg *config.Config) uint32 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return hosttime.BootSeed()
}

// newPanel собирает панель по конфигу. Seed вычисляется здесь один раз, дальше — p.Seed().
func newPanel(cfg *config.Config, clock millis.Reader, roll, amount, die button.Pin, disp display.Display, obs panel.Observer) (*panel.Panel, error) {
	return panel.New(panel.Config{
		Clock:      clock,
		Roll:       roll,
		Amount:     amount,
		Die:        die,
		Display:    disp,
		Seed:       seedFor(cfg),
		Faces:      cfg.Dice.Faces,
		Throws:     cfg.Dice.Throws,
		WindowMs:   cfg.Debounce.WindowMs,
		ActiveHigh: cfg.Buttons.ActiveHigh,
		Observer:   obs,
	})
}

// signalContext отменяется по SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("получен сигнал %v, завершение...", sig)
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func runDevice(cmd *cobra.Command, args []string) {
	cfg := mustConfig(cmd)

	clock, err := millis.NewClock(cfg.Millis())
	if err != nil {
		log.Fatalf("timer: %v", err)
	}
	buttons, err := board.OpenButtons(cfg.Buttons)
	if err != nil {
		log.Fatalf("кнопки: %v", err)
	}
	disp, closeDisp, err := openDisplay(cfg.Display)
	if err != nil {
		log.Fatalf("индикатор: %v", err)
	}
	defer closeDisp()

	collector := metrics.New(clock)
	p, err := newPanel(cfg, clock, buttons.Roll, buttons.Amount, buttons.Die, disp, collector)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()
	if up, err := hosttime.Uptime(); err == nil {
		logger.Debug("host uptime %v, seed %#08x", up, p.Seed())
	}
	logger.Info("timer: prescaler %d, compare %d, +%d ms per tick (period %v)",
		cfg.Timer.Prescaler, cfg.Timer.CompareCount, clock.Increment(), clock.Timer().Period())

	if err := serve(ctx, clock, p, collector, cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

// serve запускает часы, цикл панели и (если задан адрес) сервер метрик до отмены ctx.
func serve(ctx context.Context, clock *millis.Clock, p *panel.Panel, collector *metrics.Collector, cfg *config.Config) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return clock.Run(gctx) })
	g.Go(func() error { return p.Run(gctx, cfg.Interval()) })
	if cfg.Metrics.Addr != "" {
		g.Go(func() error { return collector.Serve(gctx, cfg.Metrics.Addr) })
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
