package main

import (
	"context"
	"errors"
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/shiwa/diceroller/internal/logger"
	"github.com/shiwa/diceroller/internal/metrics"
	"github.com/shiwa/diceroller/internal/millis"
	"github.com/shiwa/diceroller/internal/sim"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Передняя панель в терминале: 1 — бросок, 2 — количество, 3 — кубик",
	Run:   runSim,
}

func init() {
	simCmd.Flags().String("metrics-addr", "", "адрес HTTP /metrics (переопределяет config)")
	rootCmd.AddCommand(simCmd)
}

func runSim(cmd *cobra.Command, args []string) {
	cfg := mustConfig(cmd)
	clock, err := millis.NewClock(cfg.Millis())
	if err != nil {
		log.Fatalf("timer: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("terminal: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("terminal: %v", err)
	}
	defer screen.Fini()
	// лог поверх экрана tcell только мешает
	logger.Quiet = true

	s := sim.New(screen, clock, cfg.Sim.HoldMs)
	roll, amount, die := s.Pins()
	collector := metrics.New(clock)
	// виртуальные кнопки всегда активны низким уровнем
	cfg.Buttons.ActiveHigh = false
	p, err := newPanel(cfg, clock, roll, amount, die, s, collector)
	if err != nil {
		screen.Fini()
		log.Fatalf("%v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return clock.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		return s.Run(gctx, cfg.Interval(), p.Step)
	})
	if cfg.Metrics.Addr != "" {
		g.Go(func() error { return collector.Serve(gctx, cfg.Metrics.Addr) })
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		screen.Fini()
		log.Fatalf("sim: %v", err)
	}
}
