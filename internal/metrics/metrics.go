// Package metrics — счётчики Prometheus для панели и HTTP-эндпоинт /metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shiwa/diceroller/internal/logger"
	"github.com/shiwa/diceroller/internal/millis"
)

// Collector реализует panel.Observer и хранит метрики в собственном реестре.
type Collector struct {
	registry *prometheus.Registry
	pulses   *prometheus.CounterVec
	reseeds  prometheus.Counter
	rolls    *prometheus.CounterVec
	results  *prometheus.HistogramVec
}

// New регистрирует метрики; clock (может быть nil) публикуется как gauge diceroller_clock_millis.
func New(clock millis.Reader) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		pulses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diceroller_button_pulses_total",
			Help: "Debounced button presses by button",
		}, []string{"button"}),
		reseeds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diceroller_reseeds_total",
			Help: "Entropy engine reseeds",
		}),
		rolls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diceroller_rolls_total",
			Help: "Completed rolls by die",
		}, []string{"die"}),
		results: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diceroller_roll_result",
			Help:    "Roll sums by die",
			Buckets: prometheus.LinearBuckets(0, 50, 19), // до 900 = 9d100
		}, []string{"die"}),
	}
	c.registry.MustRegister(c.pulses, c.reseeds, c.rolls, c.results)
	if clock != nil {
		c.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "diceroller_clock_millis",
			Help: "Current monotonic clock reading in milliseconds",
		}, func() float64 { return float64(clock.Read()) }))
	}
	return c
}

// Pulse учитывает устойчивое нажатие кнопки.
func (c *Collector) Pulse(name string) {
	c.pulses.WithLabelValues(name).Inc()
}

// Reseeded учитывает подмешивание энтропии.
func (c *Collector) Reseeded() {
	c.reseeds.Inc()
}

// Rolled учитывает завершённый бросок.
func (c *Collector) Rolled(faces, throws uint8, result uint16) {
	die := "d" + strconv.Itoa(int(faces))
	c.rolls.WithLabelValues(die).Inc()
	c.results.WithLabelValues(die).Observe(float64(result))
}

// Registry возвращает реестр метрик.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler возвращает HTTP-обработчик /metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve поднимает HTTP-сервер метрик на addr до отмены ctx.
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics: listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
