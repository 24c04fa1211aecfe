// Package metrics exposes the run loop's counters to Prometheus.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pxflood"

// Recorder counts frames written by the client. It satisfies client.Recorder.
type Recorder struct {
	framesSent    prometheus.Counter
	bytesSent     prometheus.Counter
	logicalBytes  prometheus.Counter
	writeDuration prometheus.Histogram
	pacingSleep   prometheus.Histogram
}

// NewRecorder registers the client metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Frames written to the pixel server",
		}),
		bytesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_sent_total",
			Help:      "Bytes written to the connection, after compression",
		}),
		logicalBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logical_bytes_total",
			Help:      "Encoded frame bytes before compression",
		}),
		writeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_duration_seconds",
			Help:      "Time spent writing one frame",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		pacingSleep: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pacing_sleep_seconds",
			Help:      "Time slept between frames to hold the frame interval",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
}

func (r *Recorder) FrameSent(wireBytes, logicalBytes int, write time.Duration) {
	r.framesSent.Inc()
	r.bytesSent.Add(float64(wireBytes))
	r.logicalBytes.Add(float64(logicalBytes))
	r.writeDuration.Observe(write.Seconds())
}

func (r *Recorder) Paced(d time.Duration) {
	r.pacingSleep.Observe(d.Seconds())
}

// Handler serves the registry at /metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return r
}

// Serve runs the metrics endpoint on addr until ctx is done.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info("serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
