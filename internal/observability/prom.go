package observability

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// Todo store
	StoreOpDuration *prometheus.HistogramVec
	StoreErrors     *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "todohub",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "todohub",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "todohub",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		StoreOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "todohub",
				Subsystem: "store",
				Name:      "op_duration_seconds",
				Help:      "Todo store operation latency (full read-modify-write cycle).",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2},
			},
			[]string{"op", "status"},
		),
		StoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "todohub",
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Todo store errors by operation and class.",
			},
			[]string{"op", "class"},
		),
	}

	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.StoreOpDuration, p.StoreErrors)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}

// ObserveStore times one store I/O phase and classifies failures.
// Domain misses (not found) never pass through here; only real
// read/write errors count.
func (p *Prom) ObserveStore(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.StoreErrors.WithLabelValues(op, classifyStoreErr(err)).Inc()
	}
	p.StoreOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())

	return err
}

func classifyStoreErr(err error) string {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return "io"
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unmarshal") || strings.Contains(msg, "decode"):
		return "corrupt"
	case strings.Contains(msg, "permission"):
		return "permission"
	default:
		return "unknown"
	}
}
