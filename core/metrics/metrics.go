package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the sync metrics on a private prometheus registry.
type Registry struct {
	reg             *prometheus.Registry
	Runs            *prometheus.CounterVec
	Records         *prometheus.CounterVec
	Retired         prometheus.Counter
	Images          *prometheus.CounterVec
	RunDurationSec  prometheus.Histogram
	LastSuccessUnix prometheus.Gauge
}

// RunOutcome is the subset of a run summary that metrics care about.
type RunOutcome struct {
	Status         string
	Created        int
	Updated        int
	Skipped        int
	Errors         int
	Retired        int
	ImagesAttached int
	ImageErrors    int
	Duration       time.Duration
	FinishedAt     time.Time
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "inventory_sync_runs_total"}, []string{"status"})
	records := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "inventory_sync_records_total"}, []string{"outcome"})
	retired := prometheus.NewCounter(prometheus.CounterOpts{Name: "inventory_sync_retired_total"})
	images := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "inventory_sync_images_total"}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_sync_run_duration_seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{Name: "inventory_sync_last_success_timestamp_seconds"})

	r.MustRegister(runs, records, retired, images, duration, lastSuccess)
	return &Registry{
		reg:             r,
		Runs:            runs,
		Records:         records,
		Retired:         retired,
		Images:          images,
		RunDurationSec:  duration,
		LastSuccessUnix: lastSuccess,
	}
}

// ObserveRun records one finished run.
func (r *Registry) ObserveRun(o RunOutcome) {
	r.Runs.WithLabelValues(o.Status).Inc()
	r.Records.WithLabelValues("created").Add(float64(o.Created))
	r.Records.WithLabelValues("updated").Add(float64(o.Updated))
	r.Records.WithLabelValues("skipped").Add(float64(o.Skipped))
	r.Records.WithLabelValues("error").Add(float64(o.Errors))
	r.Retired.Add(float64(o.Retired))
	r.Images.WithLabelValues("attached").Add(float64(o.ImagesAttached))
	r.Images.WithLabelValues("error").Add(float64(o.ImageErrors))
	r.RunDurationSec.Observe(o.Duration.Seconds())
	if o.Status == "success" {
		r.LastSuccessUnix.Set(float64(o.FinishedAt.Unix()))
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
