package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the prometheus collectors updated by a Pipeline.
type Metrics struct {
	frames        *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
}

// NewMetrics creates the pipeline collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		frames: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glpipeline_frames_total",
				Help: "Total number of frames that ran every stage",
			},
			[]string{"pipeline"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glpipeline_stage_duration_seconds",
				Help:    "Duration of stage runs",
				Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
			},
			[]string{"pipeline", "stage"},
		),
		stageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glpipeline_stage_failures_total",
				Help: "Total number of stage failures by kind",
			},
			[]string{"pipeline", "stage", "kind"},
		),
	}
	reg.MustRegister(m.frames, m.stageDuration, m.stageFailures)
	return m
}
