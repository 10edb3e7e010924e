package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// runMetrics describes one run in the node exporter textfile format.
type runMetrics struct {
	registry       *prometheus.Registry
	inputPoints    prometheus.Gauge
	outputPoints   prometheus.Gauge
	duration       prometheus.Gauge
	accuracy       *prometheus.GaugeVec
	ljungBox       prometheus.Gauge
	ljungBoxPValue prometheus.Gauge
	lastSuccess    prometheus.Gauge
}

func newRunMetrics(method string) *runMetrics {
	labels := prometheus.Labels{"method": method}
	m := &runMetrics{
		inputPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "smooth_input_points",
			Help:        "Observations read from the input",
			ConstLabels: labels,
		}),
		outputPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "smooth_output_points",
			Help:        "Observations written, forecast included",
			ConstLabels: labels,
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "smooth_execute_seconds",
			Help:        "Time spent executing the method",
			ConstLabels: labels,
		}),
		accuracy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "smooth_accuracy",
			Help:        "Error measure of the smoothed series against the input",
			ConstLabels: labels,
		}, []string{"measure"}),
		ljungBox: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "smooth_ljung_box_statistic",
			Help:        "Ljung-Box Q statistic of the residuals",
			ConstLabels: labels,
		}),
		ljungBoxPValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "smooth_ljung_box_p_value",
			Help:        "p-value of the Ljung-Box test on the residuals",
			ConstLabels: labels,
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "smooth_last_success_timestamp_seconds",
			Help:        "Unix time of the last successful run",
			ConstLabels: labels,
		}),
	}
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.inputPoints,
		m.outputPoints,
		m.duration,
		m.accuracy,
		m.ljungBox,
		m.ljungBoxPValue,
		m.lastSuccess,
	)
	return m
}

func (m *runMetrics) write(path string) error {
	m.lastSuccess.SetToCurrentTime()
	return prometheus.WriteToTextfile(path, m.registry)
}
