// Package telemetry exposes the stage's prometheus counters.
package telemetry

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BatchesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prism_batches_processed_total",
		Help: "Batches that completed processing, including output emission.",
	})
	RecordsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prism_records_emitted_total",
		Help: "Records handed to the output lane.",
	})
	ErrorRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prism_error_records_total",
		Help: "Records the transformer flagged and the error policy handled.",
	})
	BatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prism_batch_failures_total",
		Help: "Batches aborted by a transform or collection failure.",
	})
)

func Expose(port int) {
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
