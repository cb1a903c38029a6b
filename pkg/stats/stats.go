package stats

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	BYTE = 1 << (10 * iota)
	KILOBYTE
	MEGABYTE
	GIGABYTE
	TERABYTE

	statsFilename = "stats"
)

var (
	dealOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zeto",
			Name:      "deal_operations_total",
			Help:      "Number of deal operations by type and outcome.",
		},
		[]string{"operation", "result"},
	)
	rejectedOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "zeto",
			Name:      "deal_operations_rejected_total",
			Help:      "Number of deal operations rejected because of a context error.",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(dealOperations, rejectedOperations)
}

// ObserveDealOperation counts the outcome of a deal operation.
func ObserveDealOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded) {
			rejectedOperations.WithLabelValues(operation).Inc()
		}
	}
	dealOperations.WithLabelValues(operation, result).Inc()
}

// EnableMemoryStatistics enables go routine that periodically prints memory
// usage of the go process. Prometheus metrics are dumped into datadir once
// the context is done.
func EnableMemoryStatistics(
	ctx context.Context, interval time.Duration, datadir string,
) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PrintMemoryStatistics()
				PrintNumOfRoutines()
			case <-ctx.Done():
				if err := DumpPrometheusDefaults(datadir); err != nil {
					log.WithError(err).Warn("failed to dump prometheus metrics")
				}
				return
			}
		}
	}()
}

// toGigabytes returns given memory in bytes to gigabytes.
func toGigabytes(bytes uint64) float64 {
	return float64(bytes) / GIGABYTE
}

// PrintMemoryStatistics prints memory statistics using go runtime library.
func PrintMemoryStatistics() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	log.Infof(
		"Total allocated: %.3fGB, Heap allocated: %.3fGB, "+
			"Allocated objects count: %v, Freed objects count: %v",
		toGigabytes(memStats.TotalAlloc),
		toGigabytes(memStats.HeapAlloc),
		memStats.Mallocs,
		memStats.Frees,
	)
}

// DumpPrometheusDefaults write default Prometheus metrics to a file
func DumpPrometheusDefaults(datadir string) error {
	file, err := os.OpenFile(
		filepath.Join(datadir, statsFilename),
		os.O_APPEND|os.O_CREATE|os.O_RDWR,
		0644,
	)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)

	metricFamily, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, v := range metricFamily {
		if _, err := writer.WriteString(v.String() + "\n"); err != nil {
			return err
		}
	}

	return writer.Flush()
}

// PrintNumOfRoutines prints number of go routines currently running
func PrintNumOfRoutines() {
	log.Infof("Num of go routines: %v", runtime.NumGoroutine())
}
