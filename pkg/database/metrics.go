package database

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_database_operations_total",
			Help: "Total number of database operations",
		},
		[]string{"operation"},
	)
	errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_database_errors_total",
			Help: "Total number of failed database operations",
		},
		[]string{"operation", "kind"},
	)
	storageChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "economy_storage_checks_total",
			Help: "Total number of storage consistency checks",
		},
		[]string{"result"},
	)
)

// Collectors returns the metrics maintained by the database so they can be registered with
// a prometheus.Registerer.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{operationsTotal, errorsTotal, storageChecksTotal}
}

// observe records the outcome of an operation.
func observe(op string, err error) {
	operationsTotal.WithLabelValues(op).Inc()
	if err != nil {
		errorsTotal.WithLabelValues(op, errorKind(err)).Inc()
	}
}

// errorKind maps an error to a short label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidArgumentType):
		return "invalid_argument_type"
	case errors.Is(err, ErrInvalidTarget):
		return "invalid_target"
	case errors.Is(err, ErrCorruptStorage):
		return "corrupt_storage"
	case errors.Is(err, ErrReservedPath):
		return "reserved_path"
	default:
		return "io"
	}
}
