// Package metrics exposes Prometheus collectors for the HTTP layer, the tag
// transaction and the database pool.
package metrics

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type (
	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
	}

	Transaction interface {
		ObserveDuration(operation string, duration time.Duration)
		IncrementRetries(operation string)
		IncrementFailures(operation string)
	}
)

// Registry owns every collector and serves them on Handler.
type Registry struct {
	registry    *prometheus.Registry
	http        *httpMetrics
	transaction *transactionMetrics
}

// New returns a Registry with Go runtime and process collectors registered.
// A non-nil db also registers its pool statistics.
func New(db *sql.DB) *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		reg.MustRegister(collectors.NewDBStatsCollector(db, "assetinv"))
	}

	return &Registry{
		registry:    reg,
		http:        newHTTPMetrics(reg),
		transaction: newTransactionMetrics(reg),
	}
}

func (r *Registry) HTTP() HTTP {
	return r.http
}

func (r *Registry) Transaction() Transaction {
	return r.transaction
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		})
}
