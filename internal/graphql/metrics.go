package graphql

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var resolverCalls = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hn_graphql_resolver_calls_total",
	Help: "Number of top level field resolutions, by field and outcome",
}, []string{"field", "outcome"})

func countCall(field string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	resolverCalls.WithLabelValues(field, outcome).Inc()
}
