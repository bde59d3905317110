package datascope

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "datascope",
	Name:      "decisions_total",
	Help:      "Authorization decisions broken down by operation, scope and result.",
}, []string{"operation", "scope", "result"})

func recordDecision(operation string, scope Scope, allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	decisions.With(prometheus.Labels{
		"operation": operation,
		"scope":     string(scope),
		"result":    result,
	}).Inc()
}
