package sin

import "github.com/prometheus/client_golang/prometheus"

var skippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sinder",
	Subsystem: "registry",
	Name:      "skipped_total",
	Help:      "Items omitted from a result because a per-item read failed.",
}, []string{"stage"})

func init() {
	prometheus.MustRegister(skippedTotal)
}
