package chain

import "github.com/prometheus/client_golang/prometheus"

var callsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sinder",
	Subsystem: "chain",
	Name:      "calls_total",
	Help:      "Contract calls and transactions sent to the RPC node.",
}, []string{"method", "result"})

func init() {
	prometheus.MustRegister(callsTotal)
}

func observe(method string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	callsTotal.WithLabelValues(method, result).Inc()
}
