package ripple

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var networkMismatchCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "escrow_bridge",
		Name:      "network_mismatch_total",
		Help:      "Lookups that missed on the configured network but succeeded on the alternate one.",
	},
	[]string{"operation", "configured", "found_on"},
)

// RegisterMetrics register ledger metrics into reg (eg. prometheus.DefaultRegisterer)
func RegisterMetrics(reg prometheus.Registerer) error {
	err := reg.Register(networkMismatchCounter)
	var already prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &already) {
		return err
	}
	return nil
}
