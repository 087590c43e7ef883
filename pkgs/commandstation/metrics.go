package commandstation

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the counters/gauges exposed for a Client. A single Z21
// session has no per-connection fan-out to collect over (unlike a TCP-info
// exporter watching many sockets), so plain prometheus.Counter/Gauge values
// registered once are enough — no custom Collector is needed here.
type metrics struct {
	datagramsSent     prometheus.Counter
	datagramsReceived prometheus.Counter
	decodeErrors      prometheus.Counter
	checksumFailures  prometheus.Counter
}

func newMetrics(sessionID string) *metrics {
	labels := prometheus.Labels{"session": sessionID}
	m := &metrics{
		datagramsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "z21",
			Name:        "datagrams_sent_total",
			Help:        "UDP datagrams sent to the command station.",
			ConstLabels: labels,
		}),
		datagramsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "z21",
			Name:        "datagrams_received_total",
			Help:        "UDP datagrams received from the command station.",
			ConstLabels: labels,
		}),
		decodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "z21",
			Name:        "decode_errors_total",
			Help:        "DataSets dropped for a framing or decode error.",
			ConstLabels: labels,
		}),
		checksumFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "z21",
			Name:        "checksum_failures_total",
			Help:        "LAN_X envelopes dropped for a checksum mismatch.",
			ConstLabels: labels,
		}),
	}
	return m
}

// register adds m's collectors to reg, ignoring an AlreadyRegisteredError so
// a Client can be recreated in tests without panicking on double-registration.
func (m *metrics) register(reg prometheus.Registerer) {
	for _, c := range []prometheus.Collector{m.datagramsSent, m.datagramsReceived, m.decodeErrors, m.checksumFailures} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				continue
			}
		}
	}
}
