package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	pduSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smppctl",
			Subsystem: "pdu",
			Name:      "sent_total",
			Help:      "PDUs written to the SMSC.",
		},
		[]string{"command"},
	)
	pduReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smppctl",
			Subsystem: "pdu",
			Name:      "received_total",
			Help:      "PDUs read from the SMSC.",
		},
		[]string{"command", "status"},
	)
	pduDecodeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smppctl",
			Subsystem: "pdu",
			Name:      "decode_errors_total",
			Help:      "Inbound PDUs that failed to decode.",
		},
		[]string{"reason"},
	)
	responseLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "smppctl",
			Subsystem: "pdu",
			Name:      "response_seconds",
			Help:      "Time from request write to matching response.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	sessionState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "smppctl",
			Subsystem: "session",
			Name:      "state",
			Help:      "1 for the current bind state, 0 otherwise.",
		},
		[]string{"state"},
	)
	messageParts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "smppctl",
			Subsystem: "message",
			Name:      "parts",
			Help:      "Parts per submitted message.",
			Buckets:   []float64{1, 2, 3, 5, 10, 50, 255},
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smppctl",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(pduSent, pduReceived, pduDecodeErrors, responseLatency, sessionState, messageParts, httpRequests)
	})
}

func RecordSent(command string) {
	RegisterMetrics()
	pduSent.WithLabelValues(command).Inc()
}

func RecordReceived(command string, status uint32) {
	RegisterMetrics()
	pduReceived.WithLabelValues(command, "0x"+strconv.FormatUint(uint64(status), 16)).Inc()
}

func RecordDecodeError(reason string) {
	RegisterMetrics()
	pduDecodeErrors.WithLabelValues(reason).Inc()
}

func RecordResponse(command string, d time.Duration) {
	RegisterMetrics()
	responseLatency.WithLabelValues(command).Observe(d.Seconds())
}

// SetState marks current as the only active state among all.
func SetState(current string, all []string) {
	RegisterMetrics()
	for _, s := range all {
		v := 0.0
		if s == current {
			v = 1
		}
		sessionState.WithLabelValues(s).Set(v)
	}
}

func RecordMessageParts(n int) {
	RegisterMetrics()
	messageParts.Observe(float64(n))
}

func RecordHTTPRequest(method, path string, status int) {
	RegisterMetrics()
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
