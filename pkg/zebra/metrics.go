package zebra

import "github.com/prometheus/client_golang/prometheus"

// metrics counts boundary operation outcomes. A nil *metrics is valid and
// records nothing, so the Service never branches on whether a registry was
// supplied.
type metrics struct {
	signatures    *prometheus.CounterVec
	verifications *prometheus.CounterVec
	imports       *prometheus.CounterVec
	parseFailures prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		signatures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zebra_signatures_total",
			Help: "Messages signed, by outcome.",
		}, []string{"result"}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zebra_verifications_total",
			Help: "Envelope verifications, by outcome.",
		}, []string{"result"}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "zebra_key_imports_total",
			Help: "Certificate imports, by outcome.",
		}, []string{"result"}),
		parseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zebra_parse_failures_total",
			Help: "Envelope texts rejected before cryptographic checks.",
		}),
	}
	reg.MustRegister(m.signatures, m.verifications, m.imports, m.parseFailures)
	return m
}

func outcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func (m *metrics) countSign(ok bool) {
	if m == nil {
		return
	}
	m.signatures.WithLabelValues(outcome(ok)).Inc()
}

func (m *metrics) countVerify(valid bool) {
	if m == nil {
		return
	}
	label := "invalid"
	if valid {
		label = "valid"
	}
	m.verifications.WithLabelValues(label).Inc()
}

func (m *metrics) countImport(ok bool) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(outcome(ok)).Inc()
}

func (m *metrics) countParseFailure() {
	if m == nil {
		return
	}
	m.parseFailures.Inc()
}
