package metrics

import "github.com/prometheus/client_golang/prometheus"

// CalendarMetrics tracks event calendar persistence and rejected edits.
type CalendarMetrics struct {
	flushSuccess prometheus.Counter
	flushFailure prometheus.Counter
	rejected     *prometheus.CounterVec
}

func NewCalendarMetrics(reg prometheus.Registerer) *CalendarMetrics {
	if reg == nil {
		return &CalendarMetrics{}
	}
	flushSuccess := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calendar_flush_success",
		Help: "Successful calendar event flushes.",
	})
	flushFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calendar_flush_failure",
		Help: "Failed calendar event flushes.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "calendar_mutation_rejected",
		Help: "Calendar mutations rejected before touching state.",
	}, []string{"reason"})
	reg.MustRegister(flushSuccess, flushFailure, rejected)
	return &CalendarMetrics{
		flushSuccess: flushSuccess,
		flushFailure: flushFailure,
		rejected:     rejected,
	}
}

func (m *CalendarMetrics) IncFlush(err error) {
	if m == nil || m.flushSuccess == nil {
		return
	}
	if err != nil {
		m.flushFailure.Inc()
		return
	}
	m.flushSuccess.Inc()
}

func (m *CalendarMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}
