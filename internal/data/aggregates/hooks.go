package aggregates

import (
	"time"

	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
	"github.com/yungbote/dayplanner-backend/internal/observability"
)

// Hooks receives one Done per aggregate write and one Rejected per failed
// write, keyed by the failure code.
type Hooks interface {
	Done(op, status string, dur time.Duration)
	Rejected(op string, code domainagg.ErrorCode)
}

type noopHooks struct{}

func (noopHooks) Done(string, string, time.Duration) {}
func (noopHooks) Rejected(string, domainagg.ErrorCode) {}

type metricsHooks struct {
	m *observability.Metrics
}

// NewObservabilityHooks reports aggregate writes to m; nil m yields no-op hooks.
func NewObservabilityHooks(m *observability.Metrics) Hooks {
	if m == nil {
		return noopHooks{}
	}
	return metricsHooks{m: m}
}

func (h metricsHooks) Done(op, status string, dur time.Duration) {
	h.m.ObserveAggregateOperation(op, status, dur)
}

func (h metricsHooks) Rejected(op string, code domainagg.ErrorCode) {
	h.m.IncAggregateRejection(op, string(code))
}
