package observability

import (
	"fmt"
	"time"

	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

// maxSLOSlots bounds the samples kept per objective.
const maxSLOSlots = 100000

type SLOConfig struct {
	Enabled  bool
	Interval time.Duration
	Window   time.Duration
	// Burn rates at or above these log a warning or an error.
	BurnWarn float64
	BurnCrit float64

	AvailabilityTarget float64
	LatencyTarget      float64
	WriteSuccessTarget float64
}

func (c SLOConfig) withDefaults() SLOConfig {
	if c.Interval <= 0 {
		c.Interval = time.Minute
	}
	if c.Window < c.Interval {
		c.Window = 30 * 24 * time.Hour
	}
	if c.Window/c.Interval > maxSLOSlots {
		c.Interval = c.Window / maxSLOSlots
	}
	if c.BurnWarn <= 0 {
		c.BurnWarn = 2
	}
	if c.BurnCrit <= 0 {
		c.BurnCrit = 10
	}
	if c.AvailabilityTarget <= 0 {
		c.AvailabilityTarget = 0.995
	}
	if c.LatencyTarget <= 0 {
		c.LatencyTarget = 0.95
	}
	if c.WriteSuccessTarget <= 0 {
		c.WriteSuccessTarget = 0.999
	}
	return c
}

// ring keeps the last len(buf) samples and their sum.
type ring struct {
	buf []float64
	pos int
	sum float64
}

func (r *ring) push(v float64) {
	r.sum += v - r.buf[r.pos]
	r.buf[r.pos] = v
	r.pos = (r.pos + 1) % len(r.buf)
}

// objective turns two monotonic counters into a windowed good/total ratio.
type objective struct {
	name   string
	target float64
	total  func() float64
	bad    func() float64

	lastTotal, lastBad float64
	totals, bads       ring
}

type sloEvaluator struct {
	m      *Metrics
	log    *logger.Logger
	window string
	objs   []*objective
}

func newSLOEvaluator(m *Metrics, log *logger.Logger) *sloEvaluator {
	cfg := m.cfg.SLO
	slots := int(cfg.Window / cfg.Interval)
	if slots < 1 {
		slots = 1
	}
	obj := func(name string, target float64, total, bad func() float64) *objective {
		return &objective{
			name:   name,
			target: clamp01(target),
			total:  total,
			bad:    bad,
			totals: ring{buf: make([]float64, slots)},
			bads:   ring{buf: make([]float64, slots)},
		}
	}
	return &sloEvaluator{
		m:      m,
		log:    log,
		window: windowLabel(cfg.Window),
		objs: []*objective{
			obj("api_availability", cfg.AvailabilityTarget, m.apiAll.Value, m.api5xx.Value),
			obj("api_latency", cfg.LatencyTarget, m.apiAll.Value, func() float64 { return m.apiAll.Value() - m.apiFast.Value() }),
			obj("write_success", cfg.WriteSuccessTarget, m.writeAll.Value, m.writeServerErr.Value),
		},
	}
}

func (e *sloEvaluator) evaluate() {
	for _, o := range e.objs {
		total, bad := o.total(), o.bad()
		o.totals.push(total - o.lastTotal)
		o.bads.push(bad - o.lastBad)
		o.lastTotal, o.lastBad = total, bad
		e.publish(o)
	}
}

func (e *sloEvaluator) publish(o *objective) {
	sli, burn := 1.0, 0.0
	if o.totals.sum > 0 {
		sli = clamp01(1 - o.bads.sum/o.totals.sum)
		if o.target < 1 {
			burn = (1 - sli) / (1 - o.target)
		}
	}
	e.m.sloCompliance.Set(sli, o.name, e.window)
	e.m.sloBudget.Set(clamp01(1-burn), o.name, e.window)
	e.m.sloBurn.Set(burn, o.name, e.window)

	if e.log == nil {
		return
	}
	cfg := e.m.cfg.SLO
	if burn >= cfg.BurnCrit {
		e.log.Error("SLO burn rate critical", "slo", o.name, "window", e.window, "sli", sli, "burn_rate", burn)
	} else if burn >= cfg.BurnWarn {
		e.log.Warn("SLO burn rate elevated", "slo", o.name, "window", e.window, "sli", sli, "burn_rate", burn)
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// windowLabel renders 720h as "30d", 6h as "6h" and 90m as "90m".
func windowLabel(d time.Duration) string {
	switch {
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%dd", d/(24*time.Hour))
	case d >= time.Hour && d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
