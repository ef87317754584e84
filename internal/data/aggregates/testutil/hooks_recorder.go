package testutil

import (
	"sync"
	"time"

	"github.com/yungbote/dayplanner-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/dayplanner-backend/internal/domain/aggregates"
)

// HooksRecorder keeps every aggregate write outcome for assertions.
type HooksRecorder struct {
	mu       sync.Mutex
	statuses map[string][]string
	rejected map[domainagg.ErrorCode][]string
}

var _ aggregates.Hooks = (*HooksRecorder)(nil)

func (h *HooksRecorder) Done(op, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.statuses == nil {
		h.statuses = map[string][]string{}
	}
	h.statuses[op] = append(h.statuses[op], status)
}

func (h *HooksRecorder) Rejected(op string, code domainagg.ErrorCode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rejected == nil {
		h.rejected = map[domainagg.ErrorCode][]string{}
	}
	h.rejected[code] = append(h.rejected[code], op)
}

// Statuses returns the outcomes recorded for op in call order.
func (h *HooksRecorder) Statuses(op string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.statuses[op]...)
}

// Rejections returns the ops that failed with code.
func (h *HooksRecorder) Rejections(code domainagg.ErrorCode) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.rejected[code]...)
}

// Failed reports every op that recorded a non-success outcome.
func (h *HooksRecorder) Failed() map[string][]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := map[string][]string{}
	for op, list := range h.statuses {
		for _, s := range list {
			if s != "success" {
				out[op] = append(out[op], s)
			}
		}
	}
	return out
}
