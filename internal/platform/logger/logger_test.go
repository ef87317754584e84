package logger

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestScrubberRedactsSecrets(t *testing.T) {
	s := &scrubber{}
	in := []interface{}{"password", "hunter2", "refresh_token", "abc", "status", 200}
	out := s.apply(in)
	if out[1] != "[REDACTED]" || out[3] != "[REDACTED]" {
		t.Fatalf("secrets: got=%v", out)
	}
	if out[5] != 200 {
		t.Fatalf("status: want=200 got=%v", out[5])
	}
	if in[1] != "hunter2" {
		t.Fatalf("input slice was modified: %v", in)
	}
}

func TestScrubberHashesIdentity(t *testing.T) {
	id := uuid.MustParse("6f1c1f7e-8a43-4c52-9d7e-0a0d8c1e2f11")
	s := &scrubber{salt: "pepper"}
	a, _ := s.apply([]interface{}{"user_id", id})[1].(string)
	b, _ := s.apply([]interface{}{"user_id", id.String()})[1].(string)
	if !strings.HasPrefix(a, "hash:") || len(a) != len("hash:")+12 {
		t.Fatalf("user_id hash: got=%q", a)
	}
	if a != b {
		t.Fatalf("uuid and its string must hash alike: %q vs %q", a, b)
	}
	if other, _ := (&scrubber{salt: "salt"}).apply([]interface{}{"user_id", id})[1].(string); other == a {
		t.Fatalf("salt must change the hash")
	}
}

func TestScrubberNestedAndOdd(t *testing.T) {
	s := &scrubber{}
	out := s.apply([]interface{}{"body", map[string]interface{}{"Password": "x", "title": "run"}, "dangling"})
	m := out[1].(map[string]interface{})
	if m["Password"] != "[REDACTED]" || m["title"] != "run" {
		t.Fatalf("nested: got=%v", m)
	}
	if len(out) != 3 || out[2] != "dangling" {
		t.Fatalf("odd kv: %v", out)
	}
}

func TestRedactionCanBeDisabled(t *testing.T) {
	t.Setenv("LOG_REDACTION_ENABLED", "off")
	if s := scrubberFromEnv(); s != nil {
		t.Fatalf("scrubber should be off")
	}
	var s *scrubber
	if out := s.apply([]interface{}{"password", "x"}); out[1] != "x" {
		t.Fatalf("nil scrubber must pass through: %v", out)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	if _, err := New("development"); err == nil {
		t.Fatalf("expected error for LOG_LEVEL=loud")
	}
}
