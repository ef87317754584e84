package envutil

import (
	"testing"
	"time"
)

func TestSourceEnvWinsOverOverlay(t *testing.T) {
	t.Setenv("DP_TEST_PORT", "9090")
	s := NewSource(nil)
	if err := s.LoadYAML([]byte("DP_TEST_PORT: 7070\nDP_TEST_NAME: planner\n")); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if got := s.Int("DP_TEST_PORT", 1); got != 9090 {
		t.Fatalf("port: want=9090 got=%d", got)
	}
	if got := s.String("DP_TEST_NAME", ""); got != "planner" {
		t.Fatalf("name: want=planner got=%q", got)
	}
}

func TestSourceFlattensNestedYAML(t *testing.T) {
	s := NewSource(nil)
	raw := []byte(`
postgres:
  host: db.internal
  port: 6432
cors:
  allowed_origins:
    - http://a.test
    - http://b.test
`)
	if err := s.LoadYAML(raw); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if got := s.String("POSTGRES_HOST", ""); got != "db.internal" {
		t.Fatalf("host: want=db.internal got=%q", got)
	}
	if got := s.Int("POSTGRES_PORT", 0); got != 6432 {
		t.Fatalf("port: want=6432 got=%d", got)
	}
	origins := s.List("CORS_ALLOWED_ORIGINS", nil)
	if len(origins) != 2 || origins[1] != "http://b.test" {
		t.Fatalf("origins: got=%v", origins)
	}
}

func TestSourceDefaults(t *testing.T) {
	s := NewSource(nil)
	if got := s.Bool("DP_TEST_MISSING_BOOL", true); !got {
		t.Fatalf("bool default: want=true")
	}
	if got := s.Seconds("DP_TEST_MISSING_TTL", 60); got != time.Minute {
		t.Fatalf("seconds default: want=1m got=%v", got)
	}
	t.Setenv("DP_TEST_BAD_INT", "abc")
	if got := s.Int("DP_TEST_BAD_INT", 5); got != 5 {
		t.Fatalf("bad int: want=5 got=%d", got)
	}
}
