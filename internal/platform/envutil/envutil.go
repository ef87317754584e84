package envutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/dayplanner-backend/internal/platform/logger"
)

// Source resolves configuration keys from the process environment first and
// an optional YAML overlay second.
type Source struct {
	log     *logger.Logger
	overlay map[string]string
}

func NewSource(log *logger.Logger) *Source {
	s := &Source{overlay: map[string]string{}}
	if log != nil {
		s.log = log.With("component", "envutil")
	}
	return s
}

// LoadYAML reads a flat YAML mapping (KEY: value) into the overlay.
// Nested mappings are flattened with "_" and upper-cased.
func (s *Source) LoadYAML(raw []byte) error {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	flatten("", doc, s.overlay)
	return nil
}

func (s *Source) LoadYAMLFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	return s.LoadYAML(raw)
}

func flatten(prefix string, in map[string]interface{}, out map[string]string) {
	for k, v := range in {
		key := strings.ToUpper(strings.TrimSpace(k))
		if prefix != "" {
			key = prefix + "_" + key
		}
		switch t := v.(type) {
		case map[string]interface{}:
			flatten(key, t, out)
		case []interface{}:
			parts := make([]string, 0, len(t))
			for _, item := range t {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
		case nil:
		default:
			out[key] = fmt.Sprint(t)
		}
	}
}

func (s *Source) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v), true
	}
	if s != nil {
		if v, ok := s.overlay[key]; ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func (s *Source) debug(msg string, kv ...interface{}) {
	if s != nil && s.log != nil {
		s.log.Debug(msg, kv...)
	}
}

func (s *Source) String(key, def string) string {
	v, ok := s.lookup(key)
	if !ok || v == "" {
		s.debug("Config key not found, using default", "key", key, "default", def)
		return def
	}
	return v
}

func (s *Source) Int(key string, def int) int {
	v, ok := s.lookup(key)
	if !ok || v == "" {
		s.debug("Config key not found, using default", "key", key, "default", def)
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		s.debug("Config key could not be parsed as int, using default", "key", key, "provided", v, "default", def)
		return def
	}
	return i
}

func (s *Source) Bool(key string, def bool) bool {
	v, ok := s.lookup(key)
	if !ok || v == "" {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		s.debug("Config key could not be parsed as bool, using default", "key", key, "provided", v, "default", def)
		return def
	}
}

// Seconds reads an integer number of seconds.
func (s *Source) Seconds(key string, def int) time.Duration {
	return time.Duration(s.Int(key, def)) * time.Second
}

func (s *Source) List(key string, def []string) []string {
	v, ok := s.lookup(key)
	if !ok || v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
