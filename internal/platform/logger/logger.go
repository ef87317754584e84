package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a key/value logger over zap. Values under secret-looking keys are
// redacted and identity keys are hashed before they reach any sink.
type Logger struct {
	SugaredLogger *zap.SugaredLogger
	scrub         *scrubber
}

// New builds a production JSON logger for mode "prod"/"production" and a
// console logger otherwise. LOG_LEVEL overrides the mode's default level.
func New(mode string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	level := zapcore.DebugLevel
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		level = zapcore.InfoLevel
	}
	if raw := strings.TrimSpace(os.Getenv("LOG_LEVEL")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL %q: %w", raw, err)
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: z.Sugar(), scrub: scrubberFromEnv()}, nil
}

func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() { _ = l.SugaredLogger.Sync() }

func (l *Logger) Debug(msg string, kv ...interface{}) {
	l.SugaredLogger.Debugw(msg, l.scrub.apply(kv)...)
}

func (l *Logger) Info(msg string, kv ...interface{}) {
	l.SugaredLogger.Infow(msg, l.scrub.apply(kv)...)
}

func (l *Logger) Warn(msg string, kv ...interface{}) {
	l.SugaredLogger.Warnw(msg, l.scrub.apply(kv)...)
}

func (l *Logger) Error(msg string, kv ...interface{}) {
	l.SugaredLogger.Errorw(msg, l.scrub.apply(kv)...)
}

func (l *Logger) Fatal(msg string, kv ...interface{}) {
	l.SugaredLogger.Fatalw(msg, l.scrub.apply(kv)...)
}

func (l *Logger) With(kv ...interface{}) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(l.scrub.apply(kv)...), scrub: l.scrub}
}

var (
	secretKeyParts   = []string{"token", "authorization", "password", "secret", "cookie"}
	identityKeyParts = []string{"user_id", "email"}
)

// scrubber rewrites sensitive values. A nil scrubber passes values through.
type scrubber struct {
	salt string
}

// scrubberFromEnv enables scrubbing unless LOG_REDACTION_ENABLED is falsy.
func scrubberFromEnv() *scrubber {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
	case "0", "false", "no", "off":
		return nil
	}
	return &scrubber{salt: strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))}
}

func (s *scrubber) apply(kv []interface{}) []interface{} {
	if s == nil || len(kv) == 0 {
		return kv
	}
	out := make([]interface{}, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		out[i+1] = s.value(stringify(out[i]), out[i+1])
	}
	return out
}

func (s *scrubber) value(key string, v interface{}) interface{} {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return v
	}
	if containsAny(key, secretKeyParts) {
		return "[REDACTED]"
	}
	if containsAny(key, identityKeyParts) {
		return s.hash(stringify(v))
	}
	if m, ok := v.(map[string]interface{}); ok {
		clean := make(map[string]interface{}, len(m))
		for k, inner := range m {
			clean[k] = s.value(k, inner)
		}
		return clean
	}
	return v
}

// hash keeps identities joinable across log lines without exposing them.
func (s *scrubber) hash(raw string) string {
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:6])
}

func containsAny(s string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
