package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys for external provider calls.
const (
	FieldProvider = "provider"
	FieldModel    = "model"
)

// ProviderFields returns the provider and model fields, omitting empty values.
func ProviderFields(provider, model string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if p := strings.TrimSpace(provider); p != "" {
		fields = append(fields, zap.String(FieldProvider, p))
	}
	if m := strings.TrimSpace(model); m != "" {
		fields = append(fields, zap.String(FieldModel, m))
	}
	return fields
}

// WithProvider attaches provider and model fields. A nil logger becomes a no-op logger.
func WithProvider(l *zap.Logger, provider, model string) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	fields := ProviderFields(provider, model)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// TruncateForLog trims s and cuts it to limit runes, appending "..." when cut.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
