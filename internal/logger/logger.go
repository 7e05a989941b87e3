package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Denis-Wendell/matchmaking-sub000/internal/version"
)

// ServiceName is attached to every production log line.
const ServiceName = "matchengine"

// NewLogger creates a zap logger for the given environment.
// prod writes JSON with service and version fields; local, dev and docker
// write colored console output. levelOverride (debug, info, warn, error)
// replaces the environment's default level when non-empty.
func NewLogger(env string, levelOverride ...string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
		cfg.InitialFields = map[string]any{
			"service": ServiceName,
			"version": version.Version,
		}
	case "local", "dev", "docker":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}

	if len(levelOverride) > 0 {
		if raw := strings.TrimSpace(levelOverride[0]); raw != "" {
			level, err := zapcore.ParseLevel(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid log level %q: %w", raw, err)
			}
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
