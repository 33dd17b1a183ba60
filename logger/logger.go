package logger

import (
	"strings"

	"go.uber.org/zap"
)

// New builds a sugared logger. "prod"/"production" gets JSON output at info
// level, anything else the development console encoder at debug level.
func New(mode string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zapLogger.Sugar(), nil
}

func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
