package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New cria o logger conforme o ambiente: JSON em produção, console colorido em desenvolvimento
func New(env string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(env, "development") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// Must é como New, mas cai para um logger de exemplo quando a configuração falha
func Must(env string, verbose bool) *zap.Logger {
	l, err := New(env, verbose)
	if err != nil {
		return zap.NewExample()
	}
	return l
}
