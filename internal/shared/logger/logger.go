package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New monta o logger do serviço. Em ENV=local usa a config de desenvolvimento;
// level vazio mantém o nível padrão da config escolhida.
func New(serviceName, env, level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	// serviço e env sempre entram como campos padrão
	return cfg.Build(
		zap.Fields(
			zap.String("service", serviceName),
			zap.String("env", env),
		),
	)
}
