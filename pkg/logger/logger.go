package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const service = "makethechange"

var log = zap.NewNop()

// Init prepara el logger global. En local los logs salen en consola con
// colores; en cualquier otro entorno, en JSON. Un nivel desconocido se
// queda en info.
func Init(level, env string) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if env == "local" {
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Sampling = nil
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	l, err := cfg.Build(zap.Fields(zap.String("service", service), zap.String("env", env)))
	if err != nil {
		panic(err)
	}
	log = l
}

// Sugar es el logger con API printf.
func Sugar() *zap.SugaredLogger {
	return log.Sugar()
}

// Logger es el logger estructurado.
func Logger() *zap.Logger {
	return log
}
