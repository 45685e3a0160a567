package logger

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/giovaniif/order-inventory/infra/loki"
	"github.com/giovaniif/order-inventory/infra/requestid"
)

type Config struct {
	Service string
	Level   string
	LokiURL string
}

// New builds a JSON zap logger on stdout. When LokiURL is set every entry is also
// shipped to Loki; the returned close func flushes that stream.
func New(cfg Config) (*zap.Logger, func()) {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		if parsed, err := zapcore.ParseLevel(cfg.Level); err == nil {
			level.SetLevel(parsed)
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	closeFn := func() {}
	if w := loki.NewWriter(cfg.LokiURL, cfg.Service); w != nil {
		cores = append(cores, zapcore.NewCore(encoder.Clone(), zapcore.AddSync(w), level))
		closeFn = func() { _ = w.Close() }
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("service.name", cfg.Service)),
	)
	return logger, func() {
		_ = logger.Sync()
		closeFn()
	}
}

// Middleware writes one access log entry per request.
func Middleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if id := requestid.FromContext(c.Request.Context()); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
