package logger

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/giovaniif/order-inventory/infra/requestid"
)

func TestNew_DefaultsToInfo(t *testing.T) {
	log, closeFn := New(Config{Service: "inventory", Level: "not-a-level"})
	defer closeFn()

	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_HonoursLevel(t *testing.T) {
	log, closeFn := New(Config{Service: "order", Level: "debug"})
	defer closeFn()

	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_ShipsToLoki(t *testing.T) {
	var pushes int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&pushes, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	log, closeFn := New(Config{Service: "order", LokiURL: srv.URL})
	log.Info("order created")
	closeFn()

	assert.Equal(t, int32(1), atomic.LoadInt32(&pushes))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(requestid.Middleware, Middleware(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(requestid.Header, "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
