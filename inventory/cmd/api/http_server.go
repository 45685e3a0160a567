package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/giovaniif/order-inventory/infra/config"
	"github.com/giovaniif/order-inventory/infra/httpserver"
	"github.com/giovaniif/order-inventory/infra/logger"
	"github.com/giovaniif/order-inventory/infra/metrics"
	"github.com/giovaniif/order-inventory/infra/requestid"
	"github.com/giovaniif/order-inventory/infra/tracing"
	"github.com/giovaniif/order-inventory/inventory/domain/stock"
	"github.com/giovaniif/order-inventory/inventory/infra/repositories"
	"github.com/giovaniif/order-inventory/inventory/use_cases/lookup"
)

const ServiceName = "inventory"

type Deps struct {
	Logger *zap.Logger
	// Redis is nil when the stock table lives in memory.
	Redis *redis.Client
}

func NewRouter(lookupUseCase *lookup.Lookup, deps Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	// ids may carry escaped slashes; match on the raw path, productIdParam decodes.
	r.UseRawPath = true
	r.UnescapePathValues = false

	r.Use(gin.Recovery(), requestid.Middleware, tracing.Middleware(ServiceName), logger.Middleware(log))
	metrics.Register(r)

	r.GET("/health", func(c *gin.Context) {
		status := "healthy"
		redisCheck := "n/a"
		if deps.Redis != nil {
			if err := deps.Redis.Ping(c.Request.Context()).Err(); err != nil {
				status = "degraded"
				redisCheck = "down"
			} else {
				redisCheck = "up"
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "checks": gin.H{"redis": redisCheck}})
	})

	r.GET("/api/inventory/:productId", func(c *gin.Context) {
		productId := productIdParam(c)
		output, err := lookupUseCase.Lookup(c.Request.Context(), lookup.Input{ProductId: productId})
		if err != nil {
			log.Error("stock lookup failed", zap.String("product_id", productId), zap.Error(err))
			c.String(http.StatusInternalServerError, err.Error())
			return
		}
		metrics.InventoryLookups.WithLabelValues(boolLabel(output.Known)).Inc()
		c.JSON(http.StatusOK, output.Record)
	})

	return r
}

// productIdParam path-decodes the id when gin matched on RawPath. Without a
// RawPath the param comes from URL.Path and is already decoded. A '+' stays a '+'.
func productIdParam(c *gin.Context) string {
	raw := c.Param("productId")
	if c.Request.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// newStockRepository picks Redis when configured and reachable, memory otherwise.
// Either way the seed table is loaded before the first request.
func newStockRepository(ctx context.Context, cfg *config.Config, log *zap.Logger) (stock.Repository, *redis.Client) {
	if cfg.Redis.Addr == "" {
		log.Info("stock store: in-memory (set REDIS_ADDR for Redis)")
		return repositories.NewStockRepositoryMemory(stock.Seed()), nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	repository := repositories.NewStockRepositoryRedis(rdb)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed, using in-memory stock", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		_ = rdb.Close()
		return repositories.NewStockRepositoryMemory(stock.Seed()), nil
	}
	if err := repository.Seed(ctx, stock.Seed()); err != nil {
		log.Warn("redis seed failed, using in-memory stock", zap.Error(err))
		_ = rdb.Close()
		return repositories.NewStockRepositoryMemory(stock.Seed()), nil
	}
	log.Info("stock store: redis", zap.String("addr", cfg.Redis.Addr))
	return repository, rdb
}

func StartServer(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	stockRepository, rdb := newStockRepository(ctx, cfg, log)
	if rdb != nil {
		defer rdb.Close()
	}
	lookupUseCase := lookup.NewLookup(stockRepository)

	r := NewRouter(lookupUseCase, Deps{Logger: log, Redis: rdb})
	return httpserver.Run(ctx, cfg.Inventory.HTTPAddr, r, log)
}
