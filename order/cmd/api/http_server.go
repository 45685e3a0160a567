package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/giovaniif/order-inventory/infra/config"
	"github.com/giovaniif/order-inventory/infra/httpserver"
	"github.com/giovaniif/order-inventory/infra/logger"
	"github.com/giovaniif/order-inventory/infra/metrics"
	"github.com/giovaniif/order-inventory/infra/requestid"
	"github.com/giovaniif/order-inventory/infra/tracing"
	"github.com/giovaniif/order-inventory/order/infra/gateways"
	protocols "github.com/giovaniif/order-inventory/order/protocols"
	createorder "github.com/giovaniif/order-inventory/order/use_cases"
)

const ServiceName = "order"

type OrderRequest struct {
	ProductId string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

type Deps struct {
	Logger *zap.Logger
	// Timeout bounds the whole order request including the inventory call.
	Timeout time.Duration
}

func NewRouter(createOrderUseCase *createorder.CreateOrder, deps Deps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestid.Middleware, tracing.Middleware(ServiceName), logger.Middleware(log))
	metrics.Register(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r.POST("/api/orders", func(c *gin.Context) {
		ctx := c.Request.Context()
		if deps.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, deps.Timeout)
			defer cancel()
		}

		var orderRequest OrderRequest
		if err := c.ShouldBindJSON(&orderRequest); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}

		output, err := createOrderUseCase.Create(ctx, createorder.Input{
			ProductId: orderRequest.ProductId,
			Quantity:  orderRequest.Quantity,
		})
		if err != nil {
			if !errors.Is(err, createorder.ErrStockUnavailable) {
				log.Error("unexpected order failure", zap.Error(err))
			}
			metrics.OrderDecisions.WithLabelValues("stock_unavailable").Inc()
			c.String(http.StatusInternalServerError, "Failed to retrieve stock information for product: "+orderRequest.ProductId)
			return
		}

		metrics.OrderDecisions.WithLabelValues(output.Decision.String()).Inc()
		if output.Decision == createorder.Accepted {
			c.String(http.StatusOK, "Order created for product: "+orderRequest.ProductId)
			return
		}
		c.String(http.StatusBadRequest, "Insufficient stock for product: "+orderRequest.ProductId)
	})

	return r
}

type eventPublisher interface {
	protocols.EventPublisher
	Close() error
}

func newEventPublisher(cfg *config.Config, log *zap.Logger) eventPublisher {
	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("order events disabled (set KAFKA_BROKERS to publish)")
		return gateways.NewEventPublisherNoop()
	}
	log.Info("order events: kafka", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	return gateways.NewEventPublisherKafka(gateways.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic, log))
}

func StartServer(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	httpClient := &http.Client{Timeout: cfg.Inventory.Timeout}
	inventoryGateway := gateways.NewInventoryGatewayHttp(cfg.Inventory.ServiceURL, httpClient)

	publisher := newEventPublisher(cfg, log)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("closing event publisher", zap.Error(err))
		}
	}()

	createOrderUseCase := createorder.NewCreateOrder(inventoryGateway, publisher, log)
	r := NewRouter(createOrderUseCase, Deps{Logger: log, Timeout: cfg.Inventory.Timeout})
	return httpserver.Run(ctx, cfg.Order.HTTPAddr, r, log)
}
