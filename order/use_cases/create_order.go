package createorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/giovaniif/order-inventory/infra/requestid"
	protocols "github.com/giovaniif/order-inventory/order/protocols"
)

var ErrStockUnavailable = errors.New("stock unavailable")

type Decision int

const (
	Accepted Decision = iota + 1
	Rejected
)

func (d Decision) String() string {
	switch d {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type Input struct {
	ProductId string
	Quantity  int32
}

type Output struct {
	Decision       Decision
	AvailableStock int32
}

type CreateOrder struct {
	inventoryGateway protocols.InventoryGateway
	eventPublisher   protocols.EventPublisher
	logger           *zap.Logger
	now              func() time.Time
}

func NewCreateOrder(inventoryGateway protocols.InventoryGateway, eventPublisher protocols.EventPublisher, logger *zap.Logger) *CreateOrder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateOrder{
		inventoryGateway: inventoryGateway,
		eventPublisher:   eventPublisher,
		logger:           logger,
		now:              time.Now,
	}
}

// Create asks inventory once and accepts the order when the reported stock
// covers the requested quantity. Nothing is reserved or decremented.
func (c *CreateOrder) Create(ctx context.Context, input Input) (Output, error) {
	stock, err := c.inventoryGateway.GetStock(ctx, input.ProductId)
	if err == nil && stock == nil {
		err = errors.New("inventory returned no stock record")
	}
	if err != nil {
		c.logger.Error("stock lookup failed", zap.String("product_id", input.ProductId), zap.Error(err))
		c.publish(ctx, input, 0, protocols.DecisionUnavailable)
		return Output{}, fmt.Errorf("%w for product %s: %w", ErrStockUnavailable, input.ProductId, err)
	}

	if stock.Quantity >= input.Quantity {
		c.logger.Info("order accepted",
			zap.String("product_id", input.ProductId),
			zap.Int32("quantity", input.Quantity),
			zap.Int32("available", stock.Quantity))
		c.publish(ctx, input, stock.Quantity, protocols.DecisionAccepted)
		return Output{Decision: Accepted, AvailableStock: stock.Quantity}, nil
	}

	c.logger.Info("insufficient stock",
		zap.String("product_id", input.ProductId),
		zap.Int32("quantity", input.Quantity),
		zap.Int32("available", stock.Quantity))
	c.publish(ctx, input, stock.Quantity, protocols.DecisionRejected)
	return Output{Decision: Rejected, AvailableStock: stock.Quantity}, nil
}

func (c *CreateOrder) publish(ctx context.Context, input Input, available int32, decision protocols.Decision) {
	if c.eventPublisher == nil {
		return
	}
	event := protocols.OrderDecided{
		ProductId:      input.ProductId,
		Quantity:       input.Quantity,
		AvailableStock: available,
		Decision:       decision,
		RequestId:      requestid.FromContext(ctx),
		DecidedAt:      c.now().UTC(),
	}
	if err := c.eventPublisher.PublishOrderDecided(ctx, event); err != nil {
		c.logger.Warn("order event not published", zap.String("product_id", input.ProductId), zap.Error(err))
	}
}
