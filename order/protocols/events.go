package protocols

import (
	"context"
	"time"
)

type Decision string

const (
	DecisionAccepted    Decision = "accepted"
	DecisionRejected    Decision = "rejected"
	DecisionUnavailable Decision = "stock_unavailable"
)

// OrderDecided is emitted once per order request, whatever the outcome.
type OrderDecided struct {
	ProductId      string    `json:"productId"`
	Quantity       int32     `json:"quantity"`
	AvailableStock int32     `json:"availableStock"`
	Decision       Decision  `json:"decision"`
	RequestId      string    `json:"requestId,omitempty"`
	DecidedAt      time.Time `json:"decidedAt"`
}

type EventPublisher interface {
	PublishOrderDecided(ctx context.Context, event OrderDecided) error
}
