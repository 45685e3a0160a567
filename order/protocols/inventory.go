package protocols

import "context"

type Stock struct {
	ProductId string `json:"productId"`
	Quantity  int32  `json:"quantity"`
}

type InventoryGateway interface {
	GetStock(ctx context.Context, productId string) (*Stock, error)
}
