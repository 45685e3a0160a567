package stock

import "context"

// Repository is a read-only view of the stock table. found is false for unknown products.
type Repository interface {
	GetQuantity(ctx context.Context, productId string) (quantity int32, found bool, err error)
}
