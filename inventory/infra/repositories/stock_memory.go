package repositories

import "context"

// StockRepositoryMemory holds the seed table for the lifetime of the process.
// The map is written once in the constructor and only read afterwards.
type StockRepositoryMemory struct {
	quantities map[string]int32
}

func NewStockRepositoryMemory(quantities map[string]int32) *StockRepositoryMemory {
	copied := make(map[string]int32, len(quantities))
	for productId, quantity := range quantities {
		copied[productId] = quantity
	}
	return &StockRepositoryMemory{quantities: copied}
}

func (r *StockRepositoryMemory) GetQuantity(_ context.Context, productId string) (int32, bool, error) {
	quantity, ok := r.quantities[productId]
	return quantity, ok, nil
}
