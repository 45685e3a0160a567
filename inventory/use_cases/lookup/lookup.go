package lookup

import (
	"context"

	"github.com/giovaniif/order-inventory/inventory/domain/stock"
)

type Lookup struct {
	stockRepository stock.Repository
}

func NewLookup(stockRepository stock.Repository) *Lookup {
	return &Lookup{
		stockRepository: stockRepository,
	}
}

// Lookup never reports a missing product: unknown ids get quantity 0.
// Known tells whether the store actually holds the id.
func (l *Lookup) Lookup(ctx context.Context, input Input) (Output, error) {
	quantity, found, err := l.stockRepository.GetQuantity(ctx, input.ProductId)
	if err != nil {
		return Output{}, err
	}
	if !found {
		quantity = 0
	}

	return Output{Record: stock.NewRecord(input.ProductId, quantity), Known: found}, nil
}

type Input struct {
	ProductId string
}

type Output struct {
	Record stock.Record
	Known  bool
}
