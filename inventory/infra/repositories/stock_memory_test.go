package repositories

import (
	"context"
	"testing"

	"github.com/giovaniif/order-inventory/inventory/domain/stock"
)

func TestStockRepositoryMemory_Seeded(t *testing.T) {
	repo := NewStockRepositoryMemory(stock.Seed())

	quantity, found, err := repo.GetQuantity(context.Background(), "prod1")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !found || quantity != 100 {
		t.Fatalf("expected prod1 found with 100, got found=%v quantity=%d", found, quantity)
	}
}

func TestStockRepositoryMemory_Unknown(t *testing.T) {
	repo := NewStockRepositoryMemory(stock.Seed())

	quantity, found, err := repo.GetQuantity(context.Background(), "prod999")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if found || quantity != 0 {
		t.Fatalf("expected prod999 missing, got found=%v quantity=%d", found, quantity)
	}
}

func TestStockRepositoryMemory_CopiesInput(t *testing.T) {
	input := map[string]int32{"prod1": 10}
	repo := NewStockRepositoryMemory(input)
	input["prod1"] = 1

	quantity, _, _ := repo.GetQuantity(context.Background(), "prod1")
	if quantity != 10 {
		t.Fatalf("expected repository to keep 10, got %d", quantity)
	}
}
