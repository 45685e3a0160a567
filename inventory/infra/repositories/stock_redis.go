package repositories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const stockHashKey = "stock:quantities"

// StockRepositoryRedis serves the stock table from a Redis hash so several
// inventory replicas answer from the same table.
type StockRepositoryRedis struct {
	client *redis.Client
}

func NewStockRepositoryRedis(client *redis.Client) *StockRepositoryRedis {
	return &StockRepositoryRedis{client: client}
}

// Seed overwrites the hash fields with the given quantities. Called once at startup.
func (r *StockRepositoryRedis) Seed(ctx context.Context, quantities map[string]int32) error {
	if len(quantities) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(quantities))
	for productId, quantity := range quantities {
		values[productId] = quantity
	}
	if err := r.client.HSet(ctx, stockHashKey, values).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (r *StockRepositoryRedis) GetQuantity(ctx context.Context, productId string) (int32, bool, error) {
	raw, err := r.client.HGet(ctx, stockHashKey, productId).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis hget: %w", err)
	}
	quantity, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, false, fmt.Errorf("redis stock value for %q: %w", productId, err)
	}
	return int32(quantity), true, nil
}
