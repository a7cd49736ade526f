package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finvediclabs/trading-engine/internal/types"
)

const (
	orderKeyPrefix     = "order:"
	traderOrdersPrefix = "trader_orders:"
	symbolOrdersPrefix = "symbol_orders:"
	ordersTimelineKey  = "orders:timeline" // Sorted set for FIFO trimming
)

// RedisOrderStore implements OrderStore using Redis with FIFO eviction.
// Orders are serialized as JSON values with secondary sets indexing by
// trader and symbol.
type RedisOrderStore struct {
	client    *redis.Client
	orderTTL  time.Duration
	maxOrders int
}

// NewRedisOrderStore creates a new Redis-backed order store
func NewRedisOrderStore(cfg RedisConfig) (*RedisOrderStore, error) {
	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &RedisOrderStore{
		client:    client,
		orderTTL:  cfg.OrderTTL,
		maxOrders: cfg.MaxOrders,
	}, nil
}

func (s *RedisOrderStore) Save(ctx context.Context, order *types.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()

	// Store order value
	orderKey := orderKeyPrefix + order.OrderID
	pipe.Set(ctx, orderKey, data, s.orderTTL)

	// Add to trader index
	traderKey := traderOrdersPrefix + order.TraderID
	pipe.SAdd(ctx, traderKey, order.OrderID)
	pipe.Expire(ctx, traderKey, s.orderTTL)

	// Add to symbol index
	symbolKey := symbolOrdersPrefix + order.Symbol
	pipe.SAdd(ctx, symbolKey, order.OrderID)
	pipe.Expire(ctx, symbolKey, s.orderTTL)

	// Add to timeline sorted set for FIFO eviction (score = creation timestamp)
	pipe.ZAdd(ctx, ordersTimelineKey, redis.Z{
		Score:  float64(order.CreatedAt.UnixNano()),
		Member: order.OrderID,
	})

	// Trim to keep only last N orders (FIFO eviction)
	pipe.ZRemRangeByRank(ctx, ordersTimelineKey, 0, int64(-s.maxOrders-1))

	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisOrderStore) Get(ctx context.Context, orderID string) (*types.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, orderKeyPrefix+orderID).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	if err != nil {
		return nil, err
	}

	var order types.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *RedisOrderStore) GetBySymbol(ctx context.Context, symbol string) ([]*types.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	orderIDs, err := s.client.SMembers(ctx, symbolOrdersPrefix+symbol).Result()
	if err != nil {
		return nil, err
	}
	return s.getOrdersByIDs(ctx, orderIDs), nil
}

func (s *RedisOrderStore) GetByTrader(ctx context.Context, traderID string) ([]*types.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	orderIDs, err := s.client.SMembers(ctx, traderOrdersPrefix+traderID).Result()
	if err != nil {
		return nil, err
	}
	return s.getOrdersByIDs(ctx, orderIDs), nil
}

func (s *RedisOrderStore) GetAll(ctx context.Context) ([]*types.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Timeline holds every live order ID in arrival order
	orderIDs, err := s.client.ZRange(ctx, ordersTimelineKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	return s.getOrdersByIDs(ctx, orderIDs), nil
}

func (s *RedisOrderStore) Close() error {
	return s.client.Close()
}

// getOrdersByIDs fetches multiple orders with a single MGET
func (s *RedisOrderStore) getOrdersByIDs(ctx context.Context, orderIDs []string) []*types.Order {
	if len(orderIDs) == 0 {
		return []*types.Order{}
	}

	keys := make([]string, len(orderIDs))
	for i, id := range orderIDs {
		keys[i] = orderKeyPrefix + id
	}

	results, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return []*types.Order{}
	}

	var orders []*types.Order
	for _, result := range results {
		data, ok := result.(string)
		if !ok {
			continue
		}

		var order types.Order
		if err := json.Unmarshal([]byte(data), &order); err != nil {
			continue
		}
		orders = append(orders, &order)
	}
	return orders
}
