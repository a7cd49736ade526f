package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finvediclabs/trading-engine/internal/types"
)

const (
	tradesKey             = "trades:recent"
	symbolTradesKeyPrefix = "trades:symbol:"
	traderTradesKeyPrefix = "trades:trader:"
	tradeKeyPrefix        = "trade:"

	// Point lookups expire independently of the zset trims.
	tradeKeyTTL = 24 * time.Hour
)

// RedisTradeStore implements TradeStore using Redis sorted sets with FIFO eviction
type RedisTradeStore struct {
	client    *redis.Client
	maxTrades int
}

// NewRedisTradeStore creates a new Redis-backed trade store
func NewRedisTradeStore(cfg RedisConfig) (*RedisTradeStore, error) {
	client, err := NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &RedisTradeStore{
		client:    client,
		maxTrades: cfg.MaxTrades,
	}, nil
}

func (s *RedisTradeStore) Save(ctx context.Context, trade *types.Trade) error {
	return s.SaveBatch(ctx, []*types.Trade{trade})
}

func (s *RedisTradeStore) SaveBatch(ctx context.Context, trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pipe := s.client.Pipeline()

	for _, trade := range trades {
		data, err := json.Marshal(trade)
		if err != nil {
			continue
		}

		entry := redis.Z{
			Score:  float64(trade.Timestamp.UnixNano()),
			Member: data,
		}
		pipe.ZAdd(ctx, tradesKey, entry)
		pipe.ZAdd(ctx, symbolTradesKeyPrefix+trade.Symbol, entry)
		pipe.ZAdd(ctx, traderTradesKeyPrefix+trade.BuyTraderID, entry)
		pipe.ZAdd(ctx, traderTradesKeyPrefix+trade.SellTraderID, entry)
		pipe.Set(ctx, tradeKeyPrefix+trade.TradeID, data, tradeKeyTTL)
	}

	// Trim to keep only last N trades
	pipe.ZRemRangeByRank(ctx, tradesKey, 0, int64(-s.maxTrades-1))
	for _, trade := range trades {
		pipe.ZRemRangeByRank(ctx, symbolTradesKeyPrefix+trade.Symbol, 0, int64(-s.maxTrades-1))
		pipe.ZRemRangeByRank(ctx, traderTradesKeyPrefix+trade.BuyTraderID, 0, int64(-s.maxTrades-1))
		pipe.ZRemRangeByRank(ctx, traderTradesKeyPrefix+trade.SellTraderID, 0, int64(-s.maxTrades-1))
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisTradeStore) GetRecent(ctx context.Context, limit int) ([]*types.Trade, error) {
	return s.readRange(ctx, tradesKey, limit)
}

func (s *RedisTradeStore) GetBySymbol(ctx context.Context, symbol string, limit int) ([]*types.Trade, error) {
	return s.readRange(ctx, symbolTradesKeyPrefix+symbol, limit)
}

func (s *RedisTradeStore) GetByTrader(ctx context.Context, traderID string, limit int) ([]*types.Trade, error) {
	return s.readRange(ctx, traderTradesKeyPrefix+traderID, limit)
}

func (s *RedisTradeStore) Get(ctx context.Context, tradeID string) (*types.Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	data, err := s.client.Get(ctx, tradeKeyPrefix+tradeID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var trade types.Trade
	if err := json.Unmarshal(data, &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

func (s *RedisTradeStore) Close() error {
	return s.client.Close()
}

func (s *RedisTradeStore) readRange(ctx context.Context, key string, limit int) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if limit <= 0 {
		limit = 100
	}

	// Last N trades, most recent first
	results, err := s.client.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	trades := make([]*types.Trade, 0, len(results))
	for _, data := range results {
		var trade types.Trade
		if err := json.Unmarshal([]byte(data), &trade); err != nil {
			continue
		}
		trades = append(trades, &trade)
	}
	return trades, nil
}
