package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// PostgresTradeStore implements TradeStore using PostgreSQL
type PostgresTradeStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTradeStore creates a new PostgreSQL-backed trade store
func NewPostgresTradeStore(cfg PostgresConfig) (*PostgresTradeStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPostgresPool(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &PostgresTradeStore{pool: pool}, nil
}

const tradeColumns = `trade_id, symbol, quantity, price, buy_order_id, sell_order_id, buy_trader_id, sell_trader_id, executed_at, total_value`

const insertTradeQuery = `
	INSERT INTO trades (` + tradeColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (trade_id) DO NOTHING
`

func (s *PostgresTradeStore) Save(ctx context.Context, trade *types.Trade) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.pool.Exec(ctx, insertTradeQuery, tradeArgs(trade)...)
	return err
}

func (s *PostgresTradeStore) SaveBatch(ctx context.Context, trades []*types.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Use pgx batch for efficient batch inserts
	batch := &pgx.Batch{}
	for _, trade := range trades {
		batch.Queue(insertTradeQuery, tradeArgs(trade)...)
	}

	results := s.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(trades); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at index %d: %w", i, err)
		}
	}
	return nil
}

func (s *PostgresTradeStore) GetRecent(ctx context.Context, limit int) ([]*types.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades ORDER BY executed_at DESC LIMIT $1`
	return s.queryTrades(ctx, query, clampLimit(limit))
}

func (s *PostgresTradeStore) GetBySymbol(ctx context.Context, symbol string, limit int) ([]*types.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE symbol = $1 ORDER BY executed_at DESC LIMIT $2`
	return s.queryTrades(ctx, query, symbol, clampLimit(limit))
}

func (s *PostgresTradeStore) GetByTrader(ctx context.Context, traderID string, limit int) ([]*types.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE buy_trader_id = $1 OR sell_trader_id = $1 ORDER BY executed_at DESC LIMIT $2`
	return s.queryTrades(ctx, query, traderID, clampLimit(limit))
}

func (s *PostgresTradeStore) Get(ctx context.Context, tradeID string) (*types.Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + tradeColumns + ` FROM trades WHERE trade_id = $1`
	row := s.pool.QueryRow(ctx, query, tradeID)

	var trade types.Trade
	err := row.Scan(
		&trade.TradeID, &trade.Symbol, &trade.Quantity, &trade.Price,
		&trade.BuyOrderID, &trade.SellOrderID, &trade.BuyTraderID, &trade.SellTraderID,
		&trade.Timestamp, &trade.TotalValue,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func (s *PostgresTradeStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresTradeStore) queryTrades(ctx context.Context, query string, args ...interface{}) ([]*types.Trade, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []*types.Trade
	for rows.Next() {
		var trade types.Trade
		err := rows.Scan(
			&trade.TradeID, &trade.Symbol, &trade.Quantity, &trade.Price,
			&trade.BuyOrderID, &trade.SellOrderID, &trade.BuyTraderID, &trade.SellTraderID,
			&trade.Timestamp, &trade.TotalValue,
		)
		if err != nil {
			continue
		}
		trades = append(trades, &trade)
	}
	return trades, nil
}

func tradeArgs(trade *types.Trade) []interface{} {
	return []interface{}{
		trade.TradeID, trade.Symbol, trade.Quantity, trade.Price,
		trade.BuyOrderID, trade.SellOrderID, trade.BuyTraderID, trade.SellTraderID,
		trade.Timestamp, trade.TotalValue,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
