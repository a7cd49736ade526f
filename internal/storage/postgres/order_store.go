package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finvediclabs/trading-engine/internal/types"
)

// PostgresOrderStore implements OrderStore using PostgreSQL
type PostgresOrderStore struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderStore creates a new PostgreSQL-backed order store
func NewPostgresOrderStore(cfg PostgresConfig) (*PostgresOrderStore, error) {
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

	return &PostgresOrderStore{pool: pool}, nil
}

const orderColumns = `order_id, symbol, side, kind, price, quantity, filled_quantity, average_price, status, trader_id, created_at, updated_at`

func (s *PostgresOrderStore) Save(ctx context.Context, order *types.Order) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (order_id) DO UPDATE SET
			filled_quantity = EXCLUDED.filled_quantity,
			average_price = EXCLUDED.average_price,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		order.OrderID, order.Symbol, order.Side, order.Kind,
		order.Price, order.Quantity, order.FilledQuantity, order.AveragePrice,
		order.Status, order.TraderID, order.CreatedAt, order.UpdatedAt,
	)
	return err
}

func (s *PostgresOrderStore) Get(ctx context.Context, orderID string) (*types.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = $1`

	var order types.Order
	err := s.pool.QueryRow(ctx, query, orderID).Scan(
		&order.OrderID, &order.Symbol, &order.Side, &order.Kind,
		&order.Price, &order.Quantity, &order.FilledQuantity, &order.AveragePrice,
		&order.Status, &order.TraderID, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("order %s not found", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *PostgresOrderStore) GetBySymbol(ctx context.Context, symbol string) ([]*types.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE symbol = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanOrders(rows), nil
}

func (s *PostgresOrderStore) GetByTrader(ctx context.Context, traderID string) ([]*types.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders WHERE trader_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, traderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanOrders(rows), nil
}

func (s *PostgresOrderStore) GetAll(ctx context.Context) ([]*types.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.scanOrders(rows), nil
}

func (s *PostgresOrderStore) Close() error {
	s.pool.Close()
	return nil
}

// scanOrders is a helper to scan multiple order rows
func (s *PostgresOrderStore) scanOrders(rows pgx.Rows) []*types.Order {
	var orders []*types.Order

	for rows.Next() {
		var order types.Order
		err := rows.Scan(
			&order.OrderID, &order.Symbol, &order.Side, &order.Kind,
			&order.Price, &order.Quantity, &order.FilledQuantity, &order.AveragePrice,
			&order.Status, &order.TraderID, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			continue
		}
		orders = append(orders, &order)
	}
	return orders
}
