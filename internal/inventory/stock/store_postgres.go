// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stockify/internal/platform/database/schema"
	"github.com/taibuivan/stockify/internal/platform/dberr"
	"github.com/taibuivan/stockify/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var stockColumns = schema.List(schema.InventoryStock.Columns())

func scanStock(row pgx.Row) (*Stock, error) {
	stock := &Stock{}
	err := row.Scan(
		&stock.ID,
		&stock.SKU,
		&stock.ProductName,
		&stock.Category,
		&stock.QuantityAvailable,
		&stock.MinimumStockLevel,
		&stock.MaximumStockLevel,
		&stock.Status,
		&stock.UnitCost,
		&stock.Supplier,
		&stock.CreatedAt,
		&stock.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return stock, nil
}

// List returns every row ordered by category, then SKU.
func (repository *PostgresRepository) List(context context.Context) ([]*Stock, error) {
	table := schema.InventoryStock
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s, %s`, stockColumns, table.Table, table.Category, table.SKU)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_stock_repo_list_failed: %w", err)
	}
	defer rows.Close()

	stocks := make([]*Stock, 0)
	for rows.Next() {
		stock, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_stock_repo_scan_failed: %w", err)
		}
		stocks = append(stocks, stock)
	}

	return stocks, rows.Err()
}

// Get returns one row.
func (repository *PostgresRepository) Get(context context.Context, id int64) (*Stock, error) {
	table := schema.InventoryStock
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, stockColumns, table.Table, table.ID)

	stock, err := scanStock(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStockNotFound
		}
		return nil, fmt.Errorf("postgres_stock_repo_get_failed: %w", err)
	}

	return stock, nil
}

// Create inserts a row. The unique SKU index rejects duplicates.
func (repository *PostgresRepository) Create(context context.Context, stock *Stock) error {
	table := schema.InventoryStock
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s, %s`,
		table.Table, table.SKU, table.ProductName, table.Category, table.QuantityAvailable,
		table.MinimumStockLevel, table.MaximumStockLevel, table.Status, table.UnitCost, table.Supplier,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		stock.SKU,
		stock.ProductName,
		stock.Category,
		stock.QuantityAvailable,
		stock.MinimumStockLevel,
		stock.MaximumStockLevel,
		stock.Status,
		stock.UnitCost,
		stock.Supplier,
	).Scan(&stock.ID, &stock.CreatedAt, &stock.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrSKUTaken
		}
		return fmt.Errorf("postgres_stock_repo_create_failed: %w", err)
	}

	return nil
}

// Update rewrites every column of a row.
func (repository *PostgresRepository) Update(context context.Context, stock *Stock) error {
	table := schema.InventoryStock
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		table.Table,
		table.SKU, table.ProductName, table.Category, table.QuantityAvailable, table.MinimumStockLevel,
		table.MaximumStockLevel, table.Status, table.UnitCost, table.Supplier, table.UpdatedAt,
		table.ID,
		table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		stock.ID,
		stock.SKU,
		stock.ProductName,
		stock.Category,
		stock.QuantityAvailable,
		stock.MinimumStockLevel,
		stock.MaximumStockLevel,
		stock.Status,
		stock.UnitCost,
		stock.Supplier,
	).Scan(&stock.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrStockNotFound
		}
		if dberr.IsUniqueViolation(err) {
			return ErrSKUTaken
		}
		return fmt.Errorf("postgres_stock_repo_update_failed: %w", err)
	}

	return nil
}

// Delete removes a row.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	table := schema.InventoryStock
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_stock_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrStockNotFound
	}

	return nil
}

/*
Receive adds a delivery to the row for its SKU, creating the row when none exists.

Description: Runs on db so callers can include it in their own transaction.
A single upsert keeps concurrent receipts for one SKU from losing increments.
*/
func Receive(context context.Context, db postgres.DBTX, delivery Delivery) error {
	table := schema.InventoryStock
	query := fmt.Sprintf(`
		INSERT INTO %[1]s AS existing (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s, %[9]s, %[10]s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)
		ON CONFLICT (%[2]s) DO UPDATE
		SET %[5]s = existing.%[5]s + EXCLUDED.%[5]s, %[11]s = NOW()`,
		table.Table, table.SKU, table.ProductName, table.Category, table.QuantityAvailable,
		table.MinimumStockLevel, table.MaximumStockLevel, table.Status, table.UnitCost, table.Supplier,
		table.UpdatedAt,
	)

	_, err := db.Exec(context, query,
		delivery.SKU,
		delivery.ProductName,
		delivery.Category,
		delivery.Quantity,
		DefaultMinimumStockLevel,
		DefaultMaximumStockLevel,
		StatusActive,
		delivery.Supplier,
	)
	if err != nil {
		return fmt.Errorf("postgres_stock_receive_failed: %w", err)
	}

	return nil
}
