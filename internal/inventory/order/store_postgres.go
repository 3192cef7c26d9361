// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stockify/internal/inventory/stock"
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

var orderColumns = schema.List(schema.InventoryPurchaseOrder.Columns())

func scanOrder(row pgx.Row) (*Order, error) {
	order := &Order{}
	err := row.Scan(
		&order.ID,
		&order.OrderDate,
		&order.Name,
		&order.SKU,
		&order.Supplier,
		&order.Category,
		&order.NumberOfItems,
		&order.Status,
		&order.ExpectedDeliveryDate,
		&order.TotalAmount,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// List returns one page of orders, newest order date first.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Order, int, error) {
	table := schema.InventoryPurchaseOrder
	where := "TRUE"
	args := []any{}

	if len(filter.Statuses) > 0 {
		args = append(args, filter.Statuses)
		where = fmt.Sprintf(`%s = ANY($1)`, table.Status)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, table.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d`,
		orderColumns, table.Table, where, table.OrderDate, table.CreatedAt, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_list_failed: %w", err)
	}
	defer rows.Close()

	orders := make([]*Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_order_repo_scan_failed: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_rows_failed: %w", err)
	}

	return orders, total, nil
}

// Get returns one order.
func (repository *PostgresRepository) Get(context context.Context, id string) (*Order, error) {
	table := schema.InventoryPurchaseOrder
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, orderColumns, table.Table, table.ID)

	order, err := scanOrder(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("postgres_order_repo_get_failed: %w", err)
	}

	return order, nil
}

// Create inserts an order and, if it is already fulfilled, receives it into stock.
func (repository *PostgresRepository) Create(context context.Context, order *Order) error {
	table := schema.InventoryPurchaseOrder
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s`,
		table.Table, table.ID, table.OrderDate, table.Name, table.SKU, table.Supplier, table.Category,
		table.NumberOfItems, table.Status, table.ExpectedDeliveryDate, table.TotalAmount,
		table.CreatedAt, table.UpdatedAt,
	)

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query,
			order.ID,
			order.OrderDate,
			order.Name,
			order.SKU,
			order.Supplier,
			order.Category,
			order.NumberOfItems,
			order.Status,
			order.ExpectedDeliveryDate,
			order.TotalAmount,
		).Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			if dberr.IsUniqueViolation(err) {
				return ErrOrderIDTaken
			}
			return fmt.Errorf("postgres_order_repo_create_failed: %w", err)
		}

		if order.Fulfilled() {
			return stock.Receive(context, tx, order.Delivery())
		}
		return nil
	})
}

// Update locks the order row for the duration of change and the write.
func (repository *PostgresRepository) Update(context context.Context, id string, change func(order *Order) error) (*Order, error) {
	table := schema.InventoryPurchaseOrder
	selectQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, orderColumns, table.Table, table.ID)

	assignments := []string{
		table.OrderDate, table.Name, table.SKU, table.Supplier, table.Category,
		table.NumberOfItems, table.Status, table.ExpectedDeliveryDate, table.TotalAmount,
	}
	for index, column := range assignments {
		assignments[index] = fmt.Sprintf("%s = $%d", column, index+2)
	}
	updateQuery := fmt.Sprintf(`UPDATE %s SET %s, %s = NOW() WHERE %s = $1 RETURNING %s`,
		table.Table, strings.Join(assignments, ", "), table.UpdatedAt, table.ID, table.UpdatedAt)

	var updated *Order
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		order, err := scanOrder(tx.QueryRow(context, selectQuery, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("postgres_order_repo_lock_failed: %w", err)
		}
		if order.Fulfilled() {
			return ErrOrderClosed
		}

		if err := change(order); err != nil {
			return err
		}

		err = tx.QueryRow(context, updateQuery,
			order.ID,
			order.OrderDate,
			order.Name,
			order.SKU,
			order.Supplier,
			order.Category,
			order.NumberOfItems,
			order.Status,
			order.ExpectedDeliveryDate,
			order.TotalAmount,
		).Scan(&order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("postgres_order_repo_update_failed: %w", err)
		}

		if order.Fulfilled() {
			if err := stock.Receive(context, tx, order.Delivery()); err != nil {
				return err
			}
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes an order. Stock already received is kept.
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	table := schema.InventoryPurchaseOrder
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_order_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}

	return nil
}
