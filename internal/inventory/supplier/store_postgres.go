// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package supplier

import (
	"context"
	"errors"
	"fmt"
	"strings"

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

var supplierColumns = schema.List(schema.InventorySupplier.Columns())

func scanSupplier(row pgx.Row) (*Supplier, error) {
	supplier := &Supplier{}
	err := row.Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Email,
		&supplier.Phone,
		&supplier.CompanyLocation.Street,
		&supplier.CompanyLocation.City,
		&supplier.CompanyLocation.State,
		&supplier.CompanyLocation.Zip,
		&supplier.CompanyLocation.Country,
		&supplier.GSTIN,
		&supplier.Category,
		&supplier.Website,
		&supplier.Status,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

// writeArgs lists the writable columns in schema order after the id.
func writeArgs(supplier *Supplier) []any {
	return []any{
		supplier.Name,
		supplier.Email,
		supplier.Phone,
		supplier.CompanyLocation.Street,
		supplier.CompanyLocation.City,
		supplier.CompanyLocation.State,
		supplier.CompanyLocation.Zip,
		supplier.CompanyLocation.Country,
		supplier.GSTIN,
		supplier.Category,
		supplier.Website,
		supplier.Status,
	}
}

func writeColumns() []string {
	table := schema.InventorySupplier
	return []string{
		table.Name, table.Email, table.Phone, table.Street, table.City, table.State,
		table.Zip, table.Country, table.GSTIN, table.Category, table.Website, table.Status,
	}
}

// List returns one page of suppliers, newest first.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Supplier, int, error) {
	table := schema.InventorySupplier
	conditions := []string{"TRUE"}
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		conditions = append(conditions, fmt.Sprintf(`(%s ILIKE $%d OR %s ILIKE $%d)`,
			table.Name, len(args), table.Email, len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf(`%s = $%d`, table.Status, len(args)))
	}
	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`, table.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_supplier_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d`,
		supplierColumns, table.Table, where, table.CreatedAt, table.ID, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_supplier_repo_list_failed: %w", err)
	}
	defer rows.Close()

	suppliers := make([]*Supplier, 0)
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_supplier_repo_scan_failed: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_supplier_repo_rows_failed: %w", err)
	}

	return suppliers, total, nil
}

// Get returns one supplier.
func (repository *PostgresRepository) Get(context context.Context, id int64) (*Supplier, error) {
	table := schema.InventorySupplier
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, supplierColumns, table.Table, table.ID)

	supplier, err := scanSupplier(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSupplierNotFound
		}
		return nil, fmt.Errorf("postgres_supplier_repo_get_failed: %w", err)
	}

	return supplier, nil
}

// Create inserts a supplier after checking its email inside the same transaction.
func (repository *PostgresRepository) Create(context context.Context, supplier *Supplier) error {
	table := schema.InventorySupplier
	columns := writeColumns()

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := ensureEmailFree(context, tx, supplier); err != nil {
			return err
		}

		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s, %s, %s`,
			table.Table, schema.List(columns), placeholders(1, len(columns)),
			table.ID, table.CreatedAt, table.UpdatedAt)

		err := tx.QueryRow(context, query, writeArgs(supplier)...).
			Scan(&supplier.ID, &supplier.CreatedAt, &supplier.UpdatedAt)
		if err != nil {
			if dberr.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("postgres_supplier_repo_create_failed: %w", err)
		}
		return nil
	})
}

// Update rewrites every writable column after checking the email against other suppliers.
func (repository *PostgresRepository) Update(context context.Context, supplier *Supplier) error {
	table := schema.InventorySupplier
	columns := writeColumns()

	assignments := make([]string, len(columns))
	for index, column := range columns {
		assignments[index] = fmt.Sprintf("%s = $%d", column, index+2)
	}

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		if err := ensureEmailFree(context, tx, supplier); err != nil {
			return err
		}

		query := fmt.Sprintf(`UPDATE %s SET %s, %s = NOW() WHERE %s = $1 RETURNING %s, %s`,
			table.Table, strings.Join(assignments, ", "), table.UpdatedAt, table.ID,
			table.CreatedAt, table.UpdatedAt)

		args := append([]any{supplier.ID}, writeArgs(supplier)...)
		err := tx.QueryRow(context, query, args...).Scan(&supplier.CreatedAt, &supplier.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrSupplierNotFound
			}
			if dberr.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("postgres_supplier_repo_update_failed: %w", err)
		}
		return nil
	})
}

// Delete removes a supplier.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	table := schema.InventorySupplier
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_supplier_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSupplierNotFound
	}

	return nil
}

func ensureEmailFree(context context.Context, db postgres.DBTX, supplier *Supplier) error {
	table := schema.InventorySupplier
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s <> $2)`,
		table.Table, table.Email, table.ID)

	var taken bool
	if err := db.QueryRow(context, query, supplier.Email, supplier.ID).Scan(&taken); err != nil {
		return fmt.Errorf("postgres_supplier_repo_email_check_failed: %w", err)
	}
	if taken {
		return ErrEmailTaken
	}
	return nil
}

// placeholders renders "$from, ..., $(from+count-1)".
func placeholders(from, count int) string {
	marks := make([]string, count)
	for index := range marks {
		marks[index] = fmt.Sprintf("$%d", from+index)
	}
	return strings.Join(marks, ", ")
}
