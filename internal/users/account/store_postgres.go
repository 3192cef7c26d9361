// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stockify/internal/platform/database/schema"
	"github.com/taibuivan/stockify/internal/platform/dberr"
	"github.com/taibuivan/stockify/internal/users/auth"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// accountSelect joins each account with the name of its role, if any.
var accountSelect = fmt.Sprintf(`
	SELECT %s, COALESCE(r.%s, '')
	FROM %s a
	LEFT JOIN %s r ON r.%s = a.%s`,
	schema.Qualified("a", schema.UserAccount.Columns()),
	schema.UserRole.Name,
	schema.UserAccount.Table,
	schema.UserRole.Table, schema.UserRole.ID, schema.UserAccount.RoleID,
)

func scanAccount(row pgx.Row) (*Account, error) {
	account := &Account{}
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.PasswordHash,
		&account.FirstName,
		&account.LastName,
		&account.Address,
		&account.IsVerified,
		&account.RoleID,
		&account.CreatedAt,
		&account.UpdatedAt,
		&account.RoleName,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// List returns one page of accounts, newest first.
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Account, int, error) {
	table := schema.UserAccount
	where := "TRUE"
	args := []any{}

	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		where = fmt.Sprintf(`(a.%s ILIKE $1 OR a.%s ILIKE $1 OR a.%s ILIKE $1)`,
			table.Email, table.FirstName, table.LastName)
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s a WHERE %s`, table.Table, where)
	if err := repository.pool.QueryRow(context, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY a.%s DESC, a.%s DESC LIMIT $%d OFFSET $%d`,
		accountSelect, where, table.CreatedAt, table.ID, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	accounts := make([]*Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_scan_failed: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_rows_failed: %w", err)
	}

	return accounts, total, nil
}

// FindByID returns one account with its role name.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Account, error) {
	query := fmt.Sprintf(`%s WHERE a.%s = $1`, accountSelect, schema.UserAccount.ID)

	account, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_account_repo_find_failed: %w", err)
	}

	return account, nil
}

// Create inserts an account. The unique email index rejects duplicates.
func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s, %s`,
		table.Table, table.Email, table.Password, table.FirstName, table.LastName,
		table.Address, table.IsVerified, table.RoleID,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Address,
		user.IsVerified,
		user.RoleID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("postgres_account_repo_create_failed: %w", err)
	}

	return nil
}

// Update rewrites identity fields and role. The password hash is untouched.
func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1`,
		table.Table,
		table.Email, table.FirstName, table.LastName, table.Address, table.RoleID, table.UpdatedAt,
		table.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.Address, user.RoleID)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return auth.ErrEmailTaken
		}
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}

	return nil
}

// UpdateProfile rewrites names and address only.
func (repository *PostgresRepository) UpdateProfile(context context.Context, user *auth.User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = NOW()
		WHERE %s = $1`,
		table.Table, table.FirstName, table.LastName, table.Address, table.UpdatedAt, table.ID,
	)

	tag, err := repository.pool.Exec(context, query, user.ID, user.FirstName, user.LastName, user.Address)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_profile_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}

	return nil
}

// Delete removes an account. Sessions cascade.
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrUserNotFound
	}

	return nil
}

// RoleExists reports whether a role with roleID exists.
func (repository *PostgresRepository) RoleExists(context context.Context, roleID int64) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, schema.UserRole.Table, schema.UserRole.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, roleID).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_account_repo_role_exists_failed: %w", err)
	}

	return exists, nil
}
