// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stockify/internal/platform/database/schema"
	"github.com/taibuivan/stockify/internal/platform/dberr"
	"github.com/taibuivan/stockify/internal/platform/postgres"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var userColumns = schema.List(schema.UserAccount.Columns())

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Address,
		&user.IsVerified,
		&user.RoleID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
FindByID retrieves an account by primary key.

Returns:
  - error: [ErrUserNotFound] or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns, schema.UserAccount.Table, schema.UserAccount.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves an account by its unique email address.

Returns:
  - error: [ErrUserNotFound] or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns, schema.UserAccount.Table, schema.UserAccount.Email)

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
Create inserts a new account.

Description: The unique index on email arbitrates concurrent registrations;
the loser receives [ErrEmailTaken].
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s, %s`,
		account.Table, account.Email, account.Password, account.FirstName, account.LastName,
		account.Address, account.IsVerified, account.RoleID,
		account.ID, account.CreatedAt, account.UpdatedAt,
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
			return ErrEmailTaken
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

// # Session Repository

// PostgresSessionRepository implements [SessionRepository] using pgx.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of the SessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// Create inserts a session record.
func (repository *PostgresSessionRepository) Create(context context.Context, session *Session) error {
	table := schema.UserSession
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s`,
		table.Table, table.UserID, table.TokenHash, table.ExpiresAt, table.ID, table.CreatedAt,
	)

	err := repository.pool.QueryRow(context, query, session.UserID, session.TokenHash, session.ExpiresAt).
		Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres_session_repo_create_failed: %w", err)
	}

	return nil
}

// DeleteByToken removes the session matching the user and token digest.
func (repository *PostgresSessionRepository) DeleteByToken(context context.Context, userID int64, tokenHash string) error {
	table := schema.UserSession
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`, table.Table, table.UserID, table.TokenHash)

	if _, err := repository.pool.Exec(context, query, userID, tokenHash); err != nil {
		return fmt.Errorf("postgres_session_repo_delete_failed: %w", err)
	}

	return nil
}

// # Password Reset Repository

// PostgresResetTokenRepository implements [ResetTokenRepository] using pgx.
type PostgresResetTokenRepository struct {
	pool *pgxpool.Pool
}

// NewResetTokenRepository creates a new PostgreSQL implementation of the ResetTokenRepository.
func NewResetTokenRepository(pool *pgxpool.Pool) *PostgresResetTokenRepository {
	return &PostgresResetTokenRepository{pool: pool}
}

// Create inserts a reset grant.
func (repository *PostgresResetTokenRepository) Create(context context.Context, reset *PasswordReset) error {
	table := schema.UserPasswordReset
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		table.Table, table.Email, table.TokenHash, table.ExpiresAt)

	if _, err := repository.pool.Exec(context, query, reset.Email, reset.TokenHash, reset.ExpiresAt); err != nil {
		return fmt.Errorf("postgres_reset_repo_create_failed: %w", err)
	}

	return nil
}

/*
Consume redeems a reset grant.

Description: DELETE ... RETURNING claims the grant atomically, so two
concurrent redemptions of the same token cannot both succeed. The password
update and session purge share the transaction.
*/
func (repository *PostgresResetTokenRepository) Consume(context context.Context, tokenHash, passwordHash string, now time.Time) (int64, error) {
	reset, account, session := schema.UserPasswordReset, schema.UserAccount, schema.UserSession

	claimGrant := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1 AND %s > $2
		RETURNING %s`,
		reset.Table, reset.TokenHash, reset.ExpiresAt, reset.Email,
	)
	updatePassword := fmt.Sprintf(`
		UPDATE %s SET %s = $1, %s = NOW()
		WHERE %s = $2
		RETURNING %s`,
		account.Table, account.Password, account.UpdatedAt, account.Email, account.ID,
	)
	purgeSessions := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, session.Table, session.UserID)

	var userID int64
	err := postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		var email string
		if err := tx.QueryRow(context, claimGrant, tokenHash, now).Scan(&email); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidResetToken
			}
			return fmt.Errorf("postgres_reset_repo_claim_failed: %w", err)
		}

		if err := tx.QueryRow(context, updatePassword, passwordHash, email).Scan(&userID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrInvalidResetToken
			}
			return fmt.Errorf("postgres_reset_repo_update_password_failed: %w", err)
		}

		if _, err := tx.Exec(context, purgeSessions, userID); err != nil {
			return fmt.Errorf("postgres_reset_repo_purge_sessions_failed: %w", err)
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return userID, nil
}
