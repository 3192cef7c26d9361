// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/stockify/internal/platform/database/schema"
	"github.com/taibuivan/stockify/internal/platform/dberr"
	"github.com/taibuivan/stockify/internal/platform/postgres"
	"github.com/taibuivan/stockify/internal/platform/sec"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the role Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	roleTable       = schema.UserRole
	permissionTable = schema.UserRolePermission
	roleColumns     = schema.List(roleTable.Columns())
)

func scanRole(row pgx.Row) (*Role, error) {
	role := &Role{}
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, err
	}
	return role, nil
}

// scanPermissionRows reads (roleid, modulename, flags...) rows into per-role grids.
func scanPermissionRows(rows pgx.Rows) (map[int64]Permissions, error) {
	defer rows.Close()

	grids := make(map[int64]Permissions)
	for rows.Next() {
		var (
			roleID     int64
			moduleName string
			permission Permission
		)
		if err := rows.Scan(&roleID, &moduleName, &permission.Create, &permission.Read, &permission.Update, &permission.Delete); err != nil {
			return nil, err
		}

		module := sec.Module(moduleName)
		if !module.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModule, moduleName)
		}

		if grids[roleID] == nil {
			grids[roleID] = make(Permissions)
		}
		grids[roleID][module] = permission
	}

	return grids, rows.Err()
}

/*
List returns every role with its complete permission grid.

Description: Two queries, roles then all permission rows, merged in memory.
*/
func (repository *PostgresRepository) List(context context.Context) ([]*Role, error) {
	rolesQuery := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC, %s DESC`,
		roleColumns, roleTable.Table, roleTable.CreatedAt, roleTable.ID)

	rows, err := repository.pool.Query(context, rolesQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_list_failed: %w", err)
	}

	var roles []*Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("postgres_role_repo_scan_failed: %w", err)
		}
		roles = append(roles, role)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_role_repo_list_failed: %w", err)
	}

	permissionsQuery := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s, %s`,
		schema.List(permissionTable.Columns()), permissionTable.Table, permissionTable.RoleID, permissionTable.ModuleName)

	permissionRows, err := repository.pool.Query(context, permissionsQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_list_permissions_failed: %w", err)
	}

	grids, err := scanPermissionRows(permissionRows)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_list_permissions_failed: %w", err)
	}

	for _, role := range roles {
		role.Permissions = grids[role.ID].Complete()
	}

	return roles, nil
}

// Get returns one role with its complete grid.
func (repository *PostgresRepository) Get(context context.Context, id int64) (*Role, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, roleColumns, roleTable.Table, roleTable.ID)
	return repository.getOne(context, query, id)
}

// FindByName returns the role with the exact name.
func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Role, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, roleColumns, roleTable.Table, roleTable.Name)
	return repository.getOne(context, query, name)
}

func (repository *PostgresRepository) getOne(context context.Context, query string, argument any) (*Role, error) {
	role, err := scanRole(repository.pool.QueryRow(context, query, argument))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("postgres_role_repo_get_failed: %w", err)
	}

	permissionsQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.List(permissionTable.Columns()), permissionTable.Table, permissionTable.RoleID)

	rows, err := repository.pool.Query(context, permissionsQuery, role.ID)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_get_permissions_failed: %w", err)
	}

	grids, err := scanPermissionRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_get_permissions_failed: %w", err)
	}

	role.Permissions = grids[role.ID].Complete()
	return role, nil
}

/*
Create inserts the role and its grid in one transaction.

Description: One row is written for every fixed module; modules missing from
role.Permissions are stored all-false.

Returns:
  - error: [ErrRoleNameTaken] or database errors
*/
func (repository *PostgresRepository) Create(context context.Context, role *Role) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		VALUES ($1, $2)
		RETURNING %s, %s, %s`,
		roleTable.Table, roleTable.Name, roleTable.Description,
		roleTable.ID, roleTable.CreatedAt, roleTable.UpdatedAt,
	)

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query, role.Name, role.Description).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
		if err != nil {
			if dberr.IsUniqueViolation(err) {
				return ErrRoleNameTaken
			}
			return fmt.Errorf("postgres_role_repo_create_failed: %w", err)
		}

		role.Permissions = role.Permissions.Complete()
		return upsertPermissions(context, tx, role.ID, role.Permissions)
	})
}

/*
Update renames the role and replaces every module row in one transaction.

Returns:
  - error: [ErrRoleNotFound], [ErrRoleNameTaken] or database errors
*/
func (repository *PostgresRepository) Update(context context.Context, role *Role) error {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1
		RETURNING %s, %s`,
		roleTable.Table, roleTable.Name, roleTable.Description, roleTable.UpdatedAt,
		roleTable.ID,
		roleTable.CreatedAt, roleTable.UpdatedAt,
	)

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query, role.ID, role.Name, role.Description).Scan(&role.CreatedAt, &role.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrRoleNotFound
			}
			if dberr.IsUniqueViolation(err) {
				return ErrRoleNameTaken
			}
			return fmt.Errorf("postgres_role_repo_update_failed: %w", err)
		}

		role.Permissions = role.Permissions.Complete()
		return upsertPermissions(context, tx, role.ID, role.Permissions)
	})
}

// upsertPermissions writes one row per fixed module in a single batch.
func upsertPermissions(context context.Context, tx pgx.Tx, roleID int64, grid Permissions) error {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s, %[6]s, %[7]s, %[8]s)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (%[2]s, %[3]s) DO UPDATE SET
			%[4]s = EXCLUDED.%[4]s,
			%[5]s = EXCLUDED.%[5]s,
			%[6]s = EXCLUDED.%[6]s,
			%[7]s = EXCLUDED.%[7]s,
			%[8]s = NOW()`,
		permissionTable.Table, permissionTable.RoleID, permissionTable.ModuleName,
		permissionTable.CanCreate, permissionTable.CanRead, permissionTable.CanUpdate, permissionTable.CanDelete,
		permissionTable.UpdatedAt,
	)

	batch := &pgx.Batch{}
	for _, module := range sec.Modules() {
		permission := grid[module]
		batch.Queue(query, roleID, string(module), permission.Create, permission.Read, permission.Update, permission.Delete)
	}

	results := tx.SendBatch(context, batch)
	for range batch.Len() {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("postgres_role_repo_upsert_permission_failed: %w", err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("postgres_role_repo_upsert_permission_failed: %w", err)
	}
	return nil
}

/*
Delete removes a role that no user references.

Description: The role row is locked first, so an assignment racing with the
deletion either waits for it or is counted.

Returns:
  - error: [ErrRoleNotFound], a [RoleInUseError] conflict, or database errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	lockRole := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, roleTable.ID, roleTable.Table, roleTable.ID)
	countUsers := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.UserAccount.Table, schema.UserAccount.RoleID)
	deletePermissions := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, permissionTable.Table, permissionTable.RoleID)
	deleteRole := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, roleTable.Table, roleTable.ID)

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		var lockedID int64
		if err := tx.QueryRow(context, lockRole, id).Scan(&lockedID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrRoleNotFound
			}
			return fmt.Errorf("postgres_role_repo_lock_failed: %w", err)
		}

		var userCount int
		if err := tx.QueryRow(context, countUsers, id).Scan(&userCount); err != nil {
			return fmt.Errorf("postgres_role_repo_count_users_failed: %w", err)
		}
		if userCount > 0 {
			return RoleInUseError(userCount)
		}

		if _, err := tx.Exec(context, deletePermissions, id); err != nil {
			return fmt.Errorf("postgres_role_repo_delete_permissions_failed: %w", err)
		}
		if _, err := tx.Exec(context, deleteRole, id); err != nil {
			return fmt.Errorf("postgres_role_repo_delete_failed: %w", err)
		}

		return nil
	})
}

/*
PermissionsForUser resolves user -> role -> grid in one query.

Description: Users without a role, and unknown users, get an empty grid.
*/
func (repository *PostgresRepository) PermissionsForUser(context context.Context, userID int64) (Permissions, error) {
	account := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s a
		JOIN %s rp ON rp.%s = a.%s
		WHERE a.%s = $1`,
		schema.Qualified("rp", permissionTable.Columns()),
		account.Table,
		permissionTable.Table, permissionTable.RoleID, account.RoleID,
		account.ID,
	)

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_user_permissions_failed: %w", err)
	}

	grids, err := scanPermissionRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_repo_user_permissions_failed: %w", err)
	}

	for _, grid := range grids {
		return grid, nil
	}
	return Permissions{}, nil
}
