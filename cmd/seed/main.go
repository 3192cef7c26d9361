// Copyright (c) 2026 Stockify. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command seed bootstraps a fresh database.
//
// It ensures the full-access admin role exists and assigns it to the account
// named by SEED_ADMIN_EMAIL, creating that account with SEED_ADMIN_PASSWORD
// when it is missing. Running it twice changes nothing.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/stockify/internal/platform/constants"
	"github.com/taibuivan/stockify/internal/platform/migration"
	pgstore "github.com/taibuivan/stockify/internal/platform/postgres"
	"github.com/taibuivan/stockify/internal/platform/sec"
	"github.com/taibuivan/stockify/internal/users/account"
	"github.com/taibuivan/stockify/internal/users/auth"
	"github.com/taibuivan/stockify/internal/users/role"
	"github.com/taibuivan/stockify/pkg/normalize"
)

// seedConfig is read from the environment. It does not need the API's token
// or Redis settings.
type seedConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	BcryptCost    int    `env:"BCRYPT_COST"    envDefault:"12"`

	AdminEmail     string `env:"SEED_ADMIN_EMAIL,required"`
	AdminPassword  string `env:"SEED_ADMIN_PASSWORD"`
	AdminFirstName string `env:"SEED_ADMIN_FIRST_NAME" envDefault:"Stockify"`
	AdminLastName  string `env:"SEED_ADMIN_LAST_NAME"  envDefault:"Admin"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", constants.AppName+"-seed"))

	if err := run(log); err != nil {
		log.Error("seed_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := seedConfig{}
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("seed: failed to parse environment variables: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
		return err
	}

	hasher, err := sec.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}

	seeder := &seeder{
		roles:    role.NewService(role.NewPostgresRepository(pool), nil),
		users:    auth.NewUserRepository(pool),
		accounts: account.NewService(account.NewPostgresRepository(pool), hasher, nil),
		log:      log,
	}

	return seeder.seed(ctx, adminAccount{
		Email:     cfg.AdminEmail,
		Password:  cfg.AdminPassword,
		FirstName: cfg.AdminFirstName,
		LastName:  cfg.AdminLastName,
	})
}

// # Seeding

// RoleBootstrapper creates or repairs the admin role. [role.Service] satisfies it.
type RoleBootstrapper interface {
	EnsureAdmin(ctx context.Context) (*role.Role, error)
}

// UserFinder looks accounts up by email. [auth.PostgresUserRepository] satisfies it.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*auth.User, error)
}

// AccountWriter creates accounts and reassigns roles. [account.Service] satisfies it.
type AccountWriter interface {
	Create(ctx context.Context, input account.Input) (*account.Account, error)
	Update(ctx context.Context, id int64, input account.Input) (*account.Account, error)
}

type adminAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type seeder struct {
	roles    RoleBootstrapper
	users    UserFinder
	accounts AccountWriter
	log      *slog.Logger
}

// seed runs the bootstrap. An existing account keeps its password and
// profile; only its role changes.
func (seeder *seeder) seed(ctx context.Context, admin adminAccount) error {
	adminRole, err := seeder.roles.EnsureAdmin(ctx)
	if err != nil {
		return fmt.Errorf("seed_admin_role_failed: %w", err)
	}
	seeder.log.Info("admin_role_ready", slog.Int64("role_id", adminRole.ID))

	existing, err := seeder.users.FindByEmail(ctx, normalize.Email(admin.Email))
	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		if admin.Password == "" {
			return errors.New("seed: SEED_ADMIN_PASSWORD is required to create the admin account")
		}

		created, err := seeder.accounts.Create(ctx, account.Input{
			Email:     admin.Email,
			Password:  admin.Password,
			FirstName: admin.FirstName,
			LastName:  admin.LastName,
			RoleID:    adminRole.ID,
		})
		if err != nil {
			return fmt.Errorf("seed_admin_create_failed: %w", err)
		}
		seeder.log.Info("admin_account_created", slog.Int64("user_id", created.ID))
		return nil

	case err != nil:
		return fmt.Errorf("seed_admin_lookup_failed: %w", err)
	}

	if existing.RoleID != nil && *existing.RoleID == adminRole.ID {
		seeder.log.Info("admin_account_unchanged", slog.Int64("user_id", existing.ID))
		return nil
	}

	if _, err := seeder.accounts.Update(ctx, existing.ID, account.Input{
		Email:     existing.Email,
		FirstName: existing.FirstName,
		LastName:  existing.LastName,
		Address:   existing.Address,
		RoleID:    adminRole.ID,
	}); err != nil {
		return fmt.Errorf("seed_admin_assign_failed: %w", err)
	}
	seeder.log.Info("admin_role_assigned", slog.Int64("user_id", existing.ID))

	return nil
}
