package service

import (
	"context"
	"fmt"
	"log/slog"

	"workplace/internal/model"
	"workplace/internal/repository"
)

// DemoPassword is the password of every seeded demo account.
const DemoPassword = "Password123!"

// DemoAccounts are created on an empty database, one per role.
var DemoAccounts = []struct {
	Email string
	Role  model.Role
}{
	{"admin@example.com", model.RoleAdmin},
	{"manager@example.com", model.RoleManager},
	{"member@example.com", model.RoleMember},
}

// SeedDemoUsers creates the demo accounts when no user exists yet and reports
// how many it created. On a non-empty database it does nothing.
func SeedDemoUsers(ctx context.Context, users repository.UserRepositoryInterface, hasher PasswordHasher, logger *slog.Logger) (int, error) {
	count, err := users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		logger.Debug("database already seeded", "users", count)
		return 0, nil
	}

	hash, err := hasher.Hash(DemoPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash demo password: %w", err)
	}

	created := 0
	for _, acct := range DemoAccounts {
		user := &model.User{Email: acct.Email, PasswordHash: hash, Role: acct.Role}
		if err := users.Create(ctx, user); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", acct.Email, err)
		}
		created++
	}

	logger.Info("seeded demo users", "count", created)
	return created, nil
}
