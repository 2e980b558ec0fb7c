package users

import (
	"context"
	"errors"
)

const (
	seedAdminName     = "Admin"
	seedAdminUsername = "admin"
)

// SeedAdmin creates the bootstrap admin account when no account with the
// admin username exists yet. Running it again is a no-op, so process restarts
// are safe.
func (s *Service) SeedAdmin(ctx context.Context, password string) error {
	if password == "" {
		return errors.New("users: seed admin password required")
	}

	_, err := s.Register(ctx, RegisterRequest{
		Name:     seedAdminName,
		Username: seedAdminUsername,
		Password: password,
	})
	if errors.Is(err, ErrDuplicateUsername) {
		return nil
	}
	return err
}
