package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/kaan/attendly/internal/app/models"
	appRepos "github.com/kaan/attendly/internal/app/repositories"
	"github.com/kaan/attendly/internal/pkg/apperrors"
	"github.com/kaan/attendly/internal/pkg/auth"
)

// CreateDefaultData seeds a couple of users so a fresh deployment can log in.
// Re-running is harmless: existing emails are left alone.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default users...")

	defaults := []struct {
		email     string
		password  string
		firstName string
		lastName  string
	}{
		{"admin@attendly.local", "admin1234", "Default", "Admin"},
		{"demo@attendly.local", "demo1234", "Demo", "User"},
	}

	var finalErr error
	for _, d := range defaults {
		hash, err := auth.HashPassword(d.password)
		if err != nil {
			lgr.Error().Err(err).Str("email", d.email).Msg("Error hashing default user password")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := &appModels.User{
			Email:        d.email,
			PasswordHash: hash,
			FirstName:    d.firstName,
			LastName:     d.lastName,
		}
		id, err := userRepo.Create(ctx, user)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("email", d.email).Msg("Error creating default user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Int64("userId", id).Str("email", d.email).Msg("Default user created")
	}

	return finalErr
}
