// internal/store/postgres/flags.go
package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/models"
)

func (s *Store) UpsertFlag(ctx context.Context, accountID uuid.UUID, key string, enabled bool) (models.FeatureFlag, error) {
	slog.DebugContext(ctx, "UpsertFlag", "account_id", accountID.String(), "key", key, "enabled", enabled)
	row := s.pool.QueryRow(ctx, `
		INSERT INTO feature_flags (id, account_id, key, enabled)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id, key)
		DO UPDATE SET enabled = EXCLUDED.enabled, updated_at = now()
		RETURNING id, account_id, key, enabled, updated_at`,
		uuid.New(), accountID, key, enabled)
	var f models.FeatureFlag
	if err := row.Scan(&f.ID, &f.AccountID, &f.Key, &f.Enabled, &f.UpdatedAt); err != nil {
		slog.ErrorContext(ctx, "UpsertFlag failed", "err", err)
		return models.FeatureFlag{}, mapError(err)
	}
	return f, nil
}

func (s *Store) ListFlags(ctx context.Context, accountID uuid.UUID) ([]models.FeatureFlag, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, account_id, key, enabled, updated_at
		FROM feature_flags WHERE account_id = $1 ORDER BY key`, accountID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var res []models.FeatureFlag
	for rows.Next() {
		var f models.FeatureFlag
		if err := rows.Scan(&f.ID, &f.AccountID, &f.Key, &f.Enabled, &f.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		res = append(res, f)
	}
	return res, mapError(rows.Err())
}

func (s *Store) UpsertUserProfile(ctx context.Context, p models.UserProfile) (models.UserProfile, error) {
	slog.DebugContext(ctx, "UpsertUserProfile", "user_id", p.UserID.String(), "user_type", string(p.UserType))
	row := s.pool.QueryRow(ctx, `
		INSERT INTO user_profiles (user_id, user_type, company_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id)
		DO UPDATE SET user_type = EXCLUDED.user_type, company_name = EXCLUDED.company_name
		RETURNING user_id, user_type, company_name, created_at`,
		p.UserID, string(p.UserType), p.CompanyName)
	var (
		out models.UserProfile
		ut  string
	)
	if err := row.Scan(&out.UserID, &ut, &out.CompanyName, &out.CreatedAt); err != nil {
		slog.ErrorContext(ctx, "UpsertUserProfile failed", "err", err)
		return models.UserProfile{}, mapError(err)
	}
	out.UserType = models.UserType(ut)
	return out, nil
}

func (s *Store) CreateVendorProfile(ctx context.Context, v models.VendorProfile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO vendor_profiles (id, user_id, company)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING`,
		v.ID, v.UserID, v.Company)
	return mapError(err)
}
