// internal/store/postgres/accounts.go
package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/models"
)

func (s *Store) CreateAccountWithOwner(ctx context.Context, acct models.Account, owner models.Membership) (models.Account, error) {
	slog.DebugContext(ctx, "CreateAccountWithOwner", "account_id", acct.ID.String(), "owner_user_id", acct.OwnerUserID.String())

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.Account{}, mapError(err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO accounts (id, name, owner_user_id, currency)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, owner_user_id, currency, created_at`,
		acct.ID, acct.Name, acct.OwnerUserID, acct.Currency)
	var out models.Account
	if err := row.Scan(&out.ID, &out.Name, &out.OwnerUserID, &out.Currency, &out.CreatedAt); err != nil {
		slog.ErrorContext(ctx, "insert account failed", "err", err)
		return models.Account{}, mapError(err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO memberships (id, account_id, user_id, invited_email, first_name, last_name, role, is_owner, status, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true, 'active', now())`,
		owner.ID, out.ID, owner.UserID, owner.InvitedEmail, owner.FirstName, owner.LastName, owner.Role)
	if err != nil {
		slog.ErrorContext(ctx, "insert owner membership failed", "err", err)
		return models.Account{}, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Account{}, mapError(err)
	}
	return out, nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (models.Account, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, owner_user_id, currency, created_at
		FROM accounts WHERE id = $1`, id)
	var a models.Account
	if err := row.Scan(&a.ID, &a.Name, &a.OwnerUserID, &a.Currency, &a.CreatedAt); err != nil {
		return models.Account{}, mapError(err)
	}
	return a, nil
}

func (s *Store) UpdateAccountCurrency(ctx context.Context, id uuid.UUID, currency string) (models.Account, error) {
	slog.DebugContext(ctx, "UpdateAccountCurrency", "account_id", id.String(), "currency", currency)
	row := s.pool.QueryRow(ctx, `
		UPDATE accounts SET currency = $2 WHERE id = $1
		RETURNING id, name, owner_user_id, currency, created_at`, id, currency)
	var a models.Account
	if err := row.Scan(&a.ID, &a.Name, &a.OwnerUserID, &a.Currency, &a.CreatedAt); err != nil {
		slog.ErrorContext(ctx, "UpdateAccountCurrency failed", "err", err)
		return models.Account{}, mapError(err)
	}
	return a, nil
}
