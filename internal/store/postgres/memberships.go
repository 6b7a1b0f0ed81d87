// internal/store/postgres/memberships.go
package postgres

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/store"
)

const membershipCols = `id, account_id, user_id, invited_email, first_name, last_name, role, is_owner, status, created_at, accepted_at`

func scanMembership(row pgx.Row) (models.Membership, error) {
	var (
		m        models.Membership
		role     string
		status   string
		accepted pgtype.Timestamptz
	)
	err := row.Scan(&m.ID, &m.AccountID, &m.UserID, &m.InvitedEmail,
		&m.FirstName, &m.LastName, &role, &m.IsOwner, &status,
		&m.CreatedAt, &accepted)
	if err != nil {
		return models.Membership{}, err
	}
	m.Role = models.MemberRole(role)
	m.Status = models.MemberStatus(status)
	m.AcceptedAt = timePtr(accepted)
	return m, nil
}

func (s *Store) CreateMembership(ctx context.Context, m models.Membership) (models.Membership, error) {
	slog.DebugContext(ctx, "CreateMembership", "account_id", m.AccountID.String(), "email", m.InvitedEmail)
	row := s.pool.QueryRow(ctx, `
		INSERT INTO memberships (id, account_id, user_id, invited_email, first_name, last_name, role, is_owner, status)
		VALUES ($1, $2, $3, lower($4), $5, $6, $7, $8, $9)
		RETURNING `+membershipCols,
		m.ID, m.AccountID, m.UserID, m.InvitedEmail, m.FirstName, m.LastName,
		string(m.Role), m.IsOwner, string(m.Status))
	out, err := scanMembership(row)
	if err != nil {
		slog.ErrorContext(ctx, "CreateMembership failed", "err", err)
		return models.Membership{}, mapError(err)
	}
	return out, nil
}

// GetMembership is scoped by both id and account id so a miss looks the same
// whether the row does not exist or belongs to another tenant.
func (s *Store) GetMembership(ctx context.Context, id, accountID uuid.UUID) (models.Membership, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+membershipCols+` FROM memberships
		WHERE id = $1 AND account_id = $2`, id, accountID)
	m, err := scanMembership(row)
	if err != nil {
		return models.Membership{}, mapError(err)
	}
	return m, nil
}

func (s *Store) GetMembershipByEmail(ctx context.Context, accountID uuid.UUID, email string) (models.Membership, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+membershipCols+` FROM memberships
		WHERE account_id = $1 AND lower(invited_email) = lower($2)`,
		accountID, strings.TrimSpace(email))
	m, err := scanMembership(row)
	if err != nil {
		return models.Membership{}, mapError(err)
	}
	return m, nil
}

func (s *Store) GetMembershipByUser(ctx context.Context, accountID, userID uuid.UUID) (models.Membership, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+membershipCols+` FROM memberships
		WHERE account_id = $1 AND user_id = $2`, accountID, userID)
	m, err := scanMembership(row)
	if err != nil {
		return models.Membership{}, mapError(err)
	}
	return m, nil
}

func (s *Store) ListMemberships(ctx context.Context, accountID uuid.UUID) ([]models.Membership, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+membershipCols+` FROM memberships
		WHERE account_id = $1
		ORDER BY created_at`, accountID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var res []models.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, mapError(err)
		}
		res = append(res, m)
	}
	return res, mapError(rows.Err())
}

func (s *Store) AcceptMembership(ctx context.Context, inviteID uuid.UUID, email string, userID uuid.UUID, at time.Time) (models.Membership, error) {
	slog.DebugContext(ctx, "AcceptMembership", "invite_id", inviteID.String(), "user_id", userID.String())
	row := s.pool.QueryRow(ctx, `
		UPDATE memberships
		SET user_id = $3, status = 'active', accepted_at = $4
		WHERE id = $1 AND lower(invited_email) = lower($2) AND status = 'pending'
		RETURNING `+membershipCols,
		inviteID, email, userID, at)
	m, err := scanMembership(row)
	if err != nil {
		return models.Membership{}, mapError(err)
	}
	return m, nil
}

func (s *Store) DeleteMembership(ctx context.Context, id, accountID uuid.UUID) error {
	slog.DebugContext(ctx, "DeleteMembership", "membership_id", id.String(), "account_id", accountID.String())
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM memberships WHERE id = $1 AND account_id = $2`, id, accountID)
	if err != nil {
		slog.ErrorContext(ctx, "DeleteMembership failed", "err", err)
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
