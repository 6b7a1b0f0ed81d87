// internal/team/service.go
package team

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/store"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service owns the membership lifecycle for an account: invite creation,
// acceptance by the invited email's holder, and owner-guarded removal.
type Service struct {
	store store.Store
	now   func() time.Time
}

func New(st store.Store) *Service {
	return &Service{store: st, now: time.Now}
}

type InviteRequest struct {
	AccountID uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Role      models.MemberRole
}

// CreateInvite creates a pending membership row for an email address.
// Any active member of the account may invite; issuance is deliberately
// not owner-only, unlike removal.
func (s *Service) CreateInvite(ctx context.Context, caller models.Identity, req InviteRequest) (models.Membership, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(email) {
		return models.Membership{}, apperr.New(apperr.KindValidation, "invalid email address")
	}
	if email == strings.ToLower(caller.Email) {
		return models.Membership{}, apperr.New(apperr.KindValidation, "you cannot invite yourself")
	}

	callerRow, err := s.store.GetMembershipByUser(ctx, req.AccountID, caller.ID)
	if err != nil || callerRow.Status != models.StatusActive {
		return models.Membership{}, apperr.New(apperr.KindAuthorization, "not a member of this account")
	}

	existing, err := s.store.GetMembershipByEmail(ctx, req.AccountID, email)
	switch {
	case err == nil && existing.Status == models.StatusPending:
		return models.Membership{}, apperr.New(apperr.KindConflict, "this email has already been invited")
	case err == nil:
		return models.Membership{}, apperr.New(apperr.KindConflict, "this email is already a member")
	case !errors.Is(err, store.ErrNotFound):
		return models.Membership{}, apperr.Wrap(apperr.KindStorage, "failed to look up invite", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleMember
	}
	if role == models.RoleOwner {
		// The owner bit is set only at account creation, never via invite.
		return models.Membership{}, apperr.New(apperr.KindValidation, "invalid role")
	}

	m, err := s.store.CreateMembership(ctx, models.Membership{
		ID:           uuid.New(),
		AccountID:    req.AccountID,
		InvitedEmail: email,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		Status:       models.StatusPending,
		CreatedAt:    s.now(),
	})
	if err != nil {
		// Two concurrent invites for the same email can both pass the
		// lookup above; the unique index turns the loser into a conflict.
		if errors.Is(err, store.ErrDuplicate) {
			return models.Membership{}, apperr.New(apperr.KindConflict, "this email has already been invited")
		}
		return models.Membership{}, apperr.Wrap(apperr.KindStorage, "failed to create invite", err)
	}
	return m, nil
}

// AcceptInvite flips a pending invite to active for the caller. The lookup
// is constrained by invite id, the caller's email and pending status in one
// shot, so a wrong email, a wrong status and a nonexistent id all surface
// as the same error and nothing leaks about ids belonging to other people.
func (s *Service) AcceptInvite(ctx context.Context, caller models.Identity, inviteID uuid.UUID) (models.Membership, error) {
	m, err := s.store.AcceptMembership(ctx, inviteID, strings.ToLower(caller.Email), caller.ID, s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Membership{}, apperr.New(apperr.KindNotFound, "invalid or expired invite")
		}
		return models.Membership{}, apperr.Wrap(apperr.KindStorage, "failed to accept invite", err)
	}
	return m, nil
}

// RemoveMember deletes a membership row. Owner only; the owner row itself
// and the caller's own row are immovable.
func (s *Service) RemoveMember(ctx context.Context, caller models.Identity, memberID, accountID uuid.UUID) error {
	if err := s.requireOwner(ctx, accountID, caller.ID); err != nil {
		return err
	}

	target, err := s.store.GetMembership(ctx, memberID, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "member not found")
		}
		return apperr.Wrap(apperr.KindStorage, "failed to look up member", err)
	}
	if target.IsOwner {
		return apperr.New(apperr.KindAuthorization, "cannot remove the account owner")
	}
	if target.UserID != nil && *target.UserID == caller.ID {
		return apperr.New(apperr.KindAuthorization, "you cannot remove yourself")
	}

	if err := s.store.DeleteMembership(ctx, memberID, accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "member not found")
		}
		return apperr.Wrap(apperr.KindStorage, "failed to remove member", err)
	}
	return nil
}

// ListMembers returns every membership row for the account, pending and
// active alike. Any authenticated caller may list.
func (s *Service) ListMembers(ctx context.Context, accountID uuid.UUID) ([]models.Membership, error) {
	members, err := s.store.ListMemberships(ctx, accountID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, "failed to list members", err)
	}
	return members, nil
}

// requireOwner verifies ownership two ways: the account's owner_user_id
// must name the caller AND the caller's own membership row must carry the
// owner bit. Either lookup failing or disagreeing fails closed, with
// distinct messages for "not in the account" and "in it but not owner".
func (s *Service) requireOwner(ctx context.Context, accountID, userID uuid.UUID) error {
	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.New(apperr.KindNotFound, "account not found")
		}
		return apperr.Wrap(apperr.KindStorage, "failed to look up account", err)
	}

	row, err := s.store.GetMembershipByUser(ctx, accountID, userID)
	if err != nil {
		return apperr.New(apperr.KindAuthorization, "not a member of this account")
	}
	if acct.OwnerUserID != userID || !row.IsOwner {
		return apperr.New(apperr.KindAuthorization, "only account owners can remove team members")
	}
	return nil
}
