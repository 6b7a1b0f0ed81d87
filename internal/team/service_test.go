package team

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora-server/internal/apperr"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/store"
)

func seedAccount(t *testing.T, st *store.MemoryStore, owner models.Identity) models.Account {
	t.Helper()
	ownerID := owner.ID
	acct, err := st.CreateAccountWithOwner(context.Background(),
		models.Account{ID: uuid.New(), Name: "test account", OwnerUserID: ownerID, Currency: "USD"},
		models.Membership{ID: uuid.New(), UserID: &ownerID, InvitedEmail: owner.Email, Role: models.RoleOwner})
	require.NoError(t, err)
	return acct
}

func identity(email string) models.Identity {
	return models.Identity{ID: uuid.New(), Email: email}
}

func TestCreateInvite(t *testing.T) {
	owner := identity("owner@example.com")

	tests := []struct {
		name     string
		email    string
		wantKind apperr.Kind
		wantErr  bool
	}{
		{name: "valid email", email: "new@example.com"},
		{name: "missing domain", email: "new@", wantErr: true, wantKind: apperr.KindValidation},
		{name: "missing tld", email: "new@example", wantErr: true, wantKind: apperr.KindValidation},
		{name: "empty", email: "", wantErr: true, wantKind: apperr.KindValidation},
		{name: "self invite", email: "owner@example.com", wantErr: true, wantKind: apperr.KindValidation},
		{name: "self invite different case", email: "OWNER@Example.COM", wantErr: true, wantKind: apperr.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewMemoryStore()
			acct := seedAccount(t, st, owner)
			svc := New(st)

			inv, err := svc.CreateInvite(context.Background(), owner, InviteRequest{
				AccountID: acct.ID,
				Email:     tt.email,
			})
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, apperr.IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, models.StatusPending, inv.Status)
			require.Nil(t, inv.UserID)
			require.Equal(t, "new@example.com", inv.InvitedEmail)
			require.Equal(t, models.RoleMember, inv.Role)
			require.False(t, inv.IsOwner)
		})
	}
}

func TestCreateInviteDuplicate(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	_, err := svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "a@x.com"})
	require.NoError(t, err)

	// Second invite for the same email conflicts while pending.
	_, err = svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "a@x.com"})
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
	require.Contains(t, err.Error(), "already been invited")

	// Same email in a different account is fine.
	other := seedAccount(t, st, owner)
	_, err = svc.CreateInvite(ctx, owner, InviteRequest{AccountID: other.ID, Email: "a@x.com"})
	require.NoError(t, err)
}

func TestCreateInviteAlreadyMember(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	inv, err := svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "a@x.com"})
	require.NoError(t, err)

	invitee := identity("a@x.com")
	_, err = svc.AcceptInvite(ctx, invitee, inv.ID)
	require.NoError(t, err)

	_, err = svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "a@x.com"})
	require.True(t, apperr.IsKind(err, apperr.KindConflict))
	require.Contains(t, err.Error(), "already a member")
}

func TestCreateInviteRequiresMembership(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)

	outsider := identity("outsider@example.com")
	_, err := svc.CreateInvite(context.Background(), outsider, InviteRequest{
		AccountID: acct.ID,
		Email:     "new@example.com",
	})
	require.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestCreateInviteOwnerRoleRejected(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)

	_, err := svc.CreateInvite(context.Background(), owner, InviteRequest{
		AccountID: acct.ID,
		Email:     "new@example.com",
		Role:      models.RoleOwner,
	})
	require.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestAcceptInvite(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	inv, err := svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "a@x.com"})
	require.NoError(t, err)
	createdAt := inv.CreatedAt

	invitee := identity("a@x.com")
	m, err := svc.AcceptInvite(ctx, invitee, inv.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, m.Status)
	require.NotNil(t, m.UserID)
	require.Equal(t, invitee.ID, *m.UserID)
	require.NotNil(t, m.AcceptedAt)
	require.Equal(t, createdAt, m.CreatedAt, "accepting must not overwrite the invite time")

	// No double accept.
	_, err = svc.AcceptInvite(ctx, invitee, inv.ID)
	require.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestAcceptInviteUniformFailures(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	inv, err := svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "a@x.com"})
	require.NoError(t, err)

	// Wrong email and nonexistent id must be indistinguishable.
	wrongEmail := identity("b@x.com")
	_, errWrong := svc.AcceptInvite(ctx, wrongEmail, inv.ID)
	_, errMissing := svc.AcceptInvite(ctx, wrongEmail, uuid.New())

	require.True(t, apperr.IsKind(errWrong, apperr.KindNotFound))
	require.True(t, apperr.IsKind(errMissing, apperr.KindNotFound))
	require.Equal(t, apperr.Message(errWrong), apperr.Message(errMissing))
}

func TestAcceptInviteCaseInsensitiveEmail(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	inv, err := svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "A@X.com"})
	require.NoError(t, err)

	invitee := identity("a@x.COM")
	m, err := svc.AcceptInvite(ctx, invitee, inv.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, m.Status)
}

func TestRemoveMember(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	inv, err := svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "a@x.com"})
	require.NoError(t, err)
	invitee := identity("a@x.com")
	m, err := svc.AcceptInvite(ctx, invitee, inv.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMember(ctx, owner, m.ID, acct.ID))

	members, err := svc.ListMembers(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, members, 1) // only the owner remains
	require.True(t, members[0].IsOwner)
}

func TestRemoveMemberScoping(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)

	otherOwner := identity("other@example.com")
	otherAcct := seedAccount(t, st, otherOwner)

	svc := New(st)
	ctx := context.Background()

	inv, err := svc.CreateInvite(ctx, otherOwner, InviteRequest{AccountID: otherAcct.ID, Email: "a@x.com"})
	require.NoError(t, err)

	// A cross-tenant member id and a nonexistent one must fail identically.
	errCross := svc.RemoveMember(ctx, owner, inv.ID, acct.ID)
	errMissing := svc.RemoveMember(ctx, owner, uuid.New(), acct.ID)

	require.True(t, apperr.IsKind(errCross, apperr.KindNotFound))
	require.True(t, apperr.IsKind(errMissing, apperr.KindNotFound))
	require.Equal(t, apperr.Message(errCross), apperr.Message(errMissing))
}

func TestRemoveMemberOwnerRowImmovable(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	members, err := svc.ListMembers(ctx, acct.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	ownerRow := members[0]

	// Even the owner cannot remove the owner row.
	err = svc.RemoveMember(ctx, owner, ownerRow.ID, acct.ID)
	require.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	require.Contains(t, err.Error(), "account owner")
}

func TestRemoveMemberNotOwner(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	invA, err := svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "a@x.com"})
	require.NoError(t, err)
	memberA := identity("a@x.com")
	rowA, err := svc.AcceptInvite(ctx, memberA, invA.ID)
	require.NoError(t, err)

	invB, err := svc.CreateInvite(ctx, owner, InviteRequest{AccountID: acct.ID, Email: "b@x.com"})
	require.NoError(t, err)
	memberB := identity("b@x.com")
	rowB, err := svc.AcceptInvite(ctx, memberB, invB.ID)
	require.NoError(t, err)

	// Active non-owner member cannot remove anyone.
	err = svc.RemoveMember(ctx, memberA, rowB.ID, acct.ID)
	require.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	require.Contains(t, err.Error(), "only account owners")

	// Caller outside the account gets the distinct membership message.
	outsider := identity("outsider@example.com")
	err = svc.RemoveMember(ctx, outsider, rowA.ID, acct.ID)
	require.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	require.Contains(t, err.Error(), "not a member")
}

func TestRemoveMemberSelf(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	// The owner's own row is also the is_owner row, so build the self case
	// on the guard directly: owner removing the row whose user_id is theirs
	// but without the owner bit cannot happen through the invite path, and
	// the is_owner rejection fires first. Covered in
	// TestRemoveMemberOwnerRowImmovable; here verify the self check for a
	// hypothetical non-owner self row.
	ownerID := owner.ID
	row, err := st.CreateMembership(ctx, models.Membership{
		ID:           uuid.New(),
		AccountID:    acct.ID,
		UserID:       &ownerID,
		InvitedEmail: "owner+alt@example.com",
		Role:         models.RoleMember,
		Status:       models.StatusActive,
	})
	require.NoError(t, err)

	err = svc.RemoveMember(ctx, owner, row.ID, acct.ID)
	require.True(t, apperr.IsKind(err, apperr.KindAuthorization))
	require.Contains(t, err.Error(), "remove yourself")
}

func TestInviteLifecycleEndToEnd(t *testing.T) {
	st := store.NewMemoryStore()
	owner := identity("owner@example.com")
	acct := seedAccount(t, st, owner)
	svc := New(st)
	ctx := context.Background()

	// Owner invites a@x.com: pending, no user id.
	inv, err := svc.CreateInvite(ctx, owner, InviteRequest{
		AccountID: acct.ID,
		Email:     "a@x.com",
		FirstName: "Ada",
		LastName:  "Example",
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, inv.Status)
	require.Nil(t, inv.UserID)

	// The invited email's holder accepts: active, user id set.
	invitee := identity("a@x.com")
	m, err := svc.AcceptInvite(ctx, invitee, inv.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusActive, m.Status)
	require.Equal(t, invitee.ID, *m.UserID)

	// Owner removes the row: gone.
	require.NoError(t, svc.RemoveMember(ctx, owner, m.ID, acct.ID))
	_, err = st.GetMembership(ctx, m.ID, acct.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
