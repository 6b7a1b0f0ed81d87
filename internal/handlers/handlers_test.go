package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/planora/planora-server/internal/auth"
	"github.com/planora/planora-server/internal/models"
	"github.com/planora/planora-server/internal/store"
)

// stubVerifier resolves fixed tokens to identities.
type stubVerifier struct {
	tokens map[string]models.Identity
}

func (s *stubVerifier) Verify(_ context.Context, token string) (models.Identity, error) {
	id, ok := s.tokens[token]
	if !ok {
		return models.Identity{}, auth.ErrInvalidToken
	}
	return id, nil
}

type testServer struct {
	store    *store.MemoryStore
	verifier *stubVerifier
	srv      *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := store.NewMemoryStore()
	verifier := &stubVerifier{tokens: make(map[string]models.Identity)}
	resolver := auth.NewResolver(verifier, "testproj")

	mux := chi.NewRouter()
	RegisterRoutes(mux, st, resolver, nil)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{store: st, verifier: verifier, srv: srv}
}

func (ts *testServer) addUser(email string) (models.Identity, string) {
	id := models.Identity{ID: uuid.New(), Email: email}
	token := "tok-" + uuid.NewString()
	ts.verifier.tokens[token] = id
	return id, token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (ts *testServer) createAccount(t *testing.T, token string) string {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/accounts", token, map[string]any{"name": "Test Account"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	acct := body["account"].(map[string]any)
	return acct["id"].(string)
}

func TestAuthRequired(t *testing.T) {
	ts := newTestServer(t)

	paths := []struct{ method, path string }{
		{http.MethodPost, "/invite"},
		{http.MethodGet, "/invite"},
		{http.MethodPost, "/accept"},
		{http.MethodDelete, "/remove"},
		{http.MethodPost, "/accounts"},
		{http.MethodPost, "/update-currency"},
		{http.MethodPost, "/flags"},
		{http.MethodPost, "/users/register-type"},
	}
	for _, p := range paths {
		resp, _ := ts.do(t, p.method, p.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", p.method, p.path)
	}

	// Garbage tokens are indistinguishable from no token.
	resp, _ := ts.do(t, http.MethodGet, "/invite", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInviteFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.addUser("owner@example.com")
	acctID := ts.createAccount(t, ownerToken)

	// Invite.
	resp, body := ts.do(t, http.MethodPost, "/invite", ownerToken, map[string]any{
		"email":             "a@x.com",
		"firstName":         "Ada",
		"lastName":          "Example",
		"accountInstanceId": acctID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	invite := body["invite"].(map[string]any)
	require.Equal(t, "pending", invite["status"])
	require.Nil(t, invite["user_id"])
	inviteID := invite["id"].(string)

	// Duplicate invite: 409.
	resp, body = ts.do(t, http.MethodPost, "/invite", ownerToken, map[string]any{
		"email":             "a@x.com",
		"accountInstanceId": acctID,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, body["error"], "already been invited")

	// Accept by the invited email's holder.
	_, inviteeToken := ts.addUser("a@x.com")
	resp, body = ts.do(t, http.MethodPost, "/accept", inviteeToken, map[string]any{"inviteId": inviteID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	member := body["member"].(map[string]any)
	require.Equal(t, "active", member["status"])
	require.NotNil(t, member["user_id"])

	// Accept by anyone else: uniform 404.
	_, strangerToken := ts.addUser("b@x.com")
	resp, body = ts.do(t, http.MethodPost, "/accept", strangerToken, map[string]any{"inviteId": inviteID})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Contains(t, body["error"], "invalid or expired")

	// Member list shows owner + accepted member.
	resp, body = ts.do(t, http.MethodGet, "/invite?accountInstanceId="+acctID, ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["members"], 2)

	// Non-owner removal: 403.
	resp, body = ts.do(t, http.MethodDelete, "/remove", inviteeToken, map[string]any{
		"memberId":          inviteID,
		"accountInstanceId": acctID,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Contains(t, body["error"], "only account owners")

	// Owner removal succeeds.
	resp, _ = ts.do(t, http.MethodDelete, "/remove", ownerToken, map[string]any{
		"memberId":          inviteID,
		"accountInstanceId": acctID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateCurrencyOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.addUser("owner@example.com")
	acctID := ts.createAccount(t, ownerToken)

	// Two-character currency: 400 and no mutation.
	resp, _ := ts.do(t, http.MethodPost, "/update-currency", ownerToken, map[string]any{
		"id":       acctID,
		"currency": "US",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, "/update-currency", ownerToken, map[string]any{
		"id":       acctID,
		"currency": "EUR",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	acct := body["account"].(map[string]any)
	require.Equal(t, "EUR", acct["currency"])
}

func TestSchedulerOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	_, adminToken := ts.addUser("admin@example.com")

	// Create a link and validate it publicly.
	resp, body := ts.do(t, http.MethodPost, "/scheduler/links", adminToken, map[string]any{"title": "vendor intake"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	link := body["link"].(map[string]any)
	token := link["token"].(string)

	resp, _ = ts.do(t, http.MethodGet, "/scheduler/link/"+token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, "/scheduler/link/unknown", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Expired link: 410, not 404.
	_, err := ts.store.CreateBookingLink(context.Background(), models.BookingLink{
		ID:        uuid.New(),
		Token:     "expired",
		IsActive:  true,
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	resp, _ = ts.do(t, http.MethodGet, "/scheduler/link/expired", "", nil)
	require.Equal(t, http.StatusGone, resp.StatusCode)

	// Public booking submission.
	resp, body = ts.do(t, http.MethodPost, "/scheduler/book", "", map[string]any{
		"linkToken":    token,
		"vendorName":   "Flowers by Ada",
		"vendorEmail":  "ada@flowers.com",
		"serviceType":  "florist",
		"proposedDate": "2026-10-01",
		"proposedTime": "10:00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	booking := body["booking"].(map[string]any)
	require.Equal(t, "pending", booking["status"])
	bookingID := booking["id"].(string)

	// Missing required field: 400.
	resp, _ = ts.do(t, http.MethodPost, "/scheduler/book", "", map[string]any{
		"vendorName": "No Email",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Resolution requires auth, then is terminal.
	resp, _ = ts.do(t, http.MethodPost, fmt.Sprintf("/scheduler/bookings/%s/resolve", bookingID), "", map[string]any{"decision": "approve"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPost, fmt.Sprintf("/scheduler/bookings/%s/resolve", bookingID), adminToken, map[string]any{"decision": "approve"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "approved", body["booking"].(map[string]any)["status"])

	resp, _ = ts.do(t, http.MethodPost, fmt.Sprintf("/scheduler/bookings/%s/resolve", bookingID), adminToken, map[string]any{"decision": "reject"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	// Slot grid is public.
	resp, body = ts.do(t, http.MethodGet, "/scheduler/slots?start_date=2026-10-01&end_date=2026-10-01", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["slots"], 18)
}

func TestFlagsOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	_, ownerToken := ts.addUser("owner@example.com")
	acctID := ts.createAccount(t, ownerToken)

	// Defaults were seeded at account creation.
	resp, body := ts.do(t, http.MethodGet, "/flags?accountInstanceId="+acctID, ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, body["flags"])

	// Non-owner cannot flip flags.
	_, memberToken := ts.addUser("member@example.com")
	resp, _ = ts.do(t, http.MethodPost, "/flags", memberToken, map[string]any{
		"accountInstanceId": acctID,
		"key":               "scheduler",
		"enabled":           false,
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
