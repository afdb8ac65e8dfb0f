package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skeldnet/cosmetics-backend/pkg/accounts"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
)

type stubVerifier struct {
	profile *accounts.Profile
	err     error

	gotToken  string
	gotUserID string
}

func (s *stubVerifier) Authenticate(ctx context.Context, token, userID string) (*accounts.Profile, error) {
	s.gotToken = token
	s.gotUserID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func authedHandler(t *testing.T, captured **accounts.Profile) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func decodeCause(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		OK    bool   `json:"ok"`
		Cause string `json:"cause"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.OK {
		t.Fatalf("expected ok=false")
	}
	return body.Cause
}

func TestAuthMissingHeader(t *testing.T) {
	var seen *accounts.Profile
	handler := Auth(&stubVerifier{}, nil)(authedHandler(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/v1/purchases", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if cause := decodeCause(t, rec); cause != "Authentication error: Missing authorization header" {
		t.Fatalf("unexpected cause: %q", cause)
	}
}

func TestAuthMalformedHeader(t *testing.T) {
	for _, header := range []string{"justtoken", ":", "token:", ":userid"} {
		var seen *accounts.Profile
		handler := Auth(&stubVerifier{}, nil)(authedHandler(t, &seen))

		req := httptest.NewRequest(http.MethodGet, "/v1/purchases", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("header %q: expected 400, got %d", header, rec.Code)
		}
	}
}

func TestAuthVerifierRejection(t *testing.T) {
	verifier := &stubVerifier{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Invalid token or uuid")}
	var seen *accounts.Profile
	handler := Auth(verifier, nil)(authedHandler(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/v1/purchases", nil)
	req.Header.Set("Authorization", "badtoken:user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if cause := decodeCause(t, rec); cause != "Authentication error: Invalid token or uuid" {
		t.Fatalf("unexpected cause: %q", cause)
	}
}

func TestAuthSeedsContext(t *testing.T) {
	verifier := &stubVerifier{profile: &accounts.Profile{ClientID: "user-1", ClientToken: "tok"}}
	var seen *accounts.Profile
	handler := Auth(verifier, nil)(authedHandler(t, &seen))

	req := httptest.NewRequest(http.MethodGet, "/v1/purchases", nil)
	req.Header.Set("Authorization", "tok:user-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if verifier.gotToken != "tok" || verifier.gotUserID != "user-1" {
		t.Fatalf("credential not split correctly: %q %q", verifier.gotToken, verifier.gotUserID)
	}
	if seen == nil || seen.ClientID != "user-1" {
		t.Fatalf("expected profile in context, got %+v", seen)
	}
}

func TestRequirePerk(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing user", func(t *testing.T) {
		handler := RequirePerk("cosmetic.item.create", nil)(next)
		req := httptest.NewRequest(http.MethodPut, "/v1/item/x", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("missing perk", func(t *testing.T) {
		handler := RequirePerk("cosmetic.item.create", nil)(next)
		req := httptest.NewRequest(http.MethodPut, "/v1/item/x", nil)
		ctx := WithUser(req.Context(), &accounts.Profile{ClientID: "user-1"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		if cause := decodeCause(t, rec); cause != `Permissions Error: Missing perk "cosmetic.item.create"` {
			t.Fatalf("unexpected cause: %q", cause)
		}
	})

	t.Run("perk present", func(t *testing.T) {
		handler := RequirePerk("cosmetic.item.create", nil)(next)
		req := httptest.NewRequest(http.MethodPut, "/v1/item/x", nil)
		ctx := WithUser(req.Context(), &accounts.Profile{ClientID: "user-1", Perks: []string{"cosmetic.item.create"}})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})
}
