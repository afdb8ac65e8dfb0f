package accounts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/skeldnet/cosmetics-backend/pkg/config"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.AccountsConfig{
		BaseURL:      srv.URL,
		ServiceToken: "service-token",
		Timeout:      2 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client, srv
}

func TestNewClientRequiresServiceToken(t *testing.T) {
	if _, err := NewClient(config.AccountsConfig{BaseURL: "http://localhost"}); err == nil {
		t.Fatalf("expected error for missing service token")
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api-private/v1/users/user-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "service-token" {
			t.Errorf("expected service token header, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"client_id":"user-1","client_token":"tok","display_name":"Red","perks":["cosmetic.item.create"]}}`))
	})

	profile, err := client.Authenticate(context.Background(), "tok", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.ClientID != "user-1" || profile.DisplayName != "Red" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if !profile.HasPerk("cosmetic.item.create") {
		t.Fatalf("expected perk to be present")
	}
	if profile.HasPerk("cosmetic.bundle.create") {
		t.Fatalf("unexpected perk reported")
	}
}

func TestAuthenticateTokenMismatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"client_id":"user-1","client_token":"other"}}`))
	})

	_, err := client.Authenticate(context.Background(), "tok", "user-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Authenticate(context.Background(), "tok", "missing")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestAuthenticateUnsuccessfulBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false}`))
	})

	_, err := client.Authenticate(context.Background(), "tok", "user-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
}

func TestAuthenticateUpstreamFailure(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Authenticate(context.Background(), "tok", "user-1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR, got %v", err)
	}

	srv.Close()
	_, err = client.Authenticate(context.Background(), "tok", "user-1")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected DEPENDENCY_ERROR on transport failure, got %v", err)
	}
}
