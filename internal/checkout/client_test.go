package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/tetstore/guestcart-backend/pkg/errors"
)

func TestClientSubmitSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/checkout/guest" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access": map[string]any{
				"original": map[string]any{
					"access_token": "jwt-here",
					"user":         map[string]any{"id": 7},
				},
			},
		})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	token, user, err := client.Submit(context.Background(), []byte(`{}`))
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if token != "jwt-here" {
		t.Fatalf("unexpected token %q", token)
	}
	if len(user) == 0 {
		t.Fatal("expected user blob")
	}
}

func TestClientSubmitMapsUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, _, err = client.Submit(context.Background(), []byte(`{}`))
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized code, got %v", err)
	}
}

func TestClientSubmitMapsOtherFailuresToDependency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, _, err = client.Submit(context.Background(), []byte(`{}`))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %v", err)
	}
}

func TestClientSubmitMissingToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"access": map[string]any{}})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if _, _, err := client.Submit(context.Background(), []byte(`{}`)); err == nil {
		t.Fatal("expected error for missing access token")
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("", time.Second); err == nil {
		t.Fatal("expected error for empty base url")
	}
}
