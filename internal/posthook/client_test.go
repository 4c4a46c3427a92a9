package posthook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRegister_OK(t *testing.T) {
	postAt := time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC)

	var got registerReq
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/hooks" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"ph_42"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	id, err := c.Register(context.Background(), postAt, Payload{
		TemplateID: "d-template",
		Email:      "jean@michel.org",
		ItemID:     7,
		Data:       map[string]any{"itemName": "Mon item"},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if id != "ph_42" {
		t.Fatalf("hook id: %q", id)
	}

	if got.Path != CallbackPath {
		t.Fatalf("path: %q", got.Path)
	}
	if got.PostAt != "2026-09-02T10:00:00Z" {
		t.Fatalf("postAt: %q", got.PostAt)
	}
	if got.Data.TemplateID != "d-template" || got.Data.Email != "jean@michel.org" || got.Data.ItemID != 7 {
		t.Fatalf("payload not carried: %+v", got.Data)
	}
}

func TestRegister_ProviderRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	if _, err := c.Register(context.Background(), time.Now(), Payload{}); err == nil {
		t.Fatalf("expected error on 422")
	}
}

func TestRegister_MissingHookID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	if _, err := c.Register(context.Background(), time.Now(), Payload{}); err == nil {
		t.Fatalf("expected error when response has no id")
	}
}
