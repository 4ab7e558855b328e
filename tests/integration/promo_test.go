//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestGetPromo_Seeded(t *testing.T) {
	resp := doGet(t, "/api/promos/START")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[promoResponse](t, resp)
	if p.Code != "START" {
		t.Errorf("code: got %q, want %q", p.Code, "START")
	}
	if p.DiscountPercent != 10 {
		t.Errorf("discount_percent: got %v, want 10", p.DiscountPercent)
	}
	if !p.Active {
		t.Error("expected promo to be active")
	}
}

func TestGetPromo_CaseInsensitive(t *testing.T) {
	resp := doGet(t, "/api/promos/start")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[promoResponse](t, resp)
	if p.Code != "START" {
		t.Errorf("code: got %q, want %q", p.Code, "START")
	}
}

func TestGetPromo_NotFound(t *testing.T) {
	resp := doGet(t, "/api/promos/NOPE")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Code != 404 {
		t.Errorf("error code: got %d, want 404", errResp.Code)
	}
}

func TestCreatePromo(t *testing.T) {
	resp := doPost(t, "/api/promos", map[string]any{
		"code":             "summer20",
		"discount_percent": 20.0,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	p := decodeJSON[promoResponse](t, resp)
	if p.Code != "SUMMER20" {
		t.Errorf("code: got %q, want %q", p.Code, "SUMMER20")
	}
	if !p.Active {
		t.Error("expected promo to default to active")
	}
}

func TestCreatePromo_InvalidPercent(t *testing.T) {
	resp := doPost(t, "/api/promos", map[string]any{
		"code":             "TOOMUCH",
		"discount_percent": 150.0,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
