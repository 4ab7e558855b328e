//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// rankIDByName finds a seeded rank ID through the public API.
func rankIDByName(t *testing.T, name string) string {
	t.Helper()

	resp := doGet(t, "/api/ranks")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list ranks: expected 200, got %d", resp.StatusCode)
	}

	for _, rk := range decodeJSON[[]rankResponse](t, resp) {
		if rk.Name == name {
			return rk.ID
		}
	}

	t.Fatalf("rank %q not found", name)
	return ""
}

func TestCreateOrder(t *testing.T) {
	vip := rankIDByName(t, "VIP")
	premium := rankIDByName(t, "Premium")

	req := orderRequest{
		Player: "Steve",
		Items: []orderItemRequest{
			{RankID: vip, Quantity: 2},     // 2x 149 = 298
			{RankID: premium, Quantity: 1}, // 299
		},
	}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	order := decodeJSON[orderResponse](t, resp)
	if order.Amount != 597 {
		t.Errorf("amount: got %v, want 597", order.Amount)
	}
	if order.Status != "pending" {
		t.Errorf("status: got %q, want %q", order.Status, "pending")
	}
	if order.Currency != "RUB" {
		t.Errorf("currency: got %q, want %q", order.Currency, "RUB")
	}
}

func TestCreateOrder_Promo(t *testing.T) {
	vip := rankIDByName(t, "VIP")
	premium := rankIDByName(t, "Premium")

	req := orderRequest{
		Player: "Alex",
		Items: []orderItemRequest{
			{RankID: vip, Quantity: 2},
			{RankID: premium, Quantity: 1},
		},
		PromoCode: "start", // seeded START, 10% off; lookup is case-insensitive
	}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	order := decodeJSON[orderResponse](t, resp)
	// 597 * 0.90 = 537.30
	if order.Amount != 537.30 {
		t.Errorf("amount: got %v, want 537.30", order.Amount)
	}
	if order.PromoCode != "START" {
		t.Errorf("promo_code: got %q, want %q", order.PromoCode, "START")
	}
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	req := orderRequest{
		Player: "Steve",
		Items:  []orderItemRequest{},
	}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_MissingPlayer(t *testing.T) {
	vip := rankIDByName(t, "VIP")

	req := orderRequest{
		Items: []orderItemRequest{{RankID: vip, Quantity: 1}},
	}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_UnknownRank(t *testing.T) {
	req := orderRequest{
		Player: "Steve",
		Items:  []orderItemRequest{{RankID: "no-such-rank", Quantity: 1}},
	}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Code != 404 {
		t.Errorf("error code: got %d, want 404", errResp.Code)
	}
}

func TestCreateOrder_UnknownPromo(t *testing.T) {
	vip := rankIDByName(t, "VIP")

	req := orderRequest{
		Player:    "Steve",
		Items:     []orderItemRequest{{RankID: vip, Quantity: 1}},
		PromoCode: "NONEXISTENT",
	}
	resp := doPost(t, "/api/orders", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetOrder(t *testing.T) {
	vip := rankIDByName(t, "VIP")

	createResp := doPost(t, "/api/orders", orderRequest{
		Player: "Steve",
		Items:  []orderItemRequest{{RankID: vip, Quantity: 1}},
	})
	defer createResp.Body.Close()

	if createResp.StatusCode != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", createResp.StatusCode)
	}
	created := decodeJSON[orderResponse](t, createResp)

	if !uuidPattern.MatchString(created.ID) {
		t.Errorf("order ID %q is not a valid UUID", created.ID)
	}

	resp := doGet(t, "/api/orders/"+created.ID)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	got := decodeJSON[orderResponse](t, resp)
	if got.ID != created.ID {
		t.Errorf("id: got %q, want %q", got.ID, created.ID)
	}
	if len(got.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(got.Items))
	}
	if got.Items[0].Price != 149 {
		t.Errorf("item price: got %v, want 149", got.Items[0].Price)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	resp := doGet(t, "/api/orders/3a6ad57e-71be-4da7-b6a9-47b723b5f0cf")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestPayOrder(t *testing.T) {
	vip := rankIDByName(t, "VIP")

	createResp := doPost(t, "/api/orders", orderRequest{
		Player: "Steve",
		Items:  []orderItemRequest{{RankID: vip, Quantity: 1}},
	})
	defer createResp.Body.Close()
	created := decodeJSON[orderResponse](t, createResp)

	payResp := doPost(t, "/api/orders/"+created.ID+"/pay", map[string]any{})
	defer payResp.Body.Close()

	if payResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", payResp.StatusCode)
	}

	paid := decodeJSON[orderResponse](t, payResp)
	if paid.Status != "paid" {
		t.Errorf("status: got %q, want %q", paid.Status, "paid")
	}
	if paid.Amount != created.Amount {
		t.Errorf("amount changed on pay: got %v, want %v", paid.Amount, created.Amount)
	}

	// Paying again is a no-op that returns the already-paid order.
	againResp := doPost(t, "/api/orders/"+created.ID+"/pay", map[string]any{})
	defer againResp.Body.Close()

	if againResp.StatusCode != http.StatusOK {
		t.Fatalf("repeat pay: expected 200, got %d", againResp.StatusCode)
	}

	again := decodeJSON[orderResponse](t, againResp)
	if again.Status != "paid" {
		t.Errorf("repeat pay status: got %q, want %q", again.Status, "paid")
	}
}

func TestPayOrder_MalformedID(t *testing.T) {
	resp := doPost(t, "/api/orders/not-a-uuid/pay", map[string]any{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPayOrder_NotFound(t *testing.T) {
	resp := doPost(t, "/api/orders/3a6ad57e-71be-4da7-b6a9-47b723b5f0cf/pay", map[string]any{})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
