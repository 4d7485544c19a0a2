package handlers_test_suite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/rogerio-castellano/coffee-storefront/internal/http"
	handler "github.com/rogerio-castellano/coffee-storefront/internal/http/handlers"
)

func TestCreateProductHandler_Valid(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := createProduct(r, handler.ProductRequest{
		Name:         "Huila Reserve",
		Origin:       "Colombia",
		Roast:        "medium",
		Intensity:    6,
		PriceCents:   1450,
		InitialStock: 20,
		ReorderLevel: 5,
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Name != "Huila Reserve" {
		t.Errorf("expected name 'Huila Reserve', got %v", resp.Name)
	}
	if resp.PriceCents != 1450 {
		t.Errorf("expected price 1450 cents, got %v", resp.PriceCents)
	}
	if resp.Status != "active" {
		t.Errorf("expected default status active, got %v", resp.Status)
	}

	// The inventory record is created alongside.
	rec, err := stockRecord(resp.Id)
	if err != nil {
		t.Fatalf("expected inventory record, got: %v", err)
	}
	if rec.CurrentStock != 20 || rec.ReorderLevel != 5 {
		t.Errorf("unexpected inventory record: %+v", rec)
	}
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	tests := []struct {
		name           string
		payload        handler.ProductRequest
		expectedErrors []string
	}{
		{
			name:           "Empty name and price",
			payload:        handler.ProductRequest{Name: "", PriceCents: 0, Intensity: 5},
			expectedErrors: []string{"Name", "PriceCents"},
		},
		{
			name:           "Unknown roast",
			payload:        handler.ProductRequest{Name: "Mystery", PriceCents: 900, Roast: "burnt", Intensity: 5},
			expectedErrors: []string{"Roast"},
		},
		{
			name:           "Intensity out of range",
			payload:        handler.ProductRequest{Name: "Rocket Fuel", PriceCents: 900, Intensity: 11},
			expectedErrors: []string{"Intensity"},
		},
		{
			name:           "Negative initial stock",
			payload:        handler.ProductRequest{Name: "Ghost Stock", PriceCents: 900, Intensity: 5, InitialStock: -1},
			expectedErrors: []string{"InitialStock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createProduct(r, tt.payload)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", w.Code)
			}

			var resp []handler.ProductValidationError
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}

			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp {
					if strings.EqualFold(err.Field, field) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, but not found", field)
				}
			}
		})
	}
}

func TestCreateProductHandler_MalformedJSON(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	badJSON := `{Name: "Invalid" PriceCents: 100 "}` // missing comma
	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(badJSON))
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 Bad Request, got %d", w.Code)
	}
}

func TestCreateProductHandler_RequiresAdmin(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := doRequest(r, http.MethodPost, "/products", customerToken, handler.ProductRequest{
		Name: "Sneaky", PriceCents: 900, Intensity: 5,
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403 Forbidden for customer token, got %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/products", "", handler.ProductRequest{
		Name: "Anonymous", PriceCents: 900, Intensity: 5,
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 Unauthorized without token, got %d", w.Code)
	}
}

func TestGetProductsHandler_PublicList(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	if _, err := createCoffee(r, "Huila Reserve", 1450, 20); err != nil {
		t.Fatal(err)
	}
	if _, err := createCoffee(r, "Yirgacheffe", 1650, 10); err != nil {
		t.Fatal(err)
	}

	// No token: the catalog is public.
	w := doRequest(r, http.MethodGet, "/products", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var resp []handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if len(resp) != 2 {
		t.Errorf("expected 2 products, got %d", len(resp))
	}
}

func TestGetProductByIDHandler_NotFound(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	w := doRequest(r, http.MethodGet, "/products/999", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestGetStockHandler_PublicView(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	id, err := createCoffee(r, "Huila Reserve", 1450, 8)
	if err != nil {
		t.Fatal(err)
	}

	// Hold 3 units so available differs from current.
	if w := addCartItem(r, id, 3); w.Code != http.StatusOK {
		t.Fatalf("adding to cart: %d", w.Code)
	}

	w := doRequest(r, http.MethodGet, fmt.Sprintf("/products/%d/stock", id), "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var resp handler.StockResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.AvailableStock != 5 {
		t.Errorf("expected available 5, got %d", resp.AvailableStock)
	}
	if resp.StockStatus != "in_stock" {
		t.Errorf("expected in_stock, got %s", resp.StockStatus)
	}
}

func TestFilterProductsHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	seed := []struct {
		name  string
		price int64
	}{
		{"Huila Reserve", 1450},
		{"Yirgacheffe", 1650},
		{"Santos Blend", 950},
	}
	for _, s := range seed {
		if _, err := createCoffee(r, s.name, s.price, 10); err != nil {
			t.Fatal(err)
		}
	}

	w := doRequest(r, http.MethodGet, "/products/search?minPrice=1000&maxPrice=1500", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	var resp handler.ProductsSearchResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Meta.TotalCount != 1 {
		t.Errorf("expected 1 match, got %d", resp.Meta.TotalCount)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != "Huila Reserve" {
		t.Errorf("unexpected result: %+v", resp.Data)
	}

	w = doRequest(r, http.MethodGet, "/products/search?limit=0", "", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for zero limit, got %d", w.Code)
	}
}

func TestUpdateProductHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	id, err := createCoffee(r, "Huila Reserve", 1450, 10)
	if err != nil {
		t.Fatal(err)
	}

	w := doRequest(r, http.MethodPut, fmt.Sprintf("/products/%d", id), adminToken, handler.ProductRequest{
		Name:       "Huila Reserve",
		Origin:     "Colombia",
		Roast:      "dark",
		Intensity:  8,
		PriceCents: 1550,
		Status:     "seasonal",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Roast != "dark" || resp.PriceCents != 1550 || resp.Status != "seasonal" {
		t.Errorf("unexpected updated product: %+v", resp)
	}
}

func TestDeleteProductHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := api.NewRouter()

	id, err := createCoffee(r, "Huila Reserve", 1450, 10)
	if err != nil {
		t.Fatal(err)
	}

	w := doRequest(r, http.MethodDelete, fmt.Sprintf("/products/%d", id), adminToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = doRequest(r, http.MethodGet, fmt.Sprintf("/products/%d", id), "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}
