package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rogerio-castellano/coffee-storefront/internal/auth"
	"github.com/rogerio-castellano/coffee-storefront/internal/cart"
	"github.com/rogerio-castellano/coffee-storefront/internal/checkout"
	handler "github.com/rogerio-castellano/coffee-storefront/internal/http/handlers"
	"github.com/rogerio-castellano/coffee-storefront/internal/models"
	"github.com/rogerio-castellano/coffee-storefront/internal/repo"
)

const (
	adminEmail    = "admin@roastery.test"
	customerEmail = "sam@example.com"
)

var (
	adminToken    string
	customerToken string

	productRepo      *repo.InMemoryProductRepository
	inventoryRepo    *repo.InMemoryInventoryRepository
	orderRepo        *repo.InMemoryOrderRepository
	subscriptionRepo *repo.InMemorySubscriptionRepository
	ledgerRepo       *repo.InMemoryLedgerRepository
	cartService      *cart.Service
)

func init() {
	setupTestRepos()

	var err error
	adminToken, err = auth.GenerateToken(adminEmail, "admin")
	if err != nil {
		panic(fmt.Sprintf("error generating admin token: %v", err))
	}
	customerToken, err = auth.GenerateToken(customerEmail, "customer")
	if err != nil {
		panic(fmt.Sprintf("error generating customer token: %v", err))
	}
}

func setupTestRepos() {
	productRepo = repo.NewInMemoryProductRepository()
	handler.SetProductRepo(productRepo)

	inventoryRepo = repo.NewInMemoryInventoryRepository()
	handler.SetInventoryRepo(inventoryRepo)

	orderRepo = repo.NewInMemoryOrderRepository()
	handler.SetOrderRepo(orderRepo)

	subscriptionRepo = repo.NewInMemorySubscriptionRepository()
	handler.SetSubscriptionRepo(subscriptionRepo)

	ledgerRepo = repo.NewInMemoryLedgerRepository()
	handler.SetLedgerRepo(ledgerRepo)

	metricsRepo := repo.NewInMemoryMetricsRepository()
	metricsRepo.SetRepositories(productRepo, inventoryRepo, orderRepo)
	handler.SetMetricsRepo(metricsRepo)

	cartService = cart.NewService(productRepo, inventoryRepo, ledgerRepo, 15*time.Minute)
	handler.SetCartService(cartService)

	handler.SetFinalizer(checkout.NewFinalizer(cartService, inventoryRepo, orderRepo, ledgerRepo, checkout.Pricing{
		ShippingFlatCents:     599,
		FreeShippingOverCents: 5000,
		TaxBasisPoints:        875,
	}))
}

func clearAll() {
	cartService.Clear(context.Background(), customerEmail)
	productRepo.Clear()
	inventoryRepo.Clear()
	orderRepo.Clear()
	subscriptionRepo.Clear()
	ledgerRepo.Clear()
}

func doRequest(r http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createProduct(r http.Handler, p handler.ProductRequest) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, "/products", adminToken, p)
}

// createCoffee seeds one product with stock and returns its ID.
func createCoffee(r http.Handler, name string, priceCents int64, stock int) (int, error) {
	w := createProduct(r, handler.ProductRequest{
		Name:         name,
		Origin:       "Colombia",
		Roast:        "medium",
		Intensity:    6,
		PriceCents:   priceCents,
		InitialStock: stock,
	})
	if w.Code != http.StatusCreated {
		return 0, fmt.Errorf("seeding product %q: status %d: %s", name, w.Code, w.Body.String())
	}
	var resp handler.ProductResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		return 0, fmt.Errorf("decoding seeded product: %v", err)
	}
	return resp.Id, nil
}

func addCartItem(r http.Handler, productID, qty int) *httptest.ResponseRecorder {
	return doRequest(r, http.MethodPost, "/cart/items", customerToken, handler.CartItemRequest{
		ProductId: productID,
		Quantity:  qty,
	})
}

func decodeCart(w *httptest.ResponseRecorder) (handler.CartResponse, error) {
	var resp handler.CartResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	return resp, err
}

func stockRecord(productID int) (models.InventoryRecord, error) {
	return inventoryRepo.Get(productID)
}

func multipartCSV(csvContent string, filename string) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, _ := writer.CreateFormFile("file", filename)
	part.Write([]byte(csvContent))

	writer.Close()
	return &buf, writer.FormDataContentType()
}
